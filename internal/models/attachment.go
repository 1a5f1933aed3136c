package models

import (
	"time"
)

// PostAttachment is one ordered image bound to a post. Attachments are
// never edited in place: an update removes old IDs and adds new files.
// Deleting a post (or an attachment row) does not delete the stored blob;
// reclamation belongs to the storage backend.
type PostAttachment struct {
	ID          uint      `gorm:"primaryKey" json:"attachment_id"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	FilePath    string    `gorm:"size:500;not null" json:"file_path"`
	FileName    string    `gorm:"size:255" json:"file_name"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	SortOrder   int       `gorm:"not null" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

func (PostAttachment) TableName() string { return "post_attachments" }
