package models

import (
	"time"

	"gorm.io/gorm"
)

// Notice is a platform-wide announcement written by admins.
type Notice struct {
	ID        uint           `gorm:"primaryKey" json:"notice_id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatorID uint           `gorm:"not null" json:"creator_id"`
	Pinned    bool           `gorm:"default:false" json:"pinned"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Notice) TableName() string { return "notices" }
