package models

import (
	"time"
)

// ChannelKind selects the thread variant inside a project.
type ChannelKind string

const (
	// ChannelCommon is the shared board: one per project, visible to every
	// participant. Its partition key is the project ID.
	ChannelCommon ChannelKind = "common"
	// ChannelDirect is a one-to-one thread between a member and the project
	// PM. Its partition key is the member's team_member_id.
	ChannelDirect ChannelKind = "direct"
)

// ParseChannelKind maps a path segment onto a channel kind.
func ParseChannelKind(s string) (ChannelKind, bool) {
	switch ChannelKind(s) {
	case ChannelCommon, ChannelDirect:
		return ChannelKind(s), true
	}
	return "", false
}

// ChannelPost is a post inside one channel. Soft deletion is an explicit
// flag rather than gorm.DeletedAt: deleted posts are excluded from listings
// but must stay addressable by ID for the creator/admin audit view.
type ChannelPost struct {
	ID           uint             `gorm:"primaryKey" json:"post_id"`
	ProjectID    uint             `gorm:"not null;index:idx_post_channel" json:"project_id"`
	Kind         ChannelKind      `gorm:"column:channel_kind;size:20;not null;index:idx_post_channel" json:"channel_kind"`
	PartitionKey uint             `gorm:"not null;index:idx_post_channel" json:"partition_key"`
	CreatorID    uint             `gorm:"not null;index" json:"creator_id"`
	Title        string           `gorm:"size:200;not null" json:"title"`
	Content      string           `gorm:"type:text;not null" json:"content"`
	IsDeleted    bool             `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Attachments  []PostAttachment `gorm:"foreignKey:PostID" json:"attachments,omitempty"`
}

func (ChannelPost) TableName() string { return "channel_posts" }
