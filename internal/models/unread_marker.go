package models

import (
	"time"
)

// UnreadMarker counts posts a viewer has not seen in one channel. A new
// post increments every other participant's row inside the same transaction
// that creates the post; a successful listing resets the viewer's row to
// zero. One row per (channel, viewer).
type UnreadMarker struct {
	ID           uint        `gorm:"primaryKey" json:"-"`
	ProjectID    uint        `gorm:"not null;uniqueIndex:idx_unread_channel_viewer" json:"project_id"`
	Kind         ChannelKind `gorm:"column:channel_kind;size:20;not null;uniqueIndex:idx_unread_channel_viewer" json:"channel_kind"`
	PartitionKey uint        `gorm:"not null;uniqueIndex:idx_unread_channel_viewer" json:"partition_key"`
	ViewerID     uint        `gorm:"not null;uniqueIndex:idx_unread_channel_viewer;index" json:"viewer_id"`
	Count        int         `gorm:"not null;default:0" json:"count"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (UnreadMarker) TableName() string { return "unread_markers" }
