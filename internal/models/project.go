package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a client engagement run by one PM.
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:100" json:"category"`
	PMID        uint           `gorm:"column:pm_id;not null;index" json:"pm_id"`
	ClientID    uint           `gorm:"index" json:"client_id"`
	Status      string         `gorm:"size:50;default:open" json:"status"` // open, in_progress, done
	Progress    int            `gorm:"default:0" json:"progress"`          // 0-100
	Budget      int64          `gorm:"default:0" json:"budget"`
	CreatedBy   uint           `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
