package models

import (
	"time"
)

// TeamMember binds a user to a project. Its row ID is the team_member_id:
// the stable partition key used to address that user's direct channel,
// independent of login session or account role. Rows are immutable once
// created and never soft-deleted, so the key stays resolvable for audit.
type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"team_member_id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_team_project_user;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    uint      `gorm:"uniqueIndex:idx_team_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string    `gorm:"size:50;default:member" json:"role"` // client, member, pm
	CreatedAt time.Time `json:"created_at"`
}

func (TeamMember) TableName() string { return "team_members" }
