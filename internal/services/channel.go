package services

import (
	"errors"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/response"
	"gorm.io/gorm"
)

// ChannelRef addresses one thread: the shared board (partition key ==
// project ID) or a member's direct channel (partition key ==
// team_member_id).
type ChannelRef struct {
	ProjectID    uint
	Kind         models.ChannelKind
	PartitionKey uint
}

// ChannelAccess is the result of a successful authorization: the project
// and, for direct channels, the member the channel belongs to.
type ChannelAccess struct {
	Project *models.Project
	Target  *models.TeamMember // nil for the shared board
}

// postRef rebuilds the channel address a stored post belongs to.
func postRef(p *models.ChannelPost) ChannelRef {
	return ChannelRef{ProjectID: p.ProjectID, Kind: p.Kind, PartitionKey: p.PartitionKey}
}

type ChannelService struct {
	db *gorm.DB
}

func NewChannelService(db *gorm.DB) *ChannelService {
	return &ChannelService{db: db}
}

// RoutableKinds returns the channel kinds a role may address at all.
// Which direct channels are reachable is decided per partition key in
// Authorize; every valid role can reach at least its own.
func RoutableKinds(role models.Role) []models.ChannelKind {
	switch role {
	case models.RoleAdmin, models.RolePM, models.RoleMember, models.RoleClient:
		return []models.ChannelKind{models.ChannelCommon, models.ChannelDirect}
	}
	return nil
}

// Authorize decides whether the actor may read or write the channel.
// Gating happens here, server-side: partition keys are small integers a
// client can enumerate, so hiding menu entries in the UI proves nothing.
func (s *ChannelService) Authorize(actor Actor, ref ChannelRef) (*ChannelAccess, error) {
	var project models.Project
	if err := s.db.First(&project, ref.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	// Admins bypass the participant check; everyone else must hold a
	// membership row in the project.
	if !actor.Admin() {
		var count int64
		if err := s.db.Model(&models.TeamMember{}).
			Where("project_id = ? AND user_id = ?", ref.ProjectID, actor.UserID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, response.NewForbidden("not a participant of this project")
		}
	}

	switch ref.Kind {
	case models.ChannelCommon:
		if ref.PartitionKey != ref.ProjectID {
			return nil, response.NewNotFound("no such channel")
		}
		return &ChannelAccess{Project: &project}, nil

	case models.ChannelDirect:
		var target models.TeamMember
		if err := s.db.First(&target, ref.PartitionKey).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFound("no such channel")
			}
			return nil, err
		}
		if target.ProjectID != ref.ProjectID {
			return nil, response.NewNotFound("no such channel")
		}
		// The PM has no direct channel of their own; they are the
		// counterpart in every member's channel.
		if target.UserID == project.PMID {
			return nil, response.NewNotFound("no such channel")
		}

		if actor.Admin() || actor.UserID == project.PMID || actor.UserID == target.UserID {
			return &ChannelAccess{Project: &project, Target: &target}, nil
		}
		return nil, response.NewForbidden("direct channel belongs to another member")

	default:
		return nil, response.NewNotFound("unknown channel kind")
	}
}
