package services

import (
	"errors"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/response"
	"gorm.io/gorm"
)

type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// Resolution answers "who is this user inside this project": the stable
// partition key for their direct channel, plus the project PM so callers
// never need a second round trip to learn their counterpart.
type Resolution struct {
	TeamMemberID uint `json:"team_member_id"`
	PMID         uint `json:"pm_id"`
}

// Resolve returns the team_member_id and PM for (projectID, userID).
// Side-effect free and stable across calls; safe on every navigation.
func (s *MembershipService) Resolve(projectID, userID uint) (*Resolution, error) {
	var tm models.TeamMember
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&tm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user has no membership in this project")
		}
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	return &Resolution{TeamMemberID: tm.ID, PMID: project.PMID}, nil
}

// ResolveFor is Resolve gated by the caller: a user may resolve their own
// membership; the project PM and admins may resolve anyone's.
func (s *MembershipService) ResolveFor(actor Actor, projectID, userID uint) (*Resolution, error) {
	res, err := s.Resolve(projectID, userID)
	if err != nil {
		return nil, err
	}
	if actor.Admin() || actor.UserID == userID || actor.UserID == res.PMID {
		return res, nil
	}
	return nil, response.NewForbidden("cannot resolve another user's membership")
}

type MemberListResponse struct {
	PMID    uint                `json:"pm_id"`
	Members []models.TeamMember `json:"members"`
}

// ListMembers returns a project's membership roster with the PM identity.
// Only participants, the PM and admins may enumerate it.
func (s *MembershipService) ListMembers(actor Actor, projectID uint) (*MemberListResponse, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if !actor.Admin() && project.PMID != actor.UserID {
		var count int64
		s.db.Model(&models.TeamMember{}).
			Where("project_id = ? AND user_id = ?", projectID, actor.UserID).
			Count(&count)
		if count == 0 {
			return nil, response.NewForbidden("not a participant of this project")
		}
	}

	var members []models.TeamMember
	if err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	return &MemberListResponse{PMID: project.PMID, Members: members}, nil
}

type AddMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=client member pm"`
}

// AddMember attaches a user to a project, creating the immutable membership
// row whose ID becomes the user's team_member_id.
func (s *MembershipService) AddMember(actor Actor, projectID uint, req *AddMemberRequest) (*models.TeamMember, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if !actor.Admin() && project.PMID != actor.UserID {
		return nil, response.NewForbidden("only the project PM or an admin may add members")
	}

	if req.Role == string(models.RolePM) && req.UserID != project.PMID {
		return nil, response.NewValidationError("project already has a PM")
	}

	var user models.User
	if err := s.db.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	tm := models.TeamMember{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      req.Role,
	}
	if err := s.db.Create(&tm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("user is already a member of this project")
		}
		return nil, err
	}
	return &tm, nil
}
