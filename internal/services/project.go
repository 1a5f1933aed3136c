package services

import (
	"errors"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Title    string `form:"title"`
	Status   string `form:"status"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

// List returns the projects the actor can see: admins see everything, PMs
// their own projects, clients and members the ones they participate in.
func (s *ProjectService) List(actor Actor, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	query := s.db.Model(&models.Project{})

	switch actor.Role {
	case models.RoleAdmin:
		// no scoping
	case models.RolePM:
		query = query.Where("pm_id = ?", actor.UserID)
	case models.RoleMember, models.RoleClient:
		query = query.Where(
			"id IN (?)",
			s.db.Model(&models.TeamMember{}).Select("project_id").Where("user_id = ?", actor.UserID),
		)
	default:
		return nil, response.NewForbidden("unknown role")
	}

	if req.Title != "" {
		query = query.Where("title LIKE ?", "%"+req.Title+"%")
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// GetByID returns a project visible to the actor.
func (s *ProjectService) GetByID(actor Actor, id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if !actor.Admin() && project.PMID != actor.UserID {
		var count int64
		s.db.Model(&models.TeamMember{}).
			Where("project_id = ? AND user_id = ?", id, actor.UserID).
			Count(&count)
		if count == 0 {
			return nil, response.NewForbidden("not a participant of this project")
		}
	}
	return &project, nil
}

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PMID        uint   `json:"pm_id"`
	ClientID    uint   `json:"client_id"`
	Budget      int64  `json:"budget"`
}

// Create creates a project and seeds its membership rows: the PM always,
// the client when given. The PM membership row is what lets the PM appear
// in channel rosters.
func (s *ProjectService) Create(actor Actor, req *CreateProjectRequest) (*models.Project, error) {
	switch actor.Role {
	case models.RoleAdmin, models.RolePM:
	default:
		return nil, response.NewForbidden("only a PM or an admin may create projects")
	}

	pmID := req.PMID
	if pmID == 0 {
		if actor.Role != models.RolePM {
			return nil, response.NewValidationError("pm_id is required")
		}
		pmID = actor.UserID
	}

	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PMID:        pmID,
		ClientID:    req.ClientID,
		Budget:      req.Budget,
		CreatedBy:   actor.UserID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.TeamMember{
			ProjectID: project.ID,
			UserID:    pmID,
			Role:      string(models.RolePM),
		}).Error; err != nil {
			return err
		}
		if req.ClientID != 0 && req.ClientID != pmID {
			if err := tx.Create(&models.TeamMember{
				ProjectID: project.ID,
				UserID:    req.ClientID,
				Role:      string(models.RoleClient),
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type UpdateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status" binding:"omitempty,oneof=open in_progress done"`
	Progress    *int   `json:"progress" binding:"omitempty,min=0,max=100"`
	Budget      *int64 `json:"budget"`
}

// Update edits mutable project fields. The PM identity is fixed at
// creation; reassigning a project is an admin data operation, not an API.
func (s *ProjectService) Update(actor Actor, id uint, req *UpdateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if !actor.Admin() && project.PMID != actor.UserID {
		return nil, response.NewForbidden("only the project PM or an admin may edit the project")
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Progress != nil {
		updates["progress"] = *req.Progress
	}
	if req.Budget != nil {
		updates["budget"] = *req.Budget
	}

	if len(updates) > 0 {
		if err := s.db.Model(&project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &project, nil
}

// Delete soft-deletes a project. Membership rows and channel posts stay in
// place for audit; the project simply stops resolving.
func (s *ProjectService) Delete(actor Actor, id uint) error {
	if !actor.Admin() {
		return response.NewForbidden("only an admin may delete projects")
	}
	result := s.db.Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("project not found")
	}
	return nil
}
