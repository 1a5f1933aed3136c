package services

import (
	"errors"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/response"
	"gorm.io/gorm"
)

type NoticeService struct {
	db *gorm.DB
}

func NewNoticeService(db *gorm.DB) *NoticeService {
	return &NoticeService{db: db}
}

type NoticeListRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type NoticeListResponse struct {
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Items    []models.Notice `json:"items"`
}

// List returns notices newest first, pinned ones on top.
func (s *NoticeService) List(req *NoticeListRequest) (*NoticeListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	query := s.db.Model(&models.Notice{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var notices []models.Notice
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("pinned DESC, created_at DESC, id DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&notices).Error; err != nil {
		return nil, err
	}

	return &NoticeListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    notices,
	}, nil
}

func (s *NoticeService) GetByID(id uint) (*models.Notice, error) {
	var notice models.Notice
	if err := s.db.First(&notice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("notice not found")
		}
		return nil, err
	}
	return &notice, nil
}

type NoticeRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Pinned  bool   `json:"pinned"`
}

func (s *NoticeService) Create(actor Actor, req *NoticeRequest) (*models.Notice, error) {
	notice := models.Notice{
		Title:     req.Title,
		Content:   req.Content,
		CreatorID: actor.UserID,
		Pinned:    req.Pinned,
	}
	if err := s.db.Create(&notice).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

func (s *NoticeService) Update(actor Actor, id uint, req *NoticeRequest) (*models.Notice, error) {
	notice, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(notice).Updates(map[string]interface{}{
		"title":   req.Title,
		"content": req.Content,
		"pinned":  req.Pinned,
	}).Error; err != nil {
		return nil, err
	}
	return notice, nil
}

// Delete soft-deletes a notice. Repeating a delete is a no-op success.
func (s *NoticeService) Delete(actor Actor, id uint) error {
	return s.db.Delete(&models.Notice{}, id).Error
}
