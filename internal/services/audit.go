package services

import (
	"time"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/logger"
	"gorm.io/gorm"
)

var auditDB *gorm.DB

// InitAudit wires the audit writer to the database. Before this is called
// audit writes are dropped silently, which only matters in tests.
func InitAudit(db *gorm.DB) {
	auditDB = db
}

// WriteAudit appends one audit row. Failures are logged, never propagated:
// an audit hiccup must not fail the request it describes.
func WriteAudit(level, module, action, message string, userID *uint, ip, userAgent string) {
	if auditDB == nil {
		return
	}

	entry := models.AuditLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   message,
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}
	if err := auditDB.Create(&entry).Error; err != nil {
		logger.Warn().Err(err).Msg("failed to write audit log")
	}
}

type AuditLogService struct {
	db *gorm.DB
}

func NewAuditLogService(db *gorm.DB) *AuditLogService {
	return &AuditLogService{db: db}
}

type AuditLogListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Module   string `form:"module"`
	Level    string `form:"level"`
}

type AuditLogListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []models.AuditLog `json:"items"`
}

func (s *AuditLogService) List(req *AuditLogListRequest) (*AuditLogListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.AuditLog{})
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}
	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.AuditLog
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC, id DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &AuditLogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// CleanupOld deletes audit rows older than retentionDays.
func (s *AuditLogService) CleanupOld(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
