package handlers

import (
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuditLogHandler struct {
	auditService *services.AuditLogService
}

func NewAuditLogHandler(db *gorm.DB) *AuditLogHandler {
	return &AuditLogHandler{
		auditService: services.NewAuditLogService(db),
	}
}

// List returns audit entries, newest first (admin only, enforced by routing)
// GET /api/audit-logs
func (h *AuditLogHandler) List(c *gin.Context) {
	var req services.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.auditService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}
