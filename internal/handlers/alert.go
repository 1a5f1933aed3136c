package handlers

import (
	"strconv"

	"github.com/collabhub/backend/internal/middleware"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AlertHandler struct {
	alertService *services.AlertService
}

func NewAlertHandler(db *gorm.DB) *AlertHandler {
	return &AlertHandler{
		alertService: services.NewAlertService(db),
	}
}

// ListForViewer returns the viewer's per-channel unread counters, one entry
// per channel with unseen posts.
// GET /api/alerts/:viewer_id
func (h *AlertHandler) ListForViewer(c *gin.Context) {
	viewerID, err := strconv.ParseUint(c.Param("viewer_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid viewer id")
		return
	}

	markers, err := h.alertService.ListForViewer(middleware.GetActor(c), uint(viewerID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"alerts": markers})
}
