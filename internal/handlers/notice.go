package handlers

import (
	"strconv"

	"github.com/collabhub/backend/internal/middleware"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NoticeHandler struct {
	noticeService *services.NoticeService
}

func NewNoticeHandler(db *gorm.DB) *NoticeHandler {
	return &NoticeHandler{
		noticeService: services.NewNoticeService(db),
	}
}

// List returns notices, pinned first
// GET /api/notices
func (h *NoticeHandler) List(c *gin.Context) {
	var req services.NoticeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.noticeService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByID returns one notice
// GET /api/notices/:id
func (h *NoticeHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid notice id")
		return
	}

	notice, err := h.noticeService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notice)
}

// Create publishes a notice (admin only, enforced by routing)
// POST /api/notices
func (h *NoticeHandler) Create(c *gin.Context) {
	var req services.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	notice, err := h.noticeService.Create(middleware.GetActor(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notice)
}

// Update edits a notice
// PUT /api/notices/:id
func (h *NoticeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid notice id")
		return
	}

	var req services.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	notice, err := h.noticeService.Update(middleware.GetActor(c), uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notice)
}

// Delete soft-deletes a notice
// DELETE /api/notices/:id
func (h *NoticeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid notice id")
		return
	}

	if err := h.noticeService.Delete(middleware.GetActor(c), uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "notice deleted"})
}
