package handlers

import (
	"strconv"

	"github.com/collabhub/backend/internal/middleware"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService    *services.ProjectService
	membershipService *services.MembershipService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectService:    services.NewProjectService(db),
		membershipService: services.NewMembershipService(db),
	}
}

// List returns the projects visible to the caller
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projectService.List(middleware.GetActor(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByID returns one project
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	project, err := h.projectService.GetByID(middleware.GetActor(c), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

// Create creates a project with its PM (and client) membership
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(middleware.GetActor(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, project)
}

// Update edits a project
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(middleware.GetActor(c), uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

// Delete soft-deletes a project
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	if err := h.projectService.Delete(middleware.GetActor(c), uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "project deleted"})
}

// ListMembers returns the project roster with the PM identity
// GET /api/projects/:id/members
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	resp, err := h.membershipService.ListMembers(middleware.GetActor(c), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// AddMember attaches a user to the project
// POST /api/projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req services.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.membershipService.AddMember(middleware.GetActor(c), uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}
