package handlers

import (
	"strconv"

	"github.com/collabhub/backend/internal/middleware"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MembershipHandler struct {
	membershipService *services.MembershipService
}

func NewMembershipHandler(db *gorm.DB) *MembershipHandler {
	return &MembershipHandler{
		membershipService: services.NewMembershipService(db),
	}
}

// Resolve answers "who am I in this project": the stable team_member_id
// and the project's PM, so the client can address channels without a
// second lookup.
// GET /api/membership/:project_id/:user_id
func (h *MembershipHandler) Resolve(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	res, err := h.membershipService.ResolveFor(middleware.GetActor(c), uint(projectID), uint(userID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
