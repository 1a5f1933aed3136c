package handlers

import (
	"github.com/collabhub/backend/internal/config"
	"github.com/collabhub/backend/internal/middleware"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, &cfg.JWT),
	}
}

// Register creates a new account
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Login authenticates and returns a JWT
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetCurrentUser returns the account behind the token
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	actor := middleware.GetActor(c)
	user, err := h.authService.GetUser(actor.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// CreateAdminIfNotExists seeds the first admin account.
func (h *AuthHandler) CreateAdminIfNotExists() error {
	return h.authService.CreateAdminIfNotExists("admin", "admin12345")
}
