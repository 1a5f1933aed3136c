package services

import (
	"errors"
	"time"

	"github.com/collabhub/backend/internal/config"
	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/internal/utils"
	"github.com/collabhub/backend/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"omitempty,email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role" binding:"omitempty,oneof=client member"`
}

// Register creates a local account. Self-service registration only hands
// out client/member roles; pm and admin are granted by an admin.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	if req.Role == "" {
		req.Role = string(models.RoleClient)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: req.Username,
		Password: hash,
		Email:    req.Email,
		Nickname: req.Nickname,
		Role:     req.Role,
	}
	if user.Nickname == "" {
		user.Nickname = req.Username
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("username is already taken")
		}
		return nil, err
	}
	return &user, nil
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

// Login authenticates a user and returns a signed JWT. The role embedded in
// the token comes from the user row; it is re-validated on every request
// and ownership checks never trust it alone.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	var user models.User
	err := s.db.Where("username = ?", req.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("invalid username or password")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, response.NewUnauthorized("account is disabled")
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthorized("invalid username or password")
	}

	expireHours := s.jwtConfig.ExpireHour
	if expireHours <= 0 {
		expireHours = 24
	}
	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, expireHours)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Model(&user).UpdateColumn("last_login", now)

	return &LoginResponse{
		Token:    token,
		User:     &user,
		ExpireAt: now.Add(time.Duration(expireHours) * time.Hour),
	}, nil
}

// GetUser returns the account behind an actor.
func (s *AuthService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// CreateAdminIfNotExists seeds the initial admin account on first boot.
func (s *AuthService) CreateAdminIfNotExists(username, password string) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return s.db.Create(&models.User{
		Username: username,
		Password: hash,
		Nickname: "Administrator",
		Role:     string(models.RoleAdmin),
	}).Error
}
