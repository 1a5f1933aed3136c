package services

import (
	"net/http"
	"testing"

	"github.com/collabhub/backend/internal/config"
	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/internal/utils"
)

func init() {
	utils.SetJWTSecret("test-secret-for-service-testing")
}

func newAuthService(t *testing.T) (*AuthService, *fixture) {
	t.Helper()
	f := newFixture(t)
	return NewAuthService(f.db, &config.JWTConfig{Secret: "test-secret-for-service-testing", ExpireHour: 1}), f
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(&RegisterRequest{
		Username: "newuser",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != string(models.RoleClient) {
		t.Errorf("default role = %q, expected client", user.Role)
	}
	if user.Password == "longenough" {
		t.Error("password stored in plain text")
	}

	resp, err := svc.Login(&LoginRequest{Username: "newuser", Password: "longenough"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login returned no token")
	}

	claims, err := utils.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != string(models.RoleClient) {
		t.Errorf("claims = %d/%s, expected %d/client", claims.UserID, claims.Role, user.ID)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "taken", Password: "longenough"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(&RegisterRequest{Username: "taken", Password: "longenough"})
	wantStatus(t, err, http.StatusConflict)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "someone", Password: "longenough"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(&LoginRequest{Username: "someone", Password: "wrongpass"})
	wantStatus(t, err, http.StatusUnauthorized)

	_, err = svc.Login(&LoginRequest{Username: "nobody", Password: "whatever"})
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, f := newAuthService(t)

	user, err := svc.Register(&RegisterRequest{Username: "parked", Password: "longenough"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := f.db.Model(user).UpdateColumn("is_active", false).Error; err != nil {
		t.Fatalf("disable failed: %v", err)
	}

	_, err = svc.Login(&LoginRequest{Username: "parked", Password: "longenough"})
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestCreateAdminIfNotExists_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, &config.JWTConfig{Secret: "s", ExpireHour: 1})

	if err := svc.CreateAdminIfNotExists("admin", "admin12345"); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := svc.CreateAdminIfNotExists("admin", "admin12345"); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one admin, got %d", count)
	}
}
