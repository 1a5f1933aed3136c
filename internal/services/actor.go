package services

import (
	"github.com/collabhub/backend/internal/models"
)

// Actor identifies the authenticated caller for one request. It is built
// once at the HTTP boundary from the validated credential and passed into
// every service call; services never read ambient session state.
type Actor struct {
	UserID   uint
	Username string
	Role     models.Role
}

// Admin reports whether the actor holds the platform admin role.
func (a Actor) Admin() bool {
	return a.Role == models.RoleAdmin
}
