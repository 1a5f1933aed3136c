package models

// Role is the closed set of caller roles. Authorization code switches over
// it exhaustively; adding a role means revisiting every switch, on purpose.
type Role string

const (
	RoleClient Role = "client"
	RoleMember Role = "member"
	RolePM     Role = "pm"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a stored role string onto the closed set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient, RoleMember, RolePM, RoleAdmin:
		return Role(s), true
	}
	return "", false
}
