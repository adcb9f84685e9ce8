package auth

import "strings"

// Role define el tipo de cuenta. Fijo desde el primer sign-in.
type Role string

const (
	RoleShelter   Role = "shelter"
	RoleVolunteer Role = "volunteer"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleShelter:
		return RoleShelter, true
	case RoleVolunteer:
		return RoleVolunteer, true
	default:
		return "", false
	}
}

// Claims representa la identidad del request: lo que resolvió el proveedor
// de identidad más el rol guardado en users.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}

func (c Claims) Authenticated() bool {
	return strings.TrimSpace(c.UserID) != ""
}

func (c Claims) Is(role Role) bool {
	return c.Authenticated() && c.Role == role
}
