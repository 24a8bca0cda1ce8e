package auth

import (
	"texcat/internal/apperr"
	"texcat/internal/models"
)

// Identity is a resolved, live user attached to the current request.
type Identity struct {
	UUID  string
	Email string
	Roles []string
}

func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (id Identity) IsAdmin() bool { return id.HasRole(models.RoleAdmin) }

// Authorize passes the identity through if it holds at least one of the
// required roles. Any single match is sufficient.
func Authorize(id Identity, required ...string) (Identity, error) {
	for _, role := range required {
		if id.HasRole(role) {
			return id, nil
		}
	}
	return Identity{}, apperr.Forbidden("insufficient role")
}
