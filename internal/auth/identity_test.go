package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"texcat/internal/apperr"
	"texcat/internal/auth"
	"texcat/internal/models"
)

func TestAuthorizeAnyMatchingRoleIsSufficient(t *testing.T) {
	id := auth.Identity{Roles: []string{models.RoleAdmin, models.RoleStaff}}

	out, err := auth.Authorize(id, models.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, id, out)

	out, err = auth.Authorize(id, models.RoleStaff, models.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, id, out)
}

func TestAuthorizeForbidden(t *testing.T) {
	id := auth.Identity{Roles: []string{models.RoleStaff}}

	_, err := auth.Authorize(id, models.RoleAdmin)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = auth.Authorize(auth.Identity{}, models.RoleAdmin)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, auth.Identity{Roles: []string{models.RoleAdmin}}.IsAdmin())
	assert.False(t, auth.Identity{Roles: []string{models.RoleStaff}}.IsAdmin())
	assert.False(t, auth.Identity{}.IsAdmin())
}
