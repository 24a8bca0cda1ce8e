package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("bad enum").Status())
	assert.Equal(t, http.StatusBadRequest, Conflict("duplicate name").Status())
	assert.Equal(t, http.StatusUnauthorized, Unauthenticated("no token").Status())
	assert.Equal(t, http.StatusForbidden, Forbidden("staff only").Status())
	assert.Equal(t, http.StatusNotFound, NotFound("no such row").Status())
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("boom")).Status())
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"))
	assert.NotContains(t, err.Message, "connection refused")
	assert.ErrorContains(t, err, "connection refused") // full chain, for logs only
}

func TestIsKind(t *testing.T) {
	err := error(NotFound("gone"))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}
