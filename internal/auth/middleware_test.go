package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texcat/internal/auth"
	"texcat/internal/mocks"
	"texcat/internal/models"
)

func protectedEcho(svc *auth.TokenService, requiredRoles ...string) http.Handler {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := auth.FromContext(r.Context())
		w.Write([]byte(id.Email))
	})
	if len(requiredRoles) > 0 {
		h = auth.RequireRole(requiredRoles...)(h)
	}
	return auth.JWTAuth(svc)(h)
}

func TestJWTAuthMissingToken(t *testing.T) {
	svc := newService(new(mocks.UserSource), time.Hour, 24*time.Hour)
	rec := httptest.NewRecorder()
	protectedEcho(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthResolvesIdentity(t *testing.T) {
	users := new(mocks.UserSource)
	users.On("FindLiveByEmail", "staff@example.com").Return(liveUser(), nil)
	svc := newService(users, time.Hour, 24*time.Hour)

	pair, err := svc.IssuePair("staff@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	protectedEcho(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "staff@example.com", rec.Body.String())
}

func TestJWTAuthHidesLookupFailureDetail(t *testing.T) {
	users := new(mocks.UserSource)
	users.On("FindLiveByEmail", "staff@example.com").Return(nil, errors.New("connection refused to db host 10.0.0.7"))
	svc := newService(users, time.Hour, 24*time.Hour)

	pair, err := svc.IssuePair("staff@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	protectedEcho(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRequireRoleGatesStaff(t *testing.T) {
	users := new(mocks.UserSource)
	users.On("FindLiveByEmail", "staff@example.com").Return(liveUser(), nil)
	svc := newService(users, time.Hour, 24*time.Hour)

	pair, err := svc.IssuePair("staff@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/collections", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	protectedEcho(svc, models.RoleAdmin).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAdmitsAdmin(t *testing.T) {
	admin := liveUser()
	admin.Roles = []models.Role{{Name: models.RoleAdmin}, {Name: models.RoleStaff}}
	users := new(mocks.UserSource)
	users.On("FindLiveByEmail", "staff@example.com").Return(admin, nil)
	svc := newService(users, time.Hour, 24*time.Hour)

	pair, err := svc.IssuePair("staff@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/collections", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	protectedEcho(svc, models.RoleAdmin).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
