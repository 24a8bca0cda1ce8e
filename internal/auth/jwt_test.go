package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"texcat/internal/auth"
	"texcat/internal/mocks"
	"texcat/internal/models"
)

func liveUser() *models.User {
	return &models.User{
		Base:  models.Base{UUID: "u-1", IsActive: true},
		Email: "staff@example.com",
		Roles: []models.Role{{Name: models.RoleStaff}},
	}
}

func newService(users auth.UserSource, accessTTL, refreshTTL time.Duration) *auth.TokenService {
	return auth.NewTokenService("test-secret", accessTTL, refreshTTL, 5*time.Minute, users)
}

func TestResolveRoundTrip(t *testing.T) {
	users := new(mocks.UserSource)
	users.On("FindLiveByEmail", "staff@example.com").Return(liveUser(), nil)
	svc := newService(users, time.Hour, 24*time.Hour)

	pair, err := svc.IssuePair("staff@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)

	id, err := svc.Resolve(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.UUID)
	assert.Equal(t, "staff@example.com", id.Email)
	assert.Equal(t, []string{models.RoleStaff}, id.Roles)
}

func TestResolveExpiredToken(t *testing.T) {
	svc := newService(new(mocks.UserSource), -time.Minute, 24*time.Hour)

	pair, err := svc.IssuePair("staff@example.com")
	require.NoError(t, err)

	_, err = svc.Resolve(pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestResolveTamperedToken(t *testing.T) {
	svc := newService(new(mocks.UserSource), time.Hour, 24*time.Hour)
	other := newService(new(mocks.UserSource), time.Hour, 24*time.Hour)

	pair, err := auth.NewTokenService("other-secret", time.Hour, 24*time.Hour, time.Minute, nil).IssuePair("staff@example.com")
	require.NoError(t, err)

	_, err = svc.Resolve(pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	pair, err = other.IssuePair("staff@example.com")
	require.NoError(t, err)
	_, err = svc.Resolve(pair.AccessToken + "x")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	_, err = svc.Resolve("not-a-token")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestResolveRejectsRefreshToken(t *testing.T) {
	svc := newService(new(mocks.UserSource), time.Hour, 24*time.Hour)

	pair, err := svc.IssuePair("staff@example.com")
	require.NoError(t, err)

	_, err = svc.Resolve(pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestResolveUnknownSubject(t *testing.T) {
	users := new(mocks.UserSource)
	users.On("FindLiveByEmail", "gone@example.com").Return(nil, gorm.ErrRecordNotFound)
	svc := newService(users, time.Hour, 24*time.Hour)

	pair, err := svc.IssuePair("gone@example.com")
	require.NoError(t, err)

	_, err = svc.Resolve(pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrUnknownSubject)
	users.AssertExpectations(t)
}

func TestRefreshReissuesPair(t *testing.T) {
	users := new(mocks.UserSource)
	users.On("FindLiveByEmail", "staff@example.com").Return(liveUser(), nil)
	svc := newService(users, time.Hour, 24*time.Hour)

	pair, err := svc.IssuePair("staff@example.com")
	require.NoError(t, err)

	next, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	id, err := svc.Resolve(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "staff@example.com", id.Email)

	// stateless: the old refresh token is still accepted
	_, err = svc.Refresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newService(new(mocks.UserSource), time.Hour, 24*time.Hour)

	pair, err := svc.IssuePair("staff@example.com")
	require.NoError(t, err)

	_, err = svc.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestResetTokenFlow(t *testing.T) {
	users := new(mocks.UserSource)
	users.On("FindLiveByEmail", "staff@example.com").Return(liveUser(), nil)
	svc := newService(users, time.Hour, 24*time.Hour)

	tok, err := svc.IssueResetToken("staff@example.com")
	require.NoError(t, err)

	u, err := svc.ResolveReset(tok)
	require.NoError(t, err)
	assert.Equal(t, "staff@example.com", u.Email)

	// a reset token is not an access token
	_, err = svc.Resolve(tok)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}
