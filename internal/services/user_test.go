package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"texcat/internal/apperr"
	"texcat/internal/auth"
	"texcat/internal/mocks"
)

func TestChangePasswordRequiresNewPassword(t *testing.T) {
	svc := NewUserService(nil, zap.NewNop().Sugar(), nil, nil, nil, nil, "")

	err := svc.ChangePassword(auth.Identity{Email: "staff@example.com"}, "oldpw", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestChangePasswordDeactivatedAccount(t *testing.T) {
	users := new(mocks.UserSource)
	users.On("FindLiveByEmail", "staff@example.com").Return(nil, gorm.ErrRecordNotFound)
	svc := NewUserService(nil, zap.NewNop().Sugar(), nil, nil, nil, users, "")

	err := svc.ChangePassword(auth.Identity{Email: "staff@example.com"}, "oldpw", "newpassword1")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
}
