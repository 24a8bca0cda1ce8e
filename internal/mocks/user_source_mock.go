package mocks

import (
	"github.com/stretchr/testify/mock"

	"texcat/internal/models"
)

type UserSource struct{ mock.Mock }

func (m *UserSource) FindLiveByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
