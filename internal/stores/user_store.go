package stores

import (
	"gorm.io/gorm"

	"texcat/internal/models"
)

var ErrNotFound = gorm.ErrRecordNotFound

// GormUserStore implements auth.UserSource on top of GORM.
type GormUserStore struct{ DB *gorm.DB }

// FindLiveByEmail returns the active, non-deleted user with the given
// email, roles preloaded.
func (s *GormUserStore) FindLiveByEmail(email string) (*models.User, error) {
	var u models.User
	err := s.DB.Preload("Roles").
		Where("email = ? AND is_active = ? AND is_delete = ?", email, true, false).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
