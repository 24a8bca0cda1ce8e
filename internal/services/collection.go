package services

import (
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"texcat/internal/apperr"
	"texcat/internal/auth"
	"texcat/internal/models"
	"texcat/internal/query"
	"texcat/internal/storage"
)

var collectionSpec = query.Spec{
	Table:         "collections",
	SearchColumns: []string{"collections.name"},
	SortColumns: map[string]string{
		"name":       "collections.name",
		"created_at": "collections.created_at",
	},
	DefaultSort: "collections.created_at DESC",
}

// CollectionRow is the list/detail projection for collections.
type CollectionRow struct {
	UUID            string  `json:"uuid"`
	Name            string  `json:"name"`
	CollectionImage *string `json:"collection_image"`
}

type CollectionService struct {
	db    *gorm.DB
	lg    *zap.SugaredLogger
	files *storage.LocalStore
}

func NewCollectionService(db *gorm.DB, lg *zap.SugaredLogger, files *storage.LocalStore) *CollectionService {
	return &CollectionService{db: db, lg: lg, files: files}
}

func (s *CollectionService) Create(name string, image *multipart.FileHeader) (string, error) {
	if name == "" {
		return "", apperr.Validation("name is required")
	}
	var c models.Collection
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Collection{}).
			Where("name = ? AND is_delete = ?", name, false).
			Count(&n).Error; err != nil {
			return apperr.Internal(err)
		}
		if n > 0 {
			return apperr.Conflict("collection with name %s already exists", name)
		}

		c = models.Collection{Name: name}
		if err := tx.Create(&c).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("collection with name %s already exists", name)
			}
			return apperr.Internal(err)
		}

		if image != nil {
			docID, err := saveDocument(tx, s.files, image, fmt.Sprintf("collections/%s", c.UUID), "COLLECTION-IMAGE")
			if err != nil {
				return apperr.Internal(err)
			}
			c.CollectionImageID = &docID
			if err := tx.Save(&c).Error; err != nil {
				return apperr.Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return c.UUID, nil
}

func (s *CollectionService) Update(uuid string, name *string, image *multipart.FileHeader) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var c models.Collection
		if err := tx.Where("uuid = ? AND is_delete = ?", uuid, false).First(&c).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("collection with uuid %s not found", uuid)
			}
			return apperr.Internal(err)
		}

		setString(&c.Name, name)

		if image != nil {
			docID, err := saveDocument(tx, s.files, image, fmt.Sprintf("collections/%s", c.UUID), "COLLECTION-IMAGE")
			if err != nil {
				return apperr.Internal(err)
			}
			c.CollectionImageID = &docID
		}
		if err := tx.Save(&c).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("collection with name %s already exists", c.Name)
			}
			return apperr.Internal(err)
		}
		return nil
	})
}

func (s *CollectionService) baseQuery(id auth.Identity) *gorm.DB {
	return s.db.Model(&models.Collection{}).
		Select("collections.uuid, collections.name, document_masters.file_path AS collection_image").
		Joins("LEFT JOIN document_masters ON document_masters.id = collections.collection_image_id AND document_masters.is_delete = ?", false).
		Scopes(query.Visible("collections", id))
}

func (s *CollectionService) List(id auth.Identity, p query.ListParams) ([]CollectionRow, error) {
	q, err := query.Apply(s.baseQuery(id), p, collectionSpec)
	if err != nil {
		return nil, err
	}
	rows := []CollectionRow{}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

func (s *CollectionService) GetByUUID(id auth.Identity, uuid string) (*CollectionRow, error) {
	var row CollectionRow
	err := s.baseQuery(id).Where("collections.uuid = ?", uuid).Take(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("collection not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &row, nil
}

// ToggleActive flips the visibility toggle and reports the new state.
func (s *CollectionService) ToggleActive(uuid string) (bool, error) {
	var c models.Collection
	if err := s.db.Where("uuid = ? AND is_delete = ?", uuid, false).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, apperr.NotFound("collection not found")
		}
		return false, apperr.Internal(err)
	}
	c.IsActive = !c.IsActive
	if err := s.db.Save(&c).Error; err != nil {
		return false, apperr.Internal(err)
	}
	return c.IsActive, nil
}

// Delete soft-deletes the collection. Deleted rows never come back.
func (s *CollectionService) Delete(uuid string) error {
	var c models.Collection
	if err := s.db.Where("uuid = ? AND is_delete = ?", uuid, false).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("collection not found")
		}
		return apperr.Internal(err)
	}
	c.IsDelete = true
	if err := s.db.Save(&c).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}
