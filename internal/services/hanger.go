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

var hangerSpec = query.Spec{
	Table:         "hangers",
	SearchColumns: []string{"hangers.name", "hangers.code"},
	SortColumns: map[string]string{
		"name":       "hangers.name",
		"code":       "hangers.code",
		"gsm":        "hangers.gsm",
		"width":      "hangers.width",
		"created_at": "hangers.created_at",
	},
	DefaultSort: "hangers.created_at DESC",
}

// HangerCreate carries the fields of a new hanger. CollectionUUID, when
// set, must resolve to a live collection.
type HangerCreate struct {
	Name                string
	Code                string
	MillReferenceNumber string
	Construction        string
	Composition         string
	GSM                 int
	Width               int
	Count               string
	CollectionUUID      string
}

// HangerUpdate is a partial update: nil (and empty strings) mean
// unchanged.
type HangerUpdate struct {
	Name                *string
	Code                *string
	MillReferenceNumber *string
	Construction        *string
	Composition         *string
	GSM                 *int
	Width               *int
	Count               *string
	CollectionUUID      *string
}

// HangerRow is the list/detail projection with the collection and image
// joined in.
type HangerRow struct {
	UUID                string  `json:"uuid"`
	Name                string  `json:"name"`
	Code                string  `json:"code"`
	MillReferenceNumber string  `json:"mill_reference_number"`
	Construction        string  `json:"construction"`
	Composition         string  `json:"composition"`
	GSM                 int     `json:"gsm"`
	Width               int     `json:"width"`
	Count               string  `json:"count"`
	CollectionUUID      *string `json:"collection_uuid"`
	CollectionName      *string `json:"collection_name"`
	HangerImage         *string `json:"hanger_image"`
}

type HangerService struct {
	db    *gorm.DB
	lg    *zap.SugaredLogger
	files *storage.LocalStore
}

func NewHangerService(db *gorm.DB, lg *zap.SugaredLogger, files *storage.LocalStore) *HangerService {
	return &HangerService{db: db, lg: lg, files: files}
}

func (s *HangerService) Create(in HangerCreate, image *multipart.FileHeader) (string, error) {
	if in.Name == "" || in.Code == "" {
		return "", apperr.Validation("name and code are required")
	}
	var h models.Hanger
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Hanger{}).
			Where("(name = ? OR code = ?) AND is_delete = ?", in.Name, in.Code, false).
			Count(&n).Error; err != nil {
			return apperr.Internal(err)
		}
		if n > 0 {
			return apperr.Conflict("hanger with name %s or code %s already exists", in.Name, in.Code)
		}

		h = models.Hanger{
			Name:                in.Name,
			Code:                in.Code,
			MillReferenceNumber: in.MillReferenceNumber,
			Construction:        in.Construction,
			Composition:         in.Composition,
			GSM:                 in.GSM,
			Width:               in.Width,
			Count:               in.Count,
		}
		if in.CollectionUUID != "" {
			id, ok, err := liveRowID(tx, "collections", in.CollectionUUID)
			if err != nil {
				return apperr.Internal(err)
			}
			if !ok {
				return apperr.NotFound("collection with uuid %s not found", in.CollectionUUID)
			}
			h.CollectionID = &id
		}
		if err := tx.Create(&h).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("hanger with name %s or code %s already exists", in.Name, in.Code)
			}
			return apperr.Internal(err)
		}

		if image != nil {
			docID, err := saveDocument(tx, s.files, image, fmt.Sprintf("hanger/%s", h.UUID), "HANGER-IMAGE")
			if err != nil {
				return apperr.Internal(err)
			}
			h.HangerImageID = &docID
			if err := tx.Save(&h).Error; err != nil {
				return apperr.Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return h.UUID, nil
}

func (s *HangerService) Update(uuid string, in HangerUpdate, image *multipart.FileHeader) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var h models.Hanger
		if err := tx.Where("uuid = ? AND is_delete = ?", uuid, false).First(&h).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("hanger with uuid %s not found", uuid)
			}
			return apperr.Internal(err)
		}
		if !h.IsActive {
			return apperr.Validation("hanger is deactivated, activate it first")
		}

		setString(&h.Name, in.Name)
		setString(&h.Code, in.Code)
		setString(&h.MillReferenceNumber, in.MillReferenceNumber)
		setString(&h.Construction, in.Construction)
		setString(&h.Composition, in.Composition)
		setInt(&h.GSM, in.GSM)
		setInt(&h.Width, in.Width)
		setString(&h.Count, in.Count)

		if in.CollectionUUID != nil && *in.CollectionUUID != "" {
			id, ok, err := liveRowID(tx, "collections", *in.CollectionUUID)
			if err != nil {
				return apperr.Internal(err)
			}
			if !ok {
				return apperr.NotFound("collection with uuid %s not found", *in.CollectionUUID)
			}
			h.CollectionID = &id
		}

		if image != nil {
			docID, err := saveDocument(tx, s.files, image, fmt.Sprintf("hanger/%s", h.UUID), "HANGER-IMAGE")
			if err != nil {
				return apperr.Internal(err)
			}
			h.HangerImageID = &docID
		}
		if err := tx.Save(&h).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("hanger with name %s or code %s already exists", h.Name, h.Code)
			}
			return apperr.Internal(err)
		}
		return nil
	})
}

func (s *HangerService) baseQuery(id auth.Identity) *gorm.DB {
	return s.db.Model(&models.Hanger{}).
		Select(`hangers.uuid, hangers.name, hangers.code, hangers.mill_reference_number,
			hangers.construction, hangers.composition, hangers.gsm, hangers.width, hangers.count,
			collections.uuid AS collection_uuid, collections.name AS collection_name,
			document_masters.file_path AS hanger_image`).
		Joins("LEFT JOIN collections ON collections.id = hangers.collection_id AND collections.is_delete = ?", false).
		Joins("LEFT JOIN document_masters ON document_masters.id = hangers.hanger_image_id AND document_masters.is_delete = ?", false).
		Scopes(query.Visible("hangers", id))
}

func (s *HangerService) List(id auth.Identity, p query.ListParams) ([]HangerRow, error) {
	q, err := query.Apply(s.baseQuery(id), p, hangerSpec)
	if err != nil {
		return nil, err
	}
	rows := []HangerRow{}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

func (s *HangerService) GetByUUID(id auth.Identity, uuid string) (*HangerRow, error) {
	var row HangerRow
	err := s.baseQuery(id).Where("hangers.uuid = ?", uuid).Take(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("hanger not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &row, nil
}

func (s *HangerService) ToggleActive(uuid string) (bool, error) {
	var h models.Hanger
	if err := s.db.Where("uuid = ? AND is_delete = ?", uuid, false).First(&h).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, apperr.NotFound("hanger not found")
		}
		return false, apperr.Internal(err)
	}
	h.IsActive = !h.IsActive
	if err := s.db.Save(&h).Error; err != nil {
		return false, apperr.Internal(err)
	}
	return h.IsActive, nil
}

func (s *HangerService) Delete(uuid string) error {
	var h models.Hanger
	if err := s.db.Where("uuid = ? AND is_delete = ?", uuid, false).First(&h).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("hanger not found")
		}
		return apperr.Internal(err)
	}
	h.IsDelete = true
	if err := s.db.Save(&h).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}
