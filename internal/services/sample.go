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

var sampleSpec = query.Spec{
	Table:         "samples",
	SearchColumns: []string{"samples.name"},
	SortColumns: map[string]string{
		"name":       "samples.name",
		"gsm":        "samples.gsm",
		"width":      "samples.width",
		"created_at": "samples.created_at",
	},
	DefaultSort: "samples.created_at DESC",
}

type SampleCreate struct {
	Name                       string
	MillReferenceNumber        string
	BuyerReferenceConstruction string
	Composition                string
	Construction               string
	GSM                        int
	Width                      int
	Count                      string
	HangerUUID                 string
}

// SampleUpdate is a partial update: nil (and empty strings) mean
// unchanged.
type SampleUpdate struct {
	Name                       *string
	MillReferenceNumber        *string
	BuyerReferenceConstruction *string
	Composition                *string
	Construction               *string
	GSM                        *int
	Width                      *int
	Count                      *string
	HangerUUID                 *string
}

type SampleRow struct {
	UUID                       string  `json:"uuid"`
	Name                       string  `json:"name"`
	MillReferenceNumber        string  `json:"mill_reference_number"`
	BuyerReferenceConstruction string  `json:"buyer_reference_construction"`
	Composition                string  `json:"composition"`
	Construction               string  `json:"construction"`
	GSM                        int     `json:"gsm"`
	Width                      int     `json:"width"`
	Count                      string  `json:"count"`
	HangerUUID                 *string `json:"hanger_uuid"`
	HangerName                 *string `json:"hanger_name"`
	SampleImage                *string `json:"sample_image"`
}

type SampleService struct {
	db    *gorm.DB
	lg    *zap.SugaredLogger
	files *storage.LocalStore
}

func NewSampleService(db *gorm.DB, lg *zap.SugaredLogger, files *storage.LocalStore) *SampleService {
	return &SampleService{db: db, lg: lg, files: files}
}

func (s *SampleService) Create(in SampleCreate, image *multipart.FileHeader) (string, error) {
	if in.Name == "" {
		return "", apperr.Validation("name is required")
	}
	var sm models.Sample
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Sample{}).
			Where("name = ? AND is_delete = ?", in.Name, false).
			Count(&n).Error; err != nil {
			return apperr.Internal(err)
		}
		if n > 0 {
			return apperr.Conflict("sample with name %s already exists", in.Name)
		}

		sm = models.Sample{
			Name:                       in.Name,
			MillReferenceNumber:        in.MillReferenceNumber,
			BuyerReferenceConstruction: in.BuyerReferenceConstruction,
			Composition:                in.Composition,
			Construction:               in.Construction,
			GSM:                        in.GSM,
			Width:                      in.Width,
			Count:                      in.Count,
		}
		if in.HangerUUID != "" {
			id, ok, err := liveRowID(tx, "hangers", in.HangerUUID)
			if err != nil {
				return apperr.Internal(err)
			}
			if !ok {
				return apperr.NotFound("hanger with uuid %s not found", in.HangerUUID)
			}
			sm.HangerID = &id
		}
		if err := tx.Create(&sm).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("sample with name %s already exists", in.Name)
			}
			return apperr.Internal(err)
		}

		if image != nil {
			docID, err := saveDocument(tx, s.files, image, fmt.Sprintf("sample/%s", sm.UUID), "SAMPLE-IMAGE")
			if err != nil {
				return apperr.Internal(err)
			}
			sm.SampleImageID = &docID
			if err := tx.Save(&sm).Error; err != nil {
				return apperr.Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return sm.UUID, nil
}

func (s *SampleService) Update(uuid string, in SampleUpdate, image *multipart.FileHeader) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sm models.Sample
		if err := tx.Where("uuid = ? AND is_delete = ?", uuid, false).First(&sm).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("sample with uuid %s not found", uuid)
			}
			return apperr.Internal(err)
		}
		if !sm.IsActive {
			return apperr.Validation("sample is deactivated, activate it first")
		}

		setString(&sm.Name, in.Name)
		setString(&sm.MillReferenceNumber, in.MillReferenceNumber)
		setString(&sm.BuyerReferenceConstruction, in.BuyerReferenceConstruction)
		setString(&sm.Composition, in.Composition)
		setString(&sm.Construction, in.Construction)
		setInt(&sm.GSM, in.GSM)
		setInt(&sm.Width, in.Width)
		setString(&sm.Count, in.Count)

		if in.HangerUUID != nil && *in.HangerUUID != "" {
			id, ok, err := liveRowID(tx, "hangers", *in.HangerUUID)
			if err != nil {
				return apperr.Internal(err)
			}
			if !ok {
				return apperr.NotFound("hanger with uuid %s not found", *in.HangerUUID)
			}
			sm.HangerID = &id
		}

		if image != nil {
			docID, err := saveDocument(tx, s.files, image, fmt.Sprintf("sample/%s", sm.UUID), "SAMPLE-IMAGE")
			if err != nil {
				return apperr.Internal(err)
			}
			sm.SampleImageID = &docID
		}
		if err := tx.Save(&sm).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("sample with name %s already exists", sm.Name)
			}
			return apperr.Internal(err)
		}
		return nil
	})
}

func (s *SampleService) baseQuery(id auth.Identity) *gorm.DB {
	return s.db.Model(&models.Sample{}).
		Select(`samples.uuid, samples.name, samples.mill_reference_number,
			samples.buyer_reference_construction, samples.composition, samples.construction,
			samples.gsm, samples.width, samples.count,
			hangers.uuid AS hanger_uuid, hangers.name AS hanger_name,
			document_masters.file_path AS sample_image`).
		Joins("LEFT JOIN hangers ON hangers.id = samples.hanger_id AND hangers.is_delete = ?", false).
		Joins("LEFT JOIN document_masters ON document_masters.id = samples.sample_image_id AND document_masters.is_delete = ?", false).
		Scopes(query.Visible("samples", id))
}

func (s *SampleService) List(id auth.Identity, p query.ListParams) ([]SampleRow, error) {
	q, err := query.Apply(s.baseQuery(id), p, sampleSpec)
	if err != nil {
		return nil, err
	}
	rows := []SampleRow{}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

func (s *SampleService) GetByUUID(id auth.Identity, uuid string) (*SampleRow, error) {
	var row SampleRow
	err := s.baseQuery(id).Where("samples.uuid = ?", uuid).Take(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("sample not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &row, nil
}

func (s *SampleService) ToggleActive(uuid string) (bool, error) {
	var sm models.Sample
	if err := s.db.Where("uuid = ? AND is_delete = ?", uuid, false).First(&sm).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, apperr.NotFound("sample not found")
		}
		return false, apperr.Internal(err)
	}
	sm.IsActive = !sm.IsActive
	if err := s.db.Save(&sm).Error; err != nil {
		return false, apperr.Internal(err)
	}
	return sm.IsActive, nil
}

func (s *SampleService) Delete(uuid string) error {
	var sm models.Sample
	if err := s.db.Where("uuid = ? AND is_delete = ?", uuid, false).First(&sm).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("sample not found")
		}
		return apperr.Internal(err)
	}
	sm.IsDelete = true
	if err := s.db.Save(&sm).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}
