package services

import (
	"errors"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"

	"texcat/internal/models"
	"texcat/internal/storage"
)

// isUniqueViolation recognizes a storage-level unique-constraint failure.
// The pre-insert existence checks are only a fast-fail courtesy, the
// unique index is the authority; the insert can still lose the race.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

// saveDocument stores the upload under the given folder and records a
// DocumentMaster row in the same transaction, returning its id.
func saveDocument(tx *gorm.DB, files *storage.LocalStore, fh *multipart.FileHeader, folder, entityType string) (uint64, error) {
	src, err := fh.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	path, err := files.Save(src, folder, fh.Filename)
	if err != nil {
		return 0, err
	}
	doc := models.DocumentMaster{
		DocumentName: storage.SanitizeFilename(fh.Filename),
		FilePath:     path,
		EntityType:   entityType,
		ActualPath:   path,
	}
	if err := tx.Create(&doc).Error; err != nil {
		return 0, err
	}
	return doc.ID, nil
}

// liveRowID resolves a public uuid to the internal id of a non-deleted
// row in the given table. The second return is false when no live row
// matches.
func liveRowID(tx *gorm.DB, table, uuid string) (uint64, bool, error) {
	var id uint64
	err := tx.Table(table).Select("id").
		Where("uuid = ? AND is_delete = ?", uuid, false).
		Take(&id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// setString overwrites dst only when the update carries a non-empty,
// changed value. Nil and "" both mean unchanged.
func setString(dst *string, src *string) {
	if src != nil && *src != "" && *src != *dst {
		*dst = *src
	}
}

// setInt overwrites dst only when the update carries a value. Nil means
// unchanged; zero is a legitimate value.
func setInt(dst *int, src *int) {
	if src != nil && *src != *dst {
		*dst = *src
	}
}
