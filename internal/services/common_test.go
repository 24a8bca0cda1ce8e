package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestSetStringIgnoresNilAndEmpty(t *testing.T) {
	dst := "original"

	setString(&dst, nil)
	assert.Equal(t, "original", dst)

	empty := ""
	setString(&dst, &empty)
	assert.Equal(t, "original", dst)

	next := "changed"
	setString(&dst, &next)
	assert.Equal(t, "changed", dst)
}

func TestSetIntZeroIsAValue(t *testing.T) {
	dst := 180

	setInt(&dst, nil)
	assert.Equal(t, 180, dst)

	zero := 0
	setInt(&dst, &zero)
	assert.Equal(t, 0, dst)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_hangers_name"`)))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(nil))
}
