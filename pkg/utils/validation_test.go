package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "genealogy3d/pkg/errors"
)

type sample struct {
	FirstName string `validate:"required,max=5"`
	BirthDate string `validate:"omitempty,datetime=2006-01-02"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sample{FirstName: "Jean", BirthDate: "1945-03-12"}))

	err := ValidateStruct(sample{})
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "firstname is required")

	err = ValidateStruct(sample{FirstName: "Jean", BirthDate: "12/03/1945"})
	assert.Contains(t, err.Error(), "birthdate must be a date formatted as 2006-01-02")
}
