package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=user volunteer"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	err := ValidateStruct(&signup{Email: "asha@example.com"})
	require.Error(t, err)

	var ve Errors
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve, 1)
	assert.Equal(t, "name", ve[0].Field)
	assert.Equal(t, "Missing required field: name", err.Error())
}

func TestValidateStructMessages(t *testing.T) {
	err := ValidateStruct(&signup{Name: "Asha", Email: "nope", Role: "admin"})
	require.Error(t, err)

	var ve Errors
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve, 2)
	assert.Equal(t, "Invalid email address", ve[0].Message())
	assert.Equal(t, "Invalid role: must be one of user, volunteer", ve[1].Message())
}

func TestValidateStructAcceptsValid(t *testing.T) {
	assert.NoError(t, ValidateStruct(&signup{Name: "Asha", Email: "asha@example.com"}))
	assert.NoError(t, ValidateStruct(nil))
	assert.Error(t, ValidateStruct("not a struct"))
}
