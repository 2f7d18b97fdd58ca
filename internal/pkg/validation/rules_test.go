package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

func TestStringValidation(t *testing.T) {
	assert.False(t, NewStringValidation("").Validate())
	assert.False(t, NewStringValidation("   ").Validate())
	assert.True(t, NewStringValidation("CS101").Validate())
	assert.False(t, NewStringValidation("abcd").WithMaxLength(3).Validate())
	assert.True(t, NewStringValidation("  abc  ").WithMaxLength(3).Validate())
	assert.True(t, NewStringValidation(strings.Repeat("ü", 3)).WithMaxLength(3).Validate())
}

func TestNumericValidation(t *testing.T) {
	assert.False(t, NewNumericValidation(0).WithMin(1).Validate())
	assert.True(t, NewNumericValidation(1).WithMin(1).Validate())
	assert.True(t, NewNumericValidation(-4).Validate())
}

func TestErrorsCollectsFieldsInOrder(t *testing.T) {
	errs := &Errors{}
	errs.Check("name", NewStringValidation("")).
		Check("credits", NewNumericValidation(0).WithMin(1)).
		Check("code", NewStringValidation("CS101"))

	assert.Equal(t, []string{"name", "credits"}, errs.Fields())
	err := errs.Err()
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "name, credits")

	assert.NoError(t, (&Errors{}).Err())
}
