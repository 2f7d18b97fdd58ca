package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

// NameMaxLength bounds student names and course titles, in characters.
const NameMaxLength = 200

// Rule is anything that can validate itself.
type Rule interface {
	Validate() bool
}

// StringValidation requires a non-blank string, optionally bounded in length.
type StringValidation struct {
	Value  string
	MaxLen int
}

func NewStringValidation(value string) *StringValidation {
	return &StringValidation{Value: value}
}

// WithMaxLength bounds the trimmed value to max characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// Validate fails for empty and whitespace-only values.
func (v *StringValidation) Validate() bool {
	value := strings.TrimSpace(v.Value)
	if value == "" {
		return false
	}
	return v.MaxLen <= 0 || utf8.RuneCountInString(value) <= v.MaxLen
}

// NumericValidation bounds an integer from below.
type NumericValidation struct {
	Value int
	Min   int
}

func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{Value: value}
}

// WithMin sets the inclusive lower bound
func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min = min
	return v
}

func (v *NumericValidation) Validate() bool {
	return v.Value >= v.Min
}

// Errors collects failing field names in the order they were checked.
type Errors struct {
	fields []string
}

// Check records field as invalid when rule fails.
func (e *Errors) Check(field string, rule Rule) *Errors {
	if !rule.Validate() {
		e.fields = append(e.fields, field)
	}
	return e
}

// Fields returns the invalid field names.
func (e *Errors) Fields() []string {
	return e.fields
}

// Err is nil when every check passed, otherwise an ErrValidationFailed
// naming the invalid fields.
func (e *Errors) Err() error {
	if len(e.fields) == 0 {
		return nil
	}
	return fmt.Errorf("%w: invalid or missing fields: %s", apperrors.ErrValidationFailed, strings.Join(e.fields, ", "))
}
