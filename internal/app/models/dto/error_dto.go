package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCode is the stable machine-readable code of a failed request
type ErrorCode string

const (
	ErrorCodeInvalidToken ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized ErrorCode = "AUTH_008"
	ErrorCodeForbidden    ErrorCode = "FORBIDDEN"

	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeConflict              ErrorCode = "RES_004"
	// ErrorCodeHasDependents rejects a restrict-policy delete of a referenced
	// student or course.
	ErrorCodeHasDependents ErrorCode = "RES_005"

	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// ErrorDetail is the error part of a failed APIResponse
type ErrorDetail struct {
	Code    ErrorCode `json:"code" example:"VAL_001"`
	Message string    `json:"message" example:"credits must be at least 1"`
	Field   string    `json:"field,omitempty" example:"credits"`
	// Details carries per-field messages or a {"reason": ...} map
	Details any `json:"details,omitempty"`
}

// FieldError is one offending field of a rejected request body
type FieldError struct {
	Field   string `json:"field" example:"grade"`
	Message string `json:"message" example:"grade is required"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{Code: code, Message: message}
}

// WithField names the single offending field
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithDetails attaches additional details
func (e *ErrorDetail) WithDetails(details any) *ErrorDetail {
	e.Details = details
	return e
}

// HandleValidationError turns a binding or validator error into a VAL_001
// detail listing every offending field. Malformed bodies that never reach the
// validator are reported as a whole.
func HandleValidationError(err error) *ErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
	}

	fieldErrors := make([]FieldError, 0, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		names = append(names, fe.Field())
	}

	detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed: "+strings.Join(names, ", "))
	if len(names) == 1 {
		detail.WithField(names[0])
	}
	return detail.WithDetails(fieldErrors)
}

func fieldMessage(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		return field + " must be at least " + param
	case "max", "lte":
		return field + " must be at most " + param
	case "gt":
		return field + " must be greater than " + param
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + param
	default:
		return field + " failed the " + fe.Tag() + " check"
	}
}
