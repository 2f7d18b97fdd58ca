package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicateKey  = errors.New("resource with this key already exists")
	ErrConflict      = errors.New("conflict")
	ErrHasDependents = errors.New("resource is still referenced and cannot be deleted")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// Student Errors
var (
	ErrStudentNotFound            = NewCustomError(ErrNotFound, "student not found")
	ErrStudentNumberAlreadyExists = NewCustomError(ErrDuplicateKey, "student number already exists")
	// ErrUnknownStudent is returned when a result references a student number
	// that does not resolve to a live student at write time.
	ErrUnknownStudent = NewCustomError(ErrNotFound, "unknown student number").WithCode("UNKNOWN_STUDENT")
)

// Course Errors
var (
	ErrCourseNotFound          = NewCustomError(ErrNotFound, "course not found")
	ErrCourseCodeAlreadyExists = NewCustomError(ErrDuplicateKey, "course code already exists")
	// ErrUnknownCourse is returned when a result references a course code
	// that does not resolve to a live course at write time.
	ErrUnknownCourse = NewCustomError(ErrNotFound, "unknown course code").WithCode("UNKNOWN_COURSE")
)

// Registration Errors
var (
	ErrRegistrationNotFound = NewCustomError(ErrNotFound, "registration not found")
	// ErrDuplicateRegistration is returned when a live registration already
	// exists for the same student and course.
	ErrDuplicateRegistration = NewCustomError(ErrConflict, "student is already registered for this course").WithCode("DUPLICATE_REGISTRATION")
)

// Result Errors
var (
	ErrResultNotFound = NewCustomError(ErrNotFound, "result not found")
)

// NewForbiddenError reports a session acting outside its scope
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	// Code is a machine-readable reason surfaced to API clients
	Code string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// CodeOf returns the Code of the first CustomError in err's chain that has one.
func CodeOf(err error) string {
	for err != nil {
		var ce *CustomError
		if !errors.As(err, &ce) {
			return ""
		}
		if ce.Code != "" {
			return ce.Code
		}
		err = ce.Err
	}
	return ""
}
