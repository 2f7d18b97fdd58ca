package repositories

import (
	"fmt"
	"strings"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/validation"
)

// ValidateStudent trims student in place and checks its write invariants.
// Every store driver calls it before touching its collections, so natural
// keys are indexed trimmed whatever the caller passed.
func ValidateStudent(student *models.Student) error {
	if student == nil {
		return fmt.Errorf("%w: student is nil", apperrors.ErrValidationFailed)
	}
	student.Normalize()
	errs := &validation.Errors{}
	errs.Check("name", validation.NewStringValidation(student.Name).WithMaxLength(validation.NameMaxLength)).
		Check("email", validation.NewStringValidation(student.Email)).
		Check("studentNumber", validation.NewStringValidation(student.StudentNumber))
	return errs.Err()
}

// ValidateCourse trims course in place and checks its write invariants.
func ValidateCourse(course *models.Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", apperrors.ErrValidationFailed)
	}
	course.Normalize()
	errs := &validation.Errors{}
	errs.Check("code", validation.NewStringValidation(course.Code)).
		Check("title", validation.NewStringValidation(course.Title).WithMaxLength(validation.NameMaxLength)).
		Check("credits", validation.NewNumericValidation(course.Credits).WithMin(1)).
		Check("instructor", validation.NewStringValidation(course.Instructor))
	return errs.Err()
}

// ValidateRegistration checks the write invariants of a registration that do
// not need other collections.
func ValidateRegistration(registration *models.Registration) error {
	if registration == nil {
		return fmt.Errorf("%w: registration is nil", apperrors.ErrValidationFailed)
	}
	var fields []string
	if registration.StudentID <= 0 {
		fields = append(fields, "studentId")
	}
	if registration.CourseID <= 0 {
		fields = append(fields, "courseId")
	}
	if registration.RegistrationDate.IsZero() {
		fields = append(fields, "registrationDate")
	}
	if len(fields) > 0 {
		return fmt.Errorf("%w: invalid or missing fields: %s", apperrors.ErrValidationFailed, strings.Join(fields, ", "))
	}
	return nil
}

// ValidateResult trims result in place and checks that every caller-supplied
// field is present.
func ValidateResult(result *models.Result) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", apperrors.ErrValidationFailed)
	}
	result.Normalize()
	errs := &validation.Errors{}
	errs.Check("studentNumber", validation.NewStringValidation(result.StudentNumber)).
		Check("courseCode", validation.NewStringValidation(result.CourseCode)).
		Check("grade", validation.NewStringValidation(result.Grade))
	return errs.Err()
}
