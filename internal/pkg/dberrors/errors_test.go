package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolations(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_registrations_student_course"})
	other := &pgconn.PgError{Code: "23503", ConstraintName: "uq_registrations_student_course"}

	assert.True(t, IsDuplicateKeyError(dup))
	assert.True(t, IsDuplicateConstraintError(dup, "uq_registrations_student_course"))
	assert.False(t, IsDuplicateConstraintError(dup, "students_pkey"))

	assert.False(t, IsDuplicateKeyError(other))
	assert.False(t, IsDuplicateKeyError(errors.New("connection reset")))
	assert.False(t, IsDuplicateKeyError(nil))
}
