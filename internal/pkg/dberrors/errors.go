package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE unique_violation
const codeUniqueViolation = "23505"

func uniqueViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateConstraintError reports a unique violation of the named constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	pgErr, ok := uniqueViolation(err)
	return ok && pgErr.ConstraintName == constraintName
}

// IsDuplicateKeyError reports a unique violation of any constraint, usually
// the primary key when a caller supplied its own id.
func IsDuplicateKeyError(err error) bool {
	_, ok := uniqueViolation(err)
	return ok
}
