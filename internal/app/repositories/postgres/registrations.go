package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/dberrors"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// CreateRegistration inserts a registration. Both ends are share-locked for
// the duration of the insert and the pair is guarded by a unique constraint.
func (s *Store) CreateRegistration(ctx context.Context, registration *models.Registration) error {
	if err := repositories.ValidateRegistration(registration); err != nil {
		return err
	}

	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := s.lockStudentForShare(ctx, tx, squirrel.Eq{"id": registration.StudentID}, apperrors.ErrStudentNotFound); err != nil {
			return fmt.Errorf("%w: id %d", err, registration.StudentID)
		}
		if _, err := s.lockCourseForShare(ctx, tx, squirrel.Eq{"id": registration.CourseID}, apperrors.ErrCourseNotFound); err != nil {
			return fmt.Errorf("%w: id %d", err, registration.CourseID)
		}

		id, err := s.insertReturningID(ctx, tx, "registrations", registration.ID,
			[]string{"student_id", "course_id", "registration_date"},
			[]any{registration.StudentID, registration.CourseID, registration.RegistrationDate.Time})
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, constraintRegistrationKey) {
				return apperrors.ErrDuplicateRegistration
			}
			if dberrors.IsDuplicateKeyError(err) {
				return fmt.Errorf("%w: registration id %d", apperrors.ErrDuplicateKey, registration.ID)
			}
			logger.Error().Err(err).
				Int64("studentID", registration.StudentID).
				Int64("courseID", registration.CourseID).
				Msg("Error executing create registration query")
			return fmt.Errorf("error creating registration: %w", err)
		}

		registration.ID = id
		return nil
	})
}

// DeleteRegistration removes a registration by id
func (s *Store) DeleteRegistration(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, s.db.Pool, "registrations", id, apperrors.ErrRegistrationNotFound)
}

// DeleteRegistrationByPair removes the registration for a student/course pair
func (s *Store) DeleteRegistrationByPair(ctx context.Context, key models.RegistrationKey) error {
	sql, args, err := s.sb.Delete("registrations").
		Where(squirrel.Eq{"student_id": key.StudentID, "course_id": key.CourseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete registration query: %w", err)
	}

	cmdTag, err := s.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).
			Int64("studentID", key.StudentID).
			Int64("courseID", key.CourseID).
			Msg("Error executing delete registration query")
		return fmt.Errorf("error deleting registration: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

// GetRegistrationByID retrieves a registration by id
func (s *Store) GetRegistrationByID(ctx context.Context, id int64) (*models.Registration, error) {
	return queryOne(ctx, s.db.Pool,
		s.sb.Select(registrationColumns...).From("registrations").Where(squirrel.Eq{"id": id}),
		scanRegistration, apperrors.ErrRegistrationNotFound)
}

// ListRegistrations retrieves all registrations in insertion order
func (s *Store) ListRegistrations(ctx context.Context) ([]*models.Registration, error) {
	return queryAll(ctx, s.db.Pool,
		s.sb.Select(registrationColumns...).From("registrations").OrderBy("id ASC"),
		scanRegistration)
}

// ListRegistrationsByStudent retrieves a student's registrations in insertion order
func (s *Store) ListRegistrationsByStudent(ctx context.Context, studentID int64) ([]*models.Registration, error) {
	return queryAll(ctx, s.db.Pool,
		s.sb.Select(registrationColumns...).From("registrations").
			Where(squirrel.Eq{"student_id": studentID}).
			OrderBy("id ASC"),
		scanRegistration)
}
