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

// CreateStudent inserts a student and sets its id
func (s *Store) CreateStudent(ctx context.Context, student *models.Student) error {
	if err := repositories.ValidateStudent(student); err != nil {
		return err
	}

	id, err := s.insertReturningID(ctx, s.db.Pool, "students", student.ID,
		[]string{"name", "email", "student_number"},
		[]any{student.Name, student.Email, student.StudentNumber})
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintStudentNumber) {
			return fmt.Errorf("%w: %s", apperrors.ErrStudentNumberAlreadyExists, student.StudentNumber)
		}
		if dberrors.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: student id %d", apperrors.ErrDuplicateKey, student.ID)
		}
		logger.Error().Err(err).Str("studentNumber", student.StudentNumber).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	student.ID = id
	return nil
}

// UpdateStudent replaces the student row with the same id
func (s *Store) UpdateStudent(ctx context.Context, student *models.Student) error {
	if err := repositories.ValidateStudent(student); err != nil {
		return err
	}

	sql, args, err := s.sb.Update("students").
		SetMap(map[string]interface{}{
			"name":           student.Name,
			"email":          student.Email,
			"student_number": student.StudentNumber,
		}).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := s.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintStudentNumber) {
			return fmt.Errorf("%w: %s", apperrors.ErrStudentNumberAlreadyExists, student.StudentNumber)
		}
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// DeleteStudent deletes a student. Under the restrict policy the row is locked
// first so no registration or result can be written for it while the
// dependents are counted.
func (s *Store) DeleteStudent(ctx context.Context, id int64, policy models.DeletePolicy) error {
	if policy != models.DeletePolicyRestrict {
		return s.deleteByID(ctx, s.db.Pool, "students", id, apperrors.ErrStudentNotFound)
	}

	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		student, err := queryOne(ctx, tx,
			s.sb.Select(studentColumns...).From("students").Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"),
			scanStudent, apperrors.ErrStudentNotFound)
		if err != nil {
			return err
		}

		referenced, err := s.exists(ctx, tx, "registrations", squirrel.Eq{"student_id": id})
		if err != nil {
			return err
		}
		if !referenced {
			referenced, err = s.exists(ctx, tx, "results", squirrel.Eq{"student_number": student.StudentNumber})
			if err != nil {
				return err
			}
		}
		if referenced {
			return fmt.Errorf("%w: student %s has registrations or results", apperrors.ErrHasDependents, student.StudentNumber)
		}

		return s.deleteByID(ctx, tx, "students", id, apperrors.ErrStudentNotFound)
	})
}

// GetStudentByID retrieves a student by id
func (s *Store) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	return queryOne(ctx, s.db.Pool,
		s.sb.Select(studentColumns...).From("students").Where(squirrel.Eq{"id": id}),
		scanStudent, apperrors.ErrStudentNotFound)
}

// GetStudentByNumber retrieves a student by student number
func (s *Store) GetStudentByNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	return queryOne(ctx, s.db.Pool,
		s.sb.Select(studentColumns...).From("students").Where(squirrel.Eq{"student_number": studentNumber}),
		scanStudent, apperrors.ErrStudentNotFound)
}

// ListStudents retrieves all students in insertion order
func (s *Store) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return queryAll(ctx, s.db.Pool,
		s.sb.Select(studentColumns...).From("students").OrderBy("id ASC"),
		scanStudent)
}
