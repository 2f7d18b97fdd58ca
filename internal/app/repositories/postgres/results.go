package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/dberrors"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// resolveResult share-locks the student and course a result points at and
// fills in the course name from the course title.
func (s *Store) resolveResult(ctx context.Context, tx pgx.Tx, result *models.Result) error {
	if _, err := s.lockStudentForShare(ctx, tx, squirrel.Eq{"student_number": result.StudentNumber}, apperrors.ErrUnknownStudent); err != nil {
		if errors.Is(err, apperrors.ErrUnknownStudent) {
			return fmt.Errorf("%w: %s", err, result.StudentNumber)
		}
		return err
	}
	course, err := s.lockCourseForShare(ctx, tx, squirrel.Eq{"code": result.CourseCode}, apperrors.ErrUnknownCourse)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownCourse) {
			return fmt.Errorf("%w: %s", err, result.CourseCode)
		}
		return err
	}
	result.CourseName = course.Title
	return nil
}

// CreateResult inserts a result
func (s *Store) CreateResult(ctx context.Context, result *models.Result) error {
	if err := repositories.ValidateResult(result); err != nil {
		return err
	}

	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.resolveResult(ctx, tx, result); err != nil {
			return err
		}

		id, err := s.insertReturningID(ctx, tx, "results", result.ID,
			[]string{"student_number", "course_code", "grade", "course_name"},
			[]any{result.StudentNumber, result.CourseCode, result.Grade, result.CourseName})
		if err != nil {
			if dberrors.IsDuplicateKeyError(err) {
				return fmt.Errorf("%w: result id %d", apperrors.ErrDuplicateKey, result.ID)
			}
			logger.Error().Err(err).
				Str("studentNumber", result.StudentNumber).
				Str("courseCode", result.CourseCode).
				Msg("Error executing create result query")
			return fmt.Errorf("error creating result: %w", err)
		}

		result.ID = id
		return nil
	})
}

// UpdateResult replaces the result with the same id, re-resolving its keys
func (s *Store) UpdateResult(ctx context.Context, result *models.Result) error {
	if err := repositories.ValidateResult(result); err != nil {
		return err
	}

	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := queryOne(ctx, tx,
			s.sb.Select(resultColumns...).From("results").Where(squirrel.Eq{"id": result.ID}).Suffix("FOR UPDATE"),
			scanResult, apperrors.ErrResultNotFound); err != nil {
			return err
		}
		if err := s.resolveResult(ctx, tx, result); err != nil {
			return err
		}

		sql, args, err := s.sb.Update("results").
			SetMap(map[string]interface{}{
				"student_number": result.StudentNumber,
				"course_code":    result.CourseCode,
				"grade":          result.Grade,
				"course_name":    result.CourseName,
			}).
			Where(squirrel.Eq{"id": result.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update result query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("resultID", result.ID).Msg("Error executing update result query")
			return fmt.Errorf("error updating result: %w", err)
		}
		return nil
	})
}

// DeleteResult removes a result by id
func (s *Store) DeleteResult(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, s.db.Pool, "results", id, apperrors.ErrResultNotFound)
}

// GetResultByID retrieves a result by id
func (s *Store) GetResultByID(ctx context.Context, id int64) (*models.Result, error) {
	return queryOne(ctx, s.db.Pool,
		s.sb.Select(resultColumns...).From("results").Where(squirrel.Eq{"id": id}),
		scanResult, apperrors.ErrResultNotFound)
}

// ListResults retrieves all results in insertion order
func (s *Store) ListResults(ctx context.Context) ([]*models.Result, error) {
	return queryAll(ctx, s.db.Pool,
		s.sb.Select(resultColumns...).From("results").OrderBy("id ASC"),
		scanResult)
}

// CountResultsByStudentNumber counts results recorded for a student number
func (s *Store) CountResultsByStudentNumber(ctx context.Context, studentNumber string) (int, error) {
	sql, args, err := s.sb.Select("COUNT(*)").
		From("results").
		Where(squirrel.Eq{"student_number": studentNumber}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count results query: %w", err)
	}

	var count int
	if err := s.db.Pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting results: %w", err)
	}
	return count, nil
}
