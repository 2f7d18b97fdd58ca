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

// CreateCourse inserts a course and sets its id
func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := repositories.ValidateCourse(course); err != nil {
		return err
	}

	id, err := s.insertReturningID(ctx, s.db.Pool, "courses", course.ID,
		[]string{"code", "title", "credits", "instructor"},
		[]any{course.Code, course.Title, course.Credits, course.Instructor})
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintCourseCode) {
			return fmt.Errorf("%w: %s", apperrors.ErrCourseCodeAlreadyExists, course.Code)
		}
		if dberrors.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: course id %d", apperrors.ErrDuplicateKey, course.ID)
		}
		logger.Error().Err(err).Str("code", course.Code).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	course.ID = id
	return nil
}

// UpdateCourse replaces the course row with the same id
func (s *Store) UpdateCourse(ctx context.Context, course *models.Course) error {
	if err := repositories.ValidateCourse(course); err != nil {
		return err
	}

	sql, args, err := s.sb.Update("courses").
		SetMap(map[string]interface{}{
			"code":       course.Code,
			"title":      course.Title,
			"credits":    course.Credits,
			"instructor": course.Instructor,
		}).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := s.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintCourseCode) {
			return fmt.Errorf("%w: %s", apperrors.ErrCourseCodeAlreadyExists, course.Code)
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// DeleteCourse deletes a course, honouring the delete policy
func (s *Store) DeleteCourse(ctx context.Context, id int64, policy models.DeletePolicy) error {
	if policy != models.DeletePolicyRestrict {
		return s.deleteByID(ctx, s.db.Pool, "courses", id, apperrors.ErrCourseNotFound)
	}

	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		course, err := queryOne(ctx, tx,
			s.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"),
			scanCourse, apperrors.ErrCourseNotFound)
		if err != nil {
			return err
		}

		referenced, err := s.exists(ctx, tx, "registrations", squirrel.Eq{"course_id": id})
		if err != nil {
			return err
		}
		if !referenced {
			referenced, err = s.exists(ctx, tx, "results", squirrel.Eq{"course_code": course.Code})
			if err != nil {
				return err
			}
		}
		if referenced {
			return fmt.Errorf("%w: course %s has registrations or results", apperrors.ErrHasDependents, course.Code)
		}

		return s.deleteByID(ctx, tx, "courses", id, apperrors.ErrCourseNotFound)
	})
}

// GetCourseByID retrieves a course by id
func (s *Store) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	return queryOne(ctx, s.db.Pool,
		s.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id}),
		scanCourse, apperrors.ErrCourseNotFound)
}

// GetCourseByCode retrieves a course by code
func (s *Store) GetCourseByCode(ctx context.Context, code string) (*models.Course, error) {
	return queryOne(ctx, s.db.Pool,
		s.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"code": code}),
		scanCourse, apperrors.ErrCourseNotFound)
}

// ListCourses retrieves all courses in insertion order
func (s *Store) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return queryAll(ctx, s.db.Pool,
		s.sb.Select(courseColumns...).From("courses").OrderBy("id ASC"),
		scanCourse)
}
