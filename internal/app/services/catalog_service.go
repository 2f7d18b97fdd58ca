package services

import (
	"context"
	"fmt"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// CatalogService defines the interface for course catalog operations
type CatalogService interface {
	AddCourse(ctx context.Context, fields models.CourseFields) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, fields models.CourseFields) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
}

// catalogServiceImpl implements CatalogService
type catalogServiceImpl struct {
	courseRepo   repositories.CourseRepository
	deletePolicy models.DeletePolicy
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(courseRepo repositories.CourseRepository, deletePolicy models.DeletePolicy) CatalogService {
	return &catalogServiceImpl{
		courseRepo:   courseRepo,
		deletePolicy: deletePolicy,
	}
}

// AddCourse stores a new course
func (s *catalogServiceImpl) AddCourse(ctx context.Context, fields models.CourseFields) (*models.Course, error) {
	course := &models.Course{}
	fields.Apply(course)

	if err := s.courseRepo.CreateCourse(ctx, course); err != nil {
		logger.Warn().Err(err).Str("code", fields.Code).Msg("Course rejected")
		return nil, err
	}

	logger.Info().Int64("courseID", course.ID).Str("code", course.Code).Msg("Course added")
	return course, nil
}

// UpdateCourse replaces the fields of an existing course
func (s *catalogServiceImpl) UpdateCourse(ctx context.Context, id int64, fields models.CourseFields) (*models.Course, error) {
	course := &models.Course{ID: id}
	fields.Apply(course)

	if err := s.courseRepo.UpdateCourse(ctx, course); err != nil {
		logger.Warn().Err(err).Int64("courseID", id).Msg("Course update rejected")
		return nil, err
	}

	logger.Info().Int64("courseID", id).Str("code", course.Code).Msg("Course updated")
	return course, nil
}

// DeleteCourse removes a course according to the configured delete policy
func (s *catalogServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.courseRepo.DeleteCourse(ctx, id, s.deletePolicy); err != nil {
		logger.Warn().Err(err).Int64("courseID", id).Str("policy", string(s.deletePolicy)).Msg("Course delete rejected")
		return err
	}

	logger.Info().Int64("courseID", id).Str("policy", string(s.deletePolicy)).Msg("Course deleted")
	return nil
}

// GetCourse retrieves a course by id
func (s *catalogServiceImpl) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course %d: %w", id, err)
	}
	return course, nil
}

// ListCourses returns the catalog in insertion order
func (s *catalogServiceImpl) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.ListCourses(ctx)
}
