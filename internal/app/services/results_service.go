package services

import (
	"context"
	"fmt"

	"github.com/yigit/unirecords/internal/app/metrics"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// ResultsService defines the interface for grade result operations
type ResultsService interface {
	RecordResult(ctx context.Context, studentNumber, courseCode, grade string) (*models.Result, error)
	UpdateResult(ctx context.Context, id int64, fields models.ResultFields) (*models.Result, error)
	DeleteResult(ctx context.Context, id int64) error
	GetResult(ctx context.Context, id int64) (*models.Result, error)
	ListResults(ctx context.Context) ([]*models.Result, error)
}

// resultsServiceImpl implements ResultsService
type resultsServiceImpl struct {
	resultRepo repositories.ResultRepository
	metrics    *metrics.Metrics
}

// NewResultsService creates a new ResultsService
func NewResultsService(resultRepo repositories.ResultRepository, m *metrics.Metrics) ResultsService {
	return &resultsServiceImpl{
		resultRepo: resultRepo,
		metrics:    m,
	}
}

// RecordResult stores a grade for a student and course given by natural key.
// The course name is copied from the course title at this moment.
func (s *resultsServiceImpl) RecordResult(ctx context.Context, studentNumber, courseCode, grade string) (*models.Result, error) {
	result := &models.Result{
		StudentNumber: studentNumber,
		CourseCode:    courseCode,
		Grade:         grade,
	}
	result.Normalize()

	if err := s.resultRepo.CreateResult(ctx, result); err != nil {
		logger.Warn().Err(err).
			Str("studentNumber", result.StudentNumber).
			Str("courseCode", result.CourseCode).
			Msg("Result rejected")
		return nil, err
	}

	s.metrics.IncrementResultsRecorded()
	logger.Info().
		Int64("resultID", result.ID).
		Str("studentNumber", result.StudentNumber).
		Str("courseCode", result.CourseCode).
		Msg("Result recorded")
	return result, nil
}

// UpdateResult replaces a result, resolving its references again
func (s *resultsServiceImpl) UpdateResult(ctx context.Context, id int64, fields models.ResultFields) (*models.Result, error) {
	result := &models.Result{
		ID:            id,
		StudentNumber: fields.StudentNumber,
		CourseCode:    fields.CourseCode,
		Grade:         fields.Grade,
	}
	result.Normalize()

	if err := s.resultRepo.UpdateResult(ctx, result); err != nil {
		logger.Warn().Err(err).Int64("resultID", id).Msg("Result update rejected")
		return nil, err
	}

	logger.Info().Int64("resultID", id).Msg("Result updated")
	return result, nil
}

// DeleteResult removes a result by id
func (s *resultsServiceImpl) DeleteResult(ctx context.Context, id int64) error {
	if err := s.resultRepo.DeleteResult(ctx, id); err != nil {
		return err
	}
	logger.Info().Int64("resultID", id).Msg("Result deleted")
	return nil
}

// GetResult retrieves a result by id
func (s *resultsServiceImpl) GetResult(ctx context.Context, id int64) (*models.Result, error) {
	result, err := s.resultRepo.GetResultByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving result %d: %w", id, err)
	}
	return result, nil
}

// ListResults returns all results in insertion order
func (s *resultsServiceImpl) ListResults(ctx context.Context) ([]*models.Result, error) {
	return s.resultRepo.ListResults(ctx)
}
