package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/unirecords/internal/app/auth"
	"github.com/yigit/unirecords/internal/app/metrics"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/projection"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

// ProjectionService exposes the read-side views of a student's records.
// Every call reads a fresh snapshot and is scoped by the caller's session.
type ProjectionService interface {
	EnrolledCourses(ctx context.Context, session models.Session, studentID int64) ([]models.EnrolledCourse, error)
	TotalCredits(ctx context.Context, session models.Session, studentID int64) (int, error)
	CompletedCount(ctx context.Context, session models.Session, studentNumber string) (int, error)
	AvailableCourses(ctx context.Context, session models.Session, studentID int64) ([]models.Course, error)
	ResultsFor(ctx context.Context, session models.Session, studentNumber string) ([]models.ResultView, error)
	AllResults(ctx context.Context, session models.Session) ([]models.ResultView, error)
	Dashboard(ctx context.Context, session models.Session, studentNumber string) (*models.Dashboard, error)
}

// projectionServiceImpl implements ProjectionService
type projectionServiceImpl struct {
	store        repositories.Store
	authzService *auth.AuthorizationService
	metrics      *metrics.Metrics
}

// NewProjectionService creates a new ProjectionService
func NewProjectionService(
	store repositories.Store,
	authzService *auth.AuthorizationService,
	m *metrics.Metrics,
) ProjectionService {
	return &projectionServiceImpl{
		store:        store,
		authzService: authzService,
		metrics:      m,
	}
}

func (s *projectionServiceImpl) view(ctx context.Context) (*projection.View, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading snapshot: %w", err)
	}
	return projection.NewView(snap), nil
}

// studentByID finds the student in view and checks the session may see it.
// Student sessions get permission denied for ids that do not exist.
func (s *projectionServiceImpl) studentByID(view *projection.View, session models.Session, studentID int64) (models.Student, error) {
	student, ok := view.StudentByID(studentID)
	if !ok {
		if !session.IsAdmin() {
			return models.Student{}, apperrors.NewForbiddenError("session may not access this student's records")
		}
		return models.Student{}, fmt.Errorf("%w: id %d", apperrors.ErrStudentNotFound, studentID)
	}
	if err := s.authzService.ValidateStudentNumberAccess(session, student.StudentNumber); err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// EnrolledCourses returns the student's courses with their registration dates
func (s *projectionServiceImpl) EnrolledCourses(ctx context.Context, session models.Session, studentID int64) ([]models.EnrolledCourse, error) {
	defer s.metrics.ObserveProjection("enrolled_courses", time.Now())

	view, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.studentByID(view, session, studentID); err != nil {
		return nil, err
	}
	return view.EnrolledCourses(studentID), nil
}

// TotalCredits sums the credits of the student's enrolled courses
func (s *projectionServiceImpl) TotalCredits(ctx context.Context, session models.Session, studentID int64) (int, error) {
	defer s.metrics.ObserveProjection("total_credits", time.Now())

	view, err := s.view(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := s.studentByID(view, session, studentID); err != nil {
		return 0, err
	}
	return view.TotalCredits(studentID), nil
}

// CompletedCount counts the results recorded for a student number. Results
// are counted even when the student itself no longer exists.
func (s *projectionServiceImpl) CompletedCount(ctx context.Context, session models.Session, studentNumber string) (int, error) {
	defer s.metrics.ObserveProjection("completed_count", time.Now())

	if err := s.authzService.ValidateStudentNumberAccess(session, studentNumber); err != nil {
		return 0, err
	}
	count, err := s.store.CountResultsByStudentNumber(ctx, studentNumber)
	if err != nil {
		return 0, fmt.Errorf("error counting results: %w", err)
	}
	return count, nil
}

// AvailableCourses returns the courses the student may still register for
func (s *projectionServiceImpl) AvailableCourses(ctx context.Context, session models.Session, studentID int64) ([]models.Course, error) {
	defer s.metrics.ObserveProjection("available_courses", time.Now())

	view, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.studentByID(view, session, studentID); err != nil {
		return nil, err
	}
	return view.AvailableCourses(studentID), nil
}

// ResultsFor returns the results of a student number with grade tiers and
// resolved credits
func (s *projectionServiceImpl) ResultsFor(ctx context.Context, session models.Session, studentNumber string) ([]models.ResultView, error) {
	defer s.metrics.ObserveProjection("results_for", time.Now())

	if err := s.authzService.ValidateStudentNumberAccess(session, studentNumber); err != nil {
		return nil, err
	}
	view, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	return view.ResultsFor(studentNumber), nil
}

// AllResults resolves every result; admin only
func (s *projectionServiceImpl) AllResults(ctx context.Context, session models.Session) ([]models.ResultView, error) {
	defer s.metrics.ObserveProjection("all_results", time.Now())

	if err := s.authzService.ValidateAdmin(session); err != nil {
		return nil, err
	}
	view, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	return view.AllResults(), nil
}

// Dashboard computes the full overview of a student from a single snapshot
func (s *projectionServiceImpl) Dashboard(ctx context.Context, session models.Session, studentNumber string) (*models.Dashboard, error) {
	defer s.metrics.ObserveProjection("dashboard", time.Now())

	if err := s.authzService.ValidateStudentNumberAccess(session, studentNumber); err != nil {
		return nil, err
	}
	view, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	student, ok := view.StudentByNumber(studentNumber)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, studentNumber)
	}
	dashboard := view.Dashboard(student)
	return &dashboard, nil
}
