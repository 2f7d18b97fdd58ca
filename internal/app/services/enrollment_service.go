package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/unirecords/internal/app/auth"
	"github.com/yigit/unirecords/internal/app/metrics"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/projection"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// EnrollmentService defines the interface for registration operations.
// Write calls take the caller's session: admins act for any student, a
// student session only for itself.
type EnrollmentService interface {
	Register(ctx context.Context, session models.Session, studentID, courseID int64, date models.Date) (*models.Registration, error)
	Drop(ctx context.Context, session models.Session, studentID, courseID int64) error
	DropByID(ctx context.Context, session models.Session, registrationID int64) error
	ListRegistrations(ctx context.Context) ([]*models.Registration, error)
	ListRegistrationsFor(ctx context.Context, studentID int64) ([]*models.Registration, error)
	AvailableCoursesFor(ctx context.Context, studentID int64) ([]models.Course, error)
}

// enrollmentServiceImpl implements EnrollmentService
type enrollmentServiceImpl struct {
	store        repositories.Store
	authzService *auth.AuthorizationService
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	store repositories.Store,
	authzService *auth.AuthorizationService,
	m *metrics.Metrics,
) EnrollmentService {
	return &enrollmentServiceImpl{
		store:        store,
		authzService: authzService,
		metrics:      m,
		now:          time.Now,
	}
}

// Register creates the registration of a student for a course. A zero date
// means today (UTC). Uniqueness of the pair is enforced by the store, so
// concurrent calls for the same pair yield exactly one registration.
func (s *enrollmentServiceImpl) Register(ctx context.Context, session models.Session, studentID, courseID int64, date models.Date) (*models.Registration, error) {
	if _, err := s.authzService.ValidateStudentAccess(ctx, session, studentID); err != nil {
		s.metrics.ObserveRegistration(outcomeOf(err))
		return nil, err
	}

	if date.IsZero() {
		date = models.NewDate(s.now().UTC())
	}
	registration := &models.Registration{
		StudentID:        studentID,
		CourseID:         courseID,
		RegistrationDate: date,
	}

	if err := s.store.CreateRegistration(ctx, registration); err != nil {
		s.metrics.ObserveRegistration(outcomeOf(err))
		logger.Warn().Err(err).
			Int64("studentID", studentID).
			Int64("courseID", courseID).
			Msg("Registration rejected")
		return nil, err
	}

	s.metrics.ObserveRegistration(metrics.OutcomeSuccess)
	logger.Info().
		Int64("registrationID", registration.ID).
		Int64("studentID", studentID).
		Int64("courseID", courseID).
		Str("registrationDate", registration.RegistrationDate.String()).
		Msg("Student registered for course")
	return registration, nil
}

// Drop removes the live registration of a student for a course
func (s *enrollmentServiceImpl) Drop(ctx context.Context, session models.Session, studentID, courseID int64) error {
	if _, err := s.authzService.ValidateStudentAccess(ctx, session, studentID); err != nil {
		s.metrics.ObserveDrop(outcomeOf(err))
		return err
	}

	key := models.RegistrationKey{StudentID: studentID, CourseID: courseID}
	if err := s.store.DeleteRegistrationByPair(ctx, key); err != nil {
		s.metrics.ObserveDrop(outcomeOf(err))
		logger.Warn().Err(err).Int64("studentID", studentID).Int64("courseID", courseID).Msg("Drop rejected")
		return err
	}

	s.metrics.ObserveDrop(metrics.OutcomeSuccess)
	logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Student dropped course")
	return nil
}

// DropByID removes a registration by its id. Admins may drop a registration
// whose student no longer exists; students only their own.
func (s *enrollmentServiceImpl) DropByID(ctx context.Context, session models.Session, registrationID int64) error {
	registration, err := s.store.GetRegistrationByID(ctx, registrationID)
	if err != nil {
		s.metrics.ObserveDrop(outcomeOf(err))
		return err
	}

	if !session.IsAdmin() {
		if _, err := s.authzService.ValidateStudentAccess(ctx, session, registration.StudentID); err != nil {
			s.metrics.ObserveDrop(outcomeOf(err))
			return err
		}
	}

	if err := s.store.DeleteRegistration(ctx, registrationID); err != nil {
		s.metrics.ObserveDrop(outcomeOf(err))
		return err
	}

	s.metrics.ObserveDrop(metrics.OutcomeSuccess)
	logger.Info().
		Int64("registrationID", registrationID).
		Int64("studentID", registration.StudentID).
		Int64("courseID", registration.CourseID).
		Msg("Registration deleted")
	return nil
}

// ListRegistrations returns every live registration in insertion order
func (s *enrollmentServiceImpl) ListRegistrations(ctx context.Context) ([]*models.Registration, error) {
	return s.store.ListRegistrations(ctx)
}

// ListRegistrationsFor returns the live registrations of one student. It is
// not session-scoped, so callers must be admin or internal code that has
// already checked access.
func (s *enrollmentServiceImpl) ListRegistrationsFor(ctx context.Context, studentID int64) ([]*models.Registration, error) {
	if _, err := s.store.GetStudentByID(ctx, studentID); err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	registrations, err := s.store.ListRegistrationsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	if registrations == nil {
		registrations = []*models.Registration{}
	}
	return registrations, nil
}

// AvailableCoursesFor returns the courses the student has not registered for,
// read from a fresh snapshot on every call. Like ListRegistrationsFor it skips
// session checks and is for admin and internal use only; student callers go
// through ProjectionService.AvailableCourses.
func (s *enrollmentServiceImpl) AvailableCoursesFor(ctx context.Context, studentID int64) ([]models.Course, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading snapshot: %w", err)
	}
	view := projection.NewView(snap)
	if _, ok := view.StudentByID(studentID); !ok {
		return nil, fmt.Errorf("%w: id %d", apperrors.ErrStudentNotFound, studentID)
	}
	return view.AvailableCourses(studentID), nil
}

// outcomeOf maps an enrollment error to its metrics label
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, apperrors.ErrDuplicateRegistration):
		return metrics.OutcomeDuplicate
	case errors.Is(err, apperrors.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return metrics.OutcomeDenied
	default:
		return metrics.OutcomeError
	}
}
