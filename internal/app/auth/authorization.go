package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// AuthorizationService decides which student records a session may touch
type AuthorizationService struct {
	studentRepo repositories.StudentRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(studentRepo repositories.StudentRepository) *AuthorizationService {
	return &AuthorizationService{
		studentRepo: studentRepo,
	}
}

// ValidateAdmin returns ErrPermissionDenied unless the session is an admin
func (s *AuthorizationService) ValidateAdmin(session models.Session) error {
	if !session.IsAdmin() {
		return apperrors.NewForbiddenError("admin role required")
	}
	return nil
}

// ValidateStudentNumberAccess checks that the session may read or act on the
// records of studentNumber
func (s *AuthorizationService) ValidateStudentNumberAccess(session models.Session, studentNumber string) error {
	if session.CanSeeStudent(studentNumber) {
		return nil
	}
	logger.Warn().
		Str("subject", session.Subject).
		Str("role", string(session.Role)).
		Str("studentNumber", studentNumber).
		Msg("Session denied access to student records")
	return apperrors.NewForbiddenError("session may not access this student's records")
}

// ValidateStudentAccess resolves a student id and checks the session may act on
// it. Unknown ids are reported as not found to admins only, so a student
// session cannot probe which ids exist.
func (s *AuthorizationService) ValidateStudentAccess(ctx context.Context, session models.Session, studentID int64) (*models.Student, error) {
	student, err := s.studentRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if !session.IsAdmin() {
				return nil, apperrors.NewForbiddenError("session may not access this student's records")
			}
			return nil, fmt.Errorf("%w: id %d", apperrors.ErrStudentNotFound, studentID)
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error getting student in ValidateStudentAccess")
		return nil, err
	}

	if err := s.ValidateStudentNumberAccess(session, student.StudentNumber); err != nil {
		return nil, err
	}
	return student, nil
}
