package services

import (
	"context"
	"fmt"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// RosterService defines the interface for student roster operations
type RosterService interface {
	AddStudent(ctx context.Context, fields models.StudentFields) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, fields models.StudentFields) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetStudentByNumber(ctx context.Context, studentNumber string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
}

// rosterServiceImpl implements RosterService
type rosterServiceImpl struct {
	studentRepo  repositories.StudentRepository
	deletePolicy models.DeletePolicy
}

// NewRosterService creates a new RosterService
func NewRosterService(studentRepo repositories.StudentRepository, deletePolicy models.DeletePolicy) RosterService {
	return &rosterServiceImpl{
		studentRepo:  studentRepo,
		deletePolicy: deletePolicy,
	}
}

// AddStudent stores a new student; the student number must be unused
func (s *rosterServiceImpl) AddStudent(ctx context.Context, fields models.StudentFields) (*models.Student, error) {
	student := &models.Student{}
	fields.Apply(student)

	if err := s.studentRepo.CreateStudent(ctx, student); err != nil {
		logger.Warn().Err(err).Str("studentNumber", fields.StudentNumber).Msg("Student rejected")
		return nil, err
	}

	logger.Info().Int64("studentID", student.ID).Str("studentNumber", student.StudentNumber).Msg("Student added")
	return student, nil
}

// UpdateStudent replaces the fields of an existing student
func (s *rosterServiceImpl) UpdateStudent(ctx context.Context, id int64, fields models.StudentFields) (*models.Student, error) {
	student := &models.Student{ID: id}
	fields.Apply(student)

	if err := s.studentRepo.UpdateStudent(ctx, student); err != nil {
		logger.Warn().Err(err).Int64("studentID", id).Msg("Student update rejected")
		return nil, err
	}

	logger.Info().Int64("studentID", id).Str("studentNumber", student.StudentNumber).Msg("Student updated")
	return student, nil
}

// DeleteStudent removes a student according to the configured delete policy
func (s *rosterServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.studentRepo.DeleteStudent(ctx, id, s.deletePolicy); err != nil {
		logger.Warn().Err(err).Int64("studentID", id).Str("policy", string(s.deletePolicy)).Msg("Student delete rejected")
		return err
	}

	logger.Info().Int64("studentID", id).Str("policy", string(s.deletePolicy)).Msg("Student deleted")
	return nil
}

// GetStudent retrieves a student by id
func (s *rosterServiceImpl) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetStudentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student %d: %w", id, err)
	}
	return student, nil
}

// GetStudentByNumber retrieves a student by student number
func (s *rosterServiceImpl) GetStudentByNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	student, err := s.studentRepo.GetStudentByNumber(ctx, studentNumber)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student %s: %w", studentNumber, err)
	}
	return student, nil
}

// ListStudents returns all students in insertion order
func (s *rosterServiceImpl) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.ListStudents(ctx)
}
