package repositories

//go:generate mockgen -destination=mocks/mock_repositories.go -package=mocks . StudentRepository,CourseRepository,RegistrationRepository,ResultRepository

import (
	"context"

	"github.com/yigit/unirecords/internal/app/models"
)

// StudentRepository stores students keyed by id with a unique student number.
// Under models.DeletePolicyRestrict, DeleteStudent fails with
// apperrors.ErrHasDependents while registrations or results reference the student.
type StudentRepository interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	UpdateStudent(ctx context.Context, student *models.Student) error
	DeleteStudent(ctx context.Context, id int64, policy models.DeletePolicy) error
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetStudentByNumber(ctx context.Context, studentNumber string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
}

// CourseRepository stores courses keyed by id with a unique code.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id int64, policy models.DeletePolicy) error
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetCourseByCode(ctx context.Context, code string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
}

// RegistrationRepository stores registrations. CreateRegistration must check
// that both ends exist and that the pair is not already registered in the
// same atomic step as the insert.
type RegistrationRepository interface {
	CreateRegistration(ctx context.Context, registration *models.Registration) error
	DeleteRegistration(ctx context.Context, id int64) error
	DeleteRegistrationByPair(ctx context.Context, key models.RegistrationKey) error
	GetRegistrationByID(ctx context.Context, id int64) (*models.Registration, error)
	ListRegistrations(ctx context.Context) ([]*models.Registration, error)
	ListRegistrationsByStudent(ctx context.Context, studentID int64) ([]*models.Registration, error)
}

// ResultRepository stores grade results. CreateResult and UpdateResult resolve
// the student number and course code and fill in CourseName atomically with
// the write.
type ResultRepository interface {
	CreateResult(ctx context.Context, result *models.Result) error
	UpdateResult(ctx context.Context, result *models.Result) error
	DeleteResult(ctx context.Context, id int64) error
	GetResultByID(ctx context.Context, id int64) (*models.Result, error)
	ListResults(ctx context.Context) ([]*models.Result, error)
	CountResultsByStudentNumber(ctx context.Context, studentNumber string) (int, error)
}

// Store is the entity store: every collection plus the cross-collection
// queries the services need.
type Store interface {
	StudentRepository
	CourseRepository
	RegistrationRepository
	ResultRepository

	// Snapshot returns a consistent copy of every collection.
	Snapshot(ctx context.Context) (*models.Snapshot, error)
	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
	Close()
}
