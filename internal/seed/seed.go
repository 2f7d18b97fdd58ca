package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/unirecords/internal/app/models"
	appServices "github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

// Services are the write paths the demo data goes through
type Services struct {
	Catalog    appServices.CatalogService
	Roster     appServices.RosterService
	Enrollment appServices.EnrollmentService
	Results    appServices.ResultsService
}

var defaultCourses = []appModels.CourseFields{
	{Code: "CS101", Title: "Introduction to Programming", Credits: 3, Instructor: "Dr. Smith"},
	{Code: "CS201", Title: "Data Structures", Credits: 4, Instructor: "Dr. Johnson"},
	{Code: "MA101", Title: "Calculus I", Credits: 4, Instructor: "Dr. Noether"},
}

var defaultStudents = []appModels.StudentFields{
	{Name: "Jane Doe", Email: "jane.doe@school.edu", StudentNumber: "STU001"},
	{Name: "John Roe", Email: "john.roe@school.edu", StudentNumber: "STU002"},
}

// CreateDefaultData creates demo courses, students, a registration and a
// result. Records that already exist are left alone, so running it twice is
// harmless.
func CreateDefaultData(ctx context.Context, svc Services, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Courses/Students)...")
	var finalErr error

	courseIDs := map[string]int64{}
	for _, fields := range defaultCourses {
		course, err := svc.Catalog.AddCourse(ctx, fields)
		if err != nil && !errors.Is(err, apperrors.ErrDuplicateKey) {
			lgr.Error().Err(err).Str("code", fields.Code).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if course != nil {
			courseIDs[fields.Code] = course.ID
		}
	}

	studentIDs := map[string]int64{}
	for _, fields := range defaultStudents {
		student, err := svc.Roster.AddStudent(ctx, fields)
		if errors.Is(err, apperrors.ErrDuplicateKey) {
			student, err = svc.Roster.GetStudentByNumber(ctx, fields.StudentNumber)
		}
		if err != nil {
			lgr.Error().Err(err).Str("studentNumber", fields.StudentNumber).Msg("Error creating default student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		studentIDs[fields.StudentNumber] = student.ID
	}

	// Only freshly created courses get a demo registration and result
	if courseID, ok := courseIDs["CS101"]; ok {
		if studentID, ok := studentIDs["STU001"]; ok {
			date := appModels.NewDate(time.Now().UTC())
			_, err := svc.Enrollment.Register(ctx, appModels.AdminSession(), studentID, courseID, date)
			if err != nil && !errors.Is(err, apperrors.ErrDuplicateRegistration) {
				lgr.Error().Err(err).Msg("Error creating default registration")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}
	if _, ok := courseIDs["MA101"]; ok {
		if _, err := svc.Results.RecordResult(ctx, "STU001", "MA101", "A-"); err != nil {
			lgr.Error().Err(err).Msg("Error creating default result")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check/creation completed.")
	}
	return finalErr
}
