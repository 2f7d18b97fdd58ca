package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yigit/unirecords/internal/app/auth"
	"github.com/yigit/unirecords/internal/app/metrics"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories/memory"
)

// records wires every service over one in-memory store.
type records struct {
	store      *memory.Store
	metrics    *metrics.Metrics
	catalog    CatalogService
	roster     RosterService
	enrollment EnrollmentService
	results    ResultsService
	projection ProjectionService
}

func newRecords(t *testing.T, policy models.DeletePolicy) *records {
	t.Helper()
	store := memory.New()
	m := metrics.New()
	authz := auth.NewAuthorizationService(store)
	return &records{
		store:      store,
		metrics:    m,
		catalog:    NewCatalogService(store, policy),
		roster:     NewRosterService(store, policy),
		enrollment: NewEnrollmentService(store, authz, m),
		results:    NewResultsService(store, m),
		projection: NewProjectionService(store, authz, m),
	}
}

func (r *records) addCourse(t *testing.T, code, title string, credits int) *models.Course {
	t.Helper()
	c, err := r.catalog.AddCourse(context.Background(), models.CourseFields{
		Code: code, Title: title, Credits: credits, Instructor: "Dr. Smith",
	})
	require.NoError(t, err)
	return c
}

func (r *records) addStudent(t *testing.T, name, number string) *models.Student {
	t.Helper()
	s, err := r.roster.AddStudent(context.Background(), models.StudentFields{
		Name: name, Email: number + "@x.edu", StudentNumber: number,
	})
	require.NoError(t, err)
	return s
}

func studentSession(number string) models.Session {
	return models.Session{Subject: "user-" + number, Role: models.RoleStudent, StudentNumber: number}
}

func courseCodes(enrolled []models.EnrolledCourse) []string {
	codes := make([]string, 0, len(enrolled))
	for _, e := range enrolled {
		codes = append(codes, e.Course.Code)
	}
	return codes
}
