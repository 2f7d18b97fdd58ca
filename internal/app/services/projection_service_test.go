package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

func TestProjectionScoping(t *testing.T) {
	ctx := context.Background()
	r := newRecords(t, models.DeletePolicyOrphan)
	r.addCourse(t, "CS101", "Intro", 3)
	jane := r.addStudent(t, "Jane", "STU001")
	john := r.addStudent(t, "John", "STU002")
	_, err := r.results.RecordResult(ctx, "STU002", "CS101", "B")
	require.NoError(t, err)

	janeSession := studentSession("STU001")

	_, err = r.projection.EnrolledCourses(ctx, janeSession, john.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = r.projection.TotalCredits(ctx, janeSession, john.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = r.projection.AvailableCourses(ctx, janeSession, john.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = r.projection.ResultsFor(ctx, janeSession, "STU002")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = r.projection.CompletedCount(ctx, janeSession, "STU002")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = r.projection.Dashboard(ctx, janeSession, "STU002")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = r.projection.AllResults(ctx, janeSession)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Unknown ids look the same as someone else's to a student.
	_, err = r.projection.EnrolledCourses(ctx, janeSession, john.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = r.projection.EnrolledCourses(ctx, models.AdminSession(), john.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	own, err := r.projection.EnrolledCourses(ctx, janeSession, jane.ID)
	require.NoError(t, err)
	assert.Empty(t, own)

	results, err := r.projection.ResultsFor(ctx, models.AdminSession(), "STU002")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSessionWithoutStudentNumberSeesNothing(t *testing.T) {
	ctx := context.Background()
	r := newRecords(t, models.DeletePolicyOrphan)
	jane := r.addStudent(t, "Jane", "STU001")

	anonymous := models.Session{Subject: "x", Role: models.RoleStudent}
	_, err := r.projection.EnrolledCourses(ctx, anonymous, jane.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = r.projection.ResultsFor(ctx, anonymous, "")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestNoRegistrations(t *testing.T) {
	ctx := context.Background()
	r := newRecords(t, models.DeletePolicyOrphan)
	r.addCourse(t, "CS101", "Intro", 3)
	r.addCourse(t, "CS201", "Data Structures", 4)
	jane := r.addStudent(t, "Jane", "STU001")
	session := studentSession("STU001")

	enrolled, err := r.projection.EnrolledCourses(ctx, session, jane.ID)
	require.NoError(t, err)
	assert.NotNil(t, enrolled)
	assert.Empty(t, enrolled)

	credits, err := r.projection.TotalCredits(ctx, session, jane.ID)
	require.NoError(t, err)
	assert.Zero(t, credits)

	available, err := r.projection.AvailableCourses(ctx, session, jane.ID)
	require.NoError(t, err)
	assert.Len(t, available, 2)
}

func TestCreditsAndAvailabilityAreConsistent(t *testing.T) {
	ctx := context.Background()
	r := newRecords(t, models.DeletePolicyOrphan)
	admin := models.AdminSession()
	courses := []*models.Course{
		r.addCourse(t, "CS101", "Intro", 3),
		r.addCourse(t, "CS201", "Data Structures", 4),
		r.addCourse(t, "MA101", "Calculus", 5),
		r.addCourse(t, "PH101", "Physics", 2),
	}
	jane := r.addStudent(t, "Jane", "STU001")

	check := func() {
		t.Helper()
		enrolled, err := r.projection.EnrolledCourses(ctx, admin, jane.ID)
		require.NoError(t, err)
		available, err := r.projection.AvailableCourses(ctx, admin, jane.ID)
		require.NoError(t, err)
		credits, err := r.projection.TotalCredits(ctx, admin, jane.ID)
		require.NoError(t, err)

		sum := 0
		enrolledIDs := map[int64]bool{}
		for _, e := range enrolled {
			sum += e.Course.Credits
			enrolledIDs[e.Course.ID] = true
		}
		assert.Equal(t, sum, credits)
		for _, c := range available {
			assert.False(t, enrolledIDs[c.ID], "course %s both enrolled and available", c.Code)
		}
	}

	check()
	for _, c := range courses[:3] {
		_, err := r.enrollment.Register(ctx, admin, jane.ID, c.ID, models.Date{})
		require.NoError(t, err)
		check()
	}
	require.NoError(t, r.enrollment.Drop(ctx, admin, jane.ID, courses[1].ID))
	check()
	require.NoError(t, r.catalog.DeleteCourse(ctx, courses[0].ID))
	check()
}

func TestRecordResult(t *testing.T) {
	ctx := context.Background()
	r := newRecords(t, models.DeletePolicyOrphan)
	r.addCourse(t, "CS101", "Intro", 3)
	r.addStudent(t, "Jane", "STU001")

	result, err := r.results.RecordResult(ctx, "STU001", "CS101", "A")
	require.NoError(t, err)
	assert.Equal(t, "Intro", result.CourseName)

	_, err = r.results.RecordResult(ctx, "STU404", "CS101", "A")
	assert.ErrorIs(t, err, apperrors.ErrUnknownStudent)
	_, err = r.results.RecordResult(ctx, "STU001", "CS404", "A")
	assert.ErrorIs(t, err, apperrors.ErrUnknownCourse)

	all, err := r.results.ListResults(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	completed, err := r.projection.CompletedCount(ctx, studentSession("STU001"), "STU001")
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
}

func TestCourseNameStaysStaleAfterRename(t *testing.T) {
	ctx := context.Background()
	r := newRecords(t, models.DeletePolicyOrphan)
	course := r.addCourse(t, "CS101", "Intro", 3)
	r.addStudent(t, "Jane", "STU001")

	_, err := r.results.RecordResult(ctx, "STU001", "CS101", "B+")
	require.NoError(t, err)

	_, err = r.catalog.UpdateCourse(ctx, course.ID, models.CourseFields{
		Code: "CS101", Title: "Introduction to Computing", Credits: 4, Instructor: "Dr. Jones",
	})
	require.NoError(t, err)

	views, err := r.projection.ResultsFor(ctx, studentSession("STU001"), "STU001")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Intro", views[0].CourseName)
	require.NotNil(t, views[0].Credits)
	assert.Equal(t, 4, *views[0].Credits)
	assert.Equal(t, models.GradeTierGood, views[0].Tier)
}

func TestOrphanedReferencesResolveToPlaceholders(t *testing.T) {
	ctx := context.Background()
	r := newRecords(t, models.DeletePolicyOrphan)
	admin := models.AdminSession()
	cs101 := r.addCourse(t, "CS101", "Intro", 3)
	cs201 := r.addCourse(t, "CS201", "Data Structures", 4)
	jane := r.addStudent(t, "Jane", "STU001")

	for _, c := range []*models.Course{cs101, cs201} {
		_, err := r.enrollment.Register(ctx, admin, jane.ID, c.ID, models.Date{})
		require.NoError(t, err)
	}
	_, err := r.results.RecordResult(ctx, "STU001", "CS101", "A")
	require.NoError(t, err)

	require.NoError(t, r.catalog.DeleteCourse(ctx, cs101.ID))

	enrolled, err := r.projection.EnrolledCourses(ctx, admin, jane.ID)
	require.NoError(t, err)
	require.Len(t, enrolled, 2)
	assert.Equal(t, models.Unresolved, enrolled[0].Course.Resolution)
	assert.Equal(t, models.UnresolvedPlaceholder, enrolled[0].Course.Title)
	assert.True(t, enrolled[1].Course.IsResolved())

	credits, err := r.projection.TotalCredits(ctx, admin, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, credits)

	views, err := r.projection.ResultsFor(ctx, admin, "STU001")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Credits)
	assert.Equal(t, models.Unresolved, views[0].CourseResolution)
	assert.Equal(t, "Intro", views[0].CourseName)

	// Removing the student leaves its results visible to admins.
	require.NoError(t, r.roster.DeleteStudent(ctx, jane.ID))
	all, err := r.projection.AllResults(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.Unresolved, all[0].StudentResolution)

	completed, err := r.projection.CompletedCount(ctx, admin, "STU001")
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
}

func TestRestrictPolicyBlocksDeletes(t *testing.T) {
	ctx := context.Background()
	r := newRecords(t, models.DeletePolicyRestrict)
	course := r.addCourse(t, "CS101", "Intro", 3)
	jane := r.addStudent(t, "Jane", "STU001")
	reg, err := r.enrollment.Register(ctx, models.AdminSession(), jane.ID, course.ID, models.Date{})
	require.NoError(t, err)

	assert.ErrorIs(t, r.catalog.DeleteCourse(ctx, course.ID), apperrors.ErrHasDependents)
	assert.ErrorIs(t, r.roster.DeleteStudent(ctx, jane.ID), apperrors.ErrHasDependents)

	require.NoError(t, r.enrollment.DropByID(ctx, models.AdminSession(), reg.ID))
	assert.NoError(t, r.catalog.DeleteCourse(ctx, course.ID))
	assert.NoError(t, r.roster.DeleteStudent(ctx, jane.ID))
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	r := newRecords(t, models.DeletePolicyOrphan)
	cs101 := r.addCourse(t, "CS101", "Intro", 3)
	r.addCourse(t, "MA101", "Calculus", 4)
	jane := r.addStudent(t, "Jane", "STU001")
	_, err := r.enrollment.Register(ctx, models.AdminSession(), jane.ID, cs101.ID, models.Date{})
	require.NoError(t, err)
	_, err = r.results.RecordResult(ctx, "STU001", "MA101", "A-")
	require.NoError(t, err)

	dashboard, err := r.projection.Dashboard(ctx, studentSession("STU001"), "STU001")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, dashboard.Student.ID)
	assert.Equal(t, []string{"CS101"}, courseCodes(dashboard.EnrolledCourses))
	require.Len(t, dashboard.AvailableCourses, 1)
	assert.Equal(t, "MA101", dashboard.AvailableCourses[0].Code)
	assert.Equal(t, 3, dashboard.TotalCredits)
	assert.Equal(t, 1, dashboard.CompletedCount)
	require.Len(t, dashboard.Results, 1)
	assert.Equal(t, models.GradeTierExcellent, dashboard.Results[0].Tier)

	_, err = r.projection.Dashboard(ctx, models.AdminSession(), "STU404")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
