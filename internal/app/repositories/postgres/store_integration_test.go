//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/unirecords/internal/app/migrations"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/db"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	store     *Store
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("unirecords"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err, "failed to start postgres container")
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	pool, err := pgxpool.New(s.ctx, dsn)
	s.Require().NoError(err)
	s.Require().NoError(pool.Ping(s.ctx))

	s.Require().NoError(migrations.NewMigrator(pool, zerolog.Nop()).MigrateEmbedded(s.ctx))
	// Applying twice is a no-op.
	s.Require().NoError(migrations.NewMigrator(pool, zerolog.Nop()).MigrateEmbedded(s.ctx))

	s.store = New(db.NewFromPool(pool))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.store != nil {
		s.store.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.store.db.Pool.Exec(s.ctx, "TRUNCATE students, courses, registrations, results RESTART IDENTITY")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) addStudent(number string) *models.Student {
	st := &models.Student{Name: "Student " + number, Email: number + "@school.edu", StudentNumber: number}
	s.Require().NoError(s.store.CreateStudent(s.ctx, st))
	return st
}

func (s *PostgresStoreSuite) addCourse(code, title string, credits int) *models.Course {
	c := &models.Course{Code: code, Title: title, Credits: credits, Instructor: "Dr. Smith"}
	s.Require().NoError(s.store.CreateCourse(s.ctx, c))
	return c
}

func (s *PostgresStoreSuite) today() models.Date {
	return models.NewDate(time.Now())
}

func (s *PostgresStoreSuite) TestStudentRoundTrip() {
	st := s.addStudent("STU001")
	s.Positive(st.ID)

	got, err := s.store.GetStudentByID(s.ctx, st.ID)
	s.Require().NoError(err)
	s.Equal(*st, *got)

	err = s.store.CreateStudent(s.ctx, &models.Student{Name: "Dup", Email: "d@school.edu", StudentNumber: "STU001"})
	s.ErrorIs(err, apperrors.ErrStudentNumberAlreadyExists)

	_, err = s.store.GetStudentByNumber(s.ctx, "STU404")
	s.ErrorIs(err, apperrors.ErrStudentNotFound)
}

func (s *PostgresStoreSuite) TestExplicitIDsKeepSequenceAhead() {
	s.Require().NoError(s.store.CreateCourse(s.ctx, &models.Course{ID: 50, Code: "CS150", Title: "Fifty", Credits: 3, Instructor: "X"}))
	next := s.addCourse("CS151", "Next", 3)
	s.Equal(int64(51), next.ID)
}

func (s *PostgresStoreSuite) TestPingReachesDatabase() {
	s.NoError(s.store.Ping(s.ctx))
}

func (s *PostgresStoreSuite) TestRegistrationLifecycle() {
	st := s.addStudent("STU001")
	c := s.addCourse("CS101", "Intro", 3)

	reg := &models.Registration{StudentID: st.ID, CourseID: c.ID, RegistrationDate: s.today()}
	s.Require().NoError(s.store.CreateRegistration(s.ctx, reg))

	dup := &models.Registration{StudentID: st.ID, CourseID: c.ID, RegistrationDate: s.today()}
	s.ErrorIs(s.store.CreateRegistration(s.ctx, dup), apperrors.ErrDuplicateRegistration)

	missing := &models.Registration{StudentID: st.ID + 10, CourseID: c.ID, RegistrationDate: s.today()}
	s.ErrorIs(s.store.CreateRegistration(s.ctx, missing), apperrors.ErrStudentNotFound)

	got, err := s.store.GetRegistrationByID(s.ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(reg.RegistrationDate.String(), got.RegistrationDate.String())

	s.Require().NoError(s.store.DeleteRegistrationByPair(s.ctx, reg.Key()))
	s.ErrorIs(s.store.DeleteRegistrationByPair(s.ctx, reg.Key()), apperrors.ErrRegistrationNotFound)
}

func (s *PostgresStoreSuite) TestConcurrentRegistrationsOfOnePair() {
	st := s.addStudent("STU001")
	c := s.addCourse("CS101", "Intro", 3)

	const callers = 12
	var successes atomic.Int32
	var g errgroup.Group
	for range callers {
		g.Go(func() error {
			err := s.store.CreateRegistration(s.ctx, &models.Registration{StudentID: st.ID, CourseID: c.ID, RegistrationDate: s.today()})
			if err == nil {
				successes.Add(1)
				return nil
			}
			if errors.Is(err, apperrors.ErrDuplicateRegistration) {
				return nil
			}
			return err
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(int32(1), successes.Load())

	regs, err := s.store.ListRegistrationsByStudent(s.ctx, st.ID)
	s.Require().NoError(err)
	s.Len(regs, 1)
}

func (s *PostgresStoreSuite) TestResultsResolveAndStayStale() {
	s.addStudent("STU001")
	c := s.addCourse("CS101", "Intro", 3)

	s.ErrorIs(s.store.CreateResult(s.ctx, &models.Result{StudentNumber: "STU404", CourseCode: "CS101", Grade: "A"}), apperrors.ErrUnknownStudent)
	s.ErrorIs(s.store.CreateResult(s.ctx, &models.Result{StudentNumber: "STU001", CourseCode: "XX1", Grade: "A"}), apperrors.ErrUnknownCourse)

	r := &models.Result{StudentNumber: "STU001", CourseCode: "CS101", Grade: "A"}
	s.Require().NoError(s.store.CreateResult(s.ctx, r))
	s.Equal("Intro", r.CourseName)

	c.Title = "Renamed"
	s.Require().NoError(s.store.UpdateCourse(s.ctx, c))

	got, err := s.store.GetResultByID(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal("Intro", got.CourseName)

	count, err := s.store.CountResultsByStudentNumber(s.ctx, "STU001")
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *PostgresStoreSuite) TestDeletePolicies() {
	st := s.addStudent("STU001")
	c := s.addCourse("CS101", "Intro", 3)
	s.Require().NoError(s.store.CreateRegistration(s.ctx, &models.Registration{StudentID: st.ID, CourseID: c.ID, RegistrationDate: s.today()}))
	s.Require().NoError(s.store.CreateResult(s.ctx, &models.Result{StudentNumber: "STU001", CourseCode: "CS101", Grade: "B"}))

	s.ErrorIs(s.store.DeleteCourse(s.ctx, c.ID, models.DeletePolicyRestrict), apperrors.ErrHasDependents)
	s.ErrorIs(s.store.DeleteStudent(s.ctx, st.ID, models.DeletePolicyRestrict), apperrors.ErrHasDependents)

	s.Require().NoError(s.store.DeleteCourse(s.ctx, c.ID, models.DeletePolicyOrphan))
	s.Require().NoError(s.store.DeleteStudent(s.ctx, st.ID, models.DeletePolicyOrphan))

	snap, err := s.store.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Empty(snap.Students)
	s.Empty(snap.Courses)
	s.Len(snap.Registrations, 1)
	s.Len(snap.Results, 1)
}
