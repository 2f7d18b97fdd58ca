// Package postgres is the PostgreSQL entity store. Uniqueness is enforced by
// constraints; existence checks lock the referenced rows inside the writing
// transaction so a concurrent delete cannot slip between check and insert.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/db"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

const (
	constraintStudentNumber   = "students_student_number_key"
	constraintCourseCode      = "courses_code_key"
	constraintRegistrationKey = "registrations_student_course_key"
)

var (
	studentColumns      = []string{"id", "name", "email", "student_number"}
	courseColumns       = []string{"id", "code", "title", "credits", "instructor"}
	registrationColumns = []string{"id", "student_id", "course_id", "registration_date"}
	resultColumns       = []string{"id", "student_number", "course_code", "grade", "course_name"}
)

var _ repositories.Store = (*Store)(nil)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store handles entity persistence in PostgreSQL
type Store struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// New creates a Store on top of an open database
func New(database *db.PostgresDB) *Store {
	return &Store{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Close releases the connection pool
func (s *Store) Close() {
	s.db.Close()
}

// Ping checks that the pool can reach the database. The health endpoint uses it.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// scanner is implemented by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (*models.Student, error) {
	st := &models.Student{}
	if err := row.Scan(&st.ID, &st.Name, &st.Email, &st.StudentNumber); err != nil {
		return nil, err
	}
	return st, nil
}

func scanCourse(row scanner) (*models.Course, error) {
	c := &models.Course{}
	if err := row.Scan(&c.ID, &c.Code, &c.Title, &c.Credits, &c.Instructor); err != nil {
		return nil, err
	}
	return c, nil
}

func scanRegistration(row scanner) (*models.Registration, error) {
	r := &models.Registration{}
	var date time.Time
	if err := row.Scan(&r.ID, &r.StudentID, &r.CourseID, &date); err != nil {
		return nil, err
	}
	r.RegistrationDate = models.NewDate(date)
	return r, nil
}

func scanResult(row scanner) (*models.Result, error) {
	r := &models.Result{}
	if err := row.Scan(&r.ID, &r.StudentNumber, &r.CourseCode, &r.Grade, &r.CourseName); err != nil {
		return nil, err
	}
	return r, nil
}

// queryOne runs a single-row select and maps no rows to notFound.
func queryOne[T any](ctx context.Context, q querier, builder squirrel.SelectBuilder, scan func(scanner) (*T, error), notFound error) (*T, error) {
	sql, args, err := builder.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	v, err := scan(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return v, nil
}

// queryAll runs a select and scans every row.
func queryAll[T any](ctx context.Context, q querier, builder squirrel.SelectBuilder, scan func(scanner) (*T, error)) ([]*T, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// insertReturningID inserts columns/values, adding the id column when the
// caller chose one, and returns the stored id.
func (s *Store) insertReturningID(ctx context.Context, q querier, table string, id int64, columns []string, values []any) (int64, error) {
	if id > 0 {
		columns = append([]string{"id"}, columns...)
		values = append([]any{id}, values...)
	}
	sql, args, err := s.sb.Insert(table).Columns(columns...).Values(values...).Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert into %s: %w", table, err)
	}
	var newID int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return 0, err
	}
	if id > 0 {
		// Keep the serial ahead of explicitly chosen ids.
		bump := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), GREATEST((SELECT MAX(id) FROM %s), 1))", table, table)
		if _, err := q.Exec(ctx, bump); err != nil {
			return 0, fmt.Errorf("failed to advance %s id sequence: %w", table, err)
		}
	}
	return newID, nil
}

// deleteByID deletes one row and maps zero affected rows to notFound.
func (s *Store) deleteByID(ctx context.Context, q querier, table string, id int64, notFound error) error {
	sql, args, err := s.sb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete from %s: %w", table, err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error executing delete query")
		return fmt.Errorf("error deleting from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

// exists runs SELECT EXISTS over the given table and predicate.
func (s *Store) exists(ctx context.Context, q querier, table string, pred squirrel.Sqlizer) (bool, error) {
	sql, args, err := s.sb.Select("1").
		From(table).
		Where(pred).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}
	var found bool
	if err := q.QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("error checking %s: %w", table, err)
	}
	return found, nil
}

// lockStudentForShare reads a student and holds a share lock on it until the
// transaction ends.
func (s *Store) lockStudentForShare(ctx context.Context, tx pgx.Tx, where squirrel.Eq, notFound error) (*models.Student, error) {
	return queryOne(ctx, tx, s.sb.Select(studentColumns...).From("students").Where(where).Suffix("FOR SHARE"), scanStudent, notFound)
}

func (s *Store) lockCourseForShare(ctx context.Context, tx pgx.Tx, where squirrel.Eq, notFound error) (*models.Course, error) {
	return queryOne(ctx, tx, s.sb.Select(courseColumns...).From("courses").Where(where).Suffix("FOR SHARE"), scanCourse, notFound)
}
