package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/yigit/unirecords/internal/app/models"
)

var snapshotTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// Snapshot reads every table inside one repeatable-read transaction so the
// collections agree with each other.
func (s *Store) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap := &models.Snapshot{}

	err := s.db.WithTransactionOptions(ctx, snapshotTxOptions, func(ctx context.Context, tx pgx.Tx) error {
		students, err := queryAll(ctx, tx, s.sb.Select(studentColumns...).From("students").OrderBy("id ASC"), scanStudent)
		if err != nil {
			return err
		}
		courses, err := queryAll(ctx, tx, s.sb.Select(courseColumns...).From("courses").OrderBy("id ASC"), scanCourse)
		if err != nil {
			return err
		}
		registrations, err := queryAll(ctx, tx, s.sb.Select(registrationColumns...).From("registrations").OrderBy("id ASC"), scanRegistration)
		if err != nil {
			return err
		}
		results, err := queryAll(ctx, tx, s.sb.Select(resultColumns...).From("results").OrderBy("id ASC"), scanResult)
		if err != nil {
			return err
		}

		snap.Students = deref(students)
		snap.Courses = deref(courses)
		snap.Registrations = deref(registrations)
		snap.Results = deref(results)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func deref[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}
