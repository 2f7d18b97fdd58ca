package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Files holds the schema migrations shipped with the binary.
//
//go:embed sql/*.sql
var Files embed.FS

// lockKey serializes migrations across processes starting at the same time.
const lockKey int64 = 0x756e697265636f72 // "unirecor"

// migration is one versioned SQL file, e.g. "001_init.sql" has version "001".
type migration struct {
	version string
	name    string
	sql     string
}

// Migrator applies the versioned schema files in order, once each
type Migrator struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new Migrator
func NewMigrator(pool *pgxpool.Pool, lgr zerolog.Logger) *Migrator {
	return &Migrator{pool: pool, logger: lgr}
}

// MigrateEmbedded applies the migrations compiled into the binary
func (m *Migrator) MigrateEmbedded(ctx context.Context) error {
	return m.Migrate(ctx, Files, "sql")
}

// Migrate applies every pending *.sql file under dir of fsys. Each file runs
// in its own transaction together with its bookkeeping row, so a failed file
// leaves no partial schema behind and is retried on the next start.
func (m *Migrator) Migrate(ctx context.Context, fsys fs.FS, dir string) error {
	pending, err := load(fsys, dir)
	if err != nil {
		return err
	}

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire migration connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("failed to take migration lock: %w", err)
	}
	defer func() {
		if _, err := conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, lockKey); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to release migration lock")
		}
	}()

	if _, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}

	applied, err := appliedVersions(ctx, conn.Conn())
	if err != nil {
		return err
	}

	count := 0
	for _, mig := range pending {
		if applied[mig.version] {
			m.logger.Debug().Str("migration", mig.name).Msg("Migration already applied, skipping")
			continue
		}
		if err := apply(ctx, conn.Conn(), mig); err != nil {
			return err
		}
		m.logger.Info().Str("migration", mig.name).Msg("Migration applied")
		count++
	}

	m.logger.Info().Int("applied", count).Int("known", len(pending)).Msg("Schema up to date")
	return nil
}

// load reads the migration files of dir sorted by name.
func load(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var out []migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		version, _, found := strings.Cut(name, "_")
		if !found || version == "" {
			return nil, fmt.Errorf("migration %s is not named <version>_<description>.sql", name)
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		out = append(out, migration{version: version, name: name, sql: string(content)})
	}

	slices.SortFunc(out, func(a, b migration) int { return strings.Compare(a.name, b.name) })
	return out, nil
}

func appliedVersions(ctx context.Context, conn *pgx.Conn) (map[string]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func apply(ctx context.Context, conn *pgx.Conn, mig migration) error {
	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, mig.sql); err != nil {
			return fmt.Errorf("migration %s failed: %w", mig.name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, mig.version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", mig.name, err)
		}
		return nil
	})
}
