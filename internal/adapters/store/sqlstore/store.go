// Package sqlstore implements the resource and submission stores on
// database/sql, backed by SQLite (modernc.org/sqlite) or Postgres (lib/pq).
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

// Options configures Open.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Logger          *slog.Logger
}

// Store is a database/sql backed ports.ResourceStore and ports.SubmissionStore.
// One Store is shared by all requests; *sql.DB does the pooling.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
	now     func() time.Time
}

// Open connects to the database and applies connection settings.
// It does not create tables; call Migrate for that.
func Open(ctx context.Context, opts Options) (*Store, error) {
	d, err := dialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.name, d.dsn(opts.DSN))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.name, err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns / 2)
	}

	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping %s: %w", d.name, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		db:      db,
		dialect: d,
		logger:  logger.With(slog.String("component", "sqlstore"), slog.String("driver", d.name)),
		now:     time.Now,
	}, nil
}

// Migrate creates any missing tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("apply %s schema: %w", s.dialect.name, err)
	}

	s.logger.InfoContext(ctx, "schema applied")

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "store"
}

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = s.dialect.rebind(query)
	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "store query", slog.String("sql", query), slog.Int("args", len(args)))

	return s.db.QueryContext(ctx, query, args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	query = s.dialect.rebind(query)
	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "store query", slog.String("sql", query), slog.Int("args", len(args)))

	return s.db.QueryRowContext(ctx, query, args...)
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
}

// scanInt64s collects a single integer column.
func scanInt64s(rows *sql.Rows) ([]int64, error) {
	defer rows.Close()

	out := make([]int64, 0)

	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, rows.Err()
}
