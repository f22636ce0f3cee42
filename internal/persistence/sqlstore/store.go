// Package sqlstore implements the persistence repositories on top of
// database/sql. Engine specifics (placeholder syntax, error codes, schema)
// are supplied by a Dialect so the same queries serve SQLite and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/example/attendance-tracker/internal/persistence/migration"
)

// MigrationsDir is the directory inside Dialect.Migrations holding the SQL files.
const MigrationsDir = "migrations"

// Dialect captures what differs between SQL engines.
type Dialect interface {
	// Name identifies the engine in logs.
	Name() string
	// Rebind rewrites ? placeholders into the engine's native form.
	Rebind(query string) string
	// MapError translates driver errors into persistence sentinel errors.
	MapError(err error) error
	// Migrations returns the engine's schema files under MigrationsDir.
	Migrations() fs.FS
}

// Store owns the database handle shared by the repositories.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the clock used when a row arrives without created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New wraps db. The caller keeps ownership of opening it; Close releases it.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{db: db, dialect: dialect, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the engine dialect.
func (s *Store) Dialect() Dialect { return s.dialect }

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Employees returns the employee repository.
func (s *Store) Employees() *EmployeeRepository {
	return &EmployeeRepository{store: s}
}

// Attendance returns the attendance repository.
func (s *Store) Attendance() *AttendanceRepository {
	return &AttendanceRepository{store: s}
}

// Migrator builds a migration manager for the dialect's schema.
func (s *Store) Migrator(logger *slog.Logger) *migration.Manager {
	return migration.NewManager(
		migration.NewScanner(s.dialect.Migrations(), MigrationsDir),
		migration.NewExecutor(s.db, migration.WithRebind(s.dialect.Rebind)),
		logger,
	)
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context, logger *slog.Logger) error {
	if _, err := s.Migrator(logger).Run(ctx); err != nil {
		return fmt.Errorf("migrate %s schema: %w", s.dialect.Name(), err)
	}
	return nil
}

// TransactionFunc represents a function that executes within a transaction.
type TransactionFunc func(tx *sql.Tx) error

// WithTransaction runs fn inside a transaction. The transaction is rolled back
// when fn returns an error or panics, and committed otherwise.
func (s *Store) WithTransaction(ctx context.Context, fn TransactionFunc) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", s.dialect.MapError(err))
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) q(query string) string {
	return s.dialect.Rebind(query)
}

func (s *Store) employeeExists(ctx context.Context, q queryer, employeeID string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, s.q(`SELECT 1 FROM employees WHERE employee_id = ?`), employeeID).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check employee %q: %w", employeeID, s.dialect.MapError(err))
	default:
		return true, nil
	}
}

func (s *Store) createdAt(t time.Time) time.Time {
	if t.IsZero() {
		t = s.now()
	}
	return t.UTC()
}
