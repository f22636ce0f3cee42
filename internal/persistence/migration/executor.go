package migration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SQLExecutor applies migrations through database/sql. The tracking queries
// are written with ? placeholders and passed through rebind, so the same
// executor serves SQLite and PostgreSQL.
type SQLExecutor struct {
	db     *sql.DB
	rebind func(string) string
	now    func() time.Time
}

// ExecutorOption customises an SQLExecutor.
type ExecutorOption func(*SQLExecutor)

// WithRebind sets the placeholder rewriter used for tracking queries.
func WithRebind(rebind func(string) string) ExecutorOption {
	return func(e *SQLExecutor) {
		if rebind != nil {
			e.rebind = rebind
		}
	}
}

// WithClock overrides the clock used for applied_at timestamps.
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *SQLExecutor) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExecutor creates an executor for db.
func NewExecutor(db *sql.DB, opts ...ExecutorOption) *SQLExecutor {
	e := &SQLExecutor{
		db:     db,
		rebind: func(q string) string { return q },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InitializeVersionTable implements Executor.
func (e *SQLExecutor) InitializeVersionTable(ctx context.Context) error {
	const createTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			checksum TEXT NOT NULL DEFAULT '',
			applied_at TEXT NOT NULL,
			execution_time_ms BIGINT NOT NULL DEFAULT 0
		)`

	if _, err := e.db.ExecContext(ctx, createTable); err != nil {
		return NewError("", "", "create schema_migrations table", err)
	}
	return nil
}

// Apply implements Executor.
func (e *SQLExecutor) Apply(ctx context.Context, migration Migration) (elapsed time.Duration, err error) {
	statements := splitStatements(migration.SQL)
	if len(statements) == 0 {
		return 0, NewError(migration.Version, migration.FilePath, "parse SQL",
			fmt.Errorf("%w: no SQL statements found", ErrInvalidMigrationFile))
	}

	started := e.now()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, NewError(migration.Version, migration.FilePath, "begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, stmt := range statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return 0, NewError(migration.Version, migration.FilePath,
				fmt.Sprintf("execute statement %d", i+1), fmt.Errorf("%w: %v", ErrMigrationFailed, err))
		}
	}

	elapsed = e.now().Sub(started)
	record := e.rebind(`INSERT INTO schema_migrations (version, description, checksum, applied_at, execution_time_ms) VALUES (?, ?, ?, ?, ?)`)
	if _, err = tx.ExecContext(ctx, record,
		migration.Version,
		migration.Description,
		migration.Checksum,
		e.now().UTC().Format(time.RFC3339Nano),
		elapsed.Milliseconds(),
	); err != nil {
		return 0, NewError(migration.Version, migration.FilePath, "record migration", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, NewError(migration.Version, migration.FilePath, "commit transaction", err)
	}
	return elapsed, nil
}

// AppliedMigrations implements Executor.
func (e *SQLExecutor) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	const query = `
		SELECT version, description, checksum, applied_at, execution_time_ms
		FROM schema_migrations`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, NewError("", "", "query applied migrations", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var (
			m         AppliedMigration
			appliedAt string
			elapsedMs int64
		)
		if err := rows.Scan(&m.Version, &m.Description, &m.Checksum, &appliedAt, &elapsedMs); err != nil {
			return nil, NewError("", "", "scan applied migration", err)
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, appliedAt); parseErr == nil {
			m.AppliedAt = t
		}
		m.ExecutionTime = time.Duration(elapsedMs) * time.Millisecond
		applied = append(applied, m)
	}
	if err := rows.Err(); err != nil {
		return nil, NewError("", "", "iterate applied migrations", err)
	}

	sortApplied(applied)
	return applied, nil
}

// splitStatements breaks a migration into executable statements. Statements
// are separated by semicolons and full-line "--" comments are dropped, which is
// sufficient for schema DDL without procedural bodies.
func splitStatements(sql string) []string {
	var kept []string
	for _, line := range strings.Split(sql, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	var statements []string
	for _, stmt := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
