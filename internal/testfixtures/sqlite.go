package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/attendance-tracker/internal/persistence"
	"github.com/example/attendance-tracker/internal/persistence/sqlite"
	"github.com/example/attendance-tracker/internal/persistence/sqlstore"
)

// SQLiteHarness provides repository access backed by a temporary, migrated
// SQLite database file.
type SQLiteHarness struct {
	Store      *sqlstore.Store
	Employees  persistence.EmployeeRepository
	Attendance persistence.AttendanceRepository

	tb      testing.TB
	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness. Callers may invoke Close, but
// the helper also registers a cleanup callback with tb.
func NewSQLiteHarness(tb testing.TB, opts ...sqlstore.Option) *SQLiteHarness {
	tb.Helper()

	ctx := context.Background()
	path := filepath.Join(tb.TempDir(), "attendance.db")

	store, err := sqlite.Open(ctx, sqlite.DefaultConfig(path), opts...)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := store.Migrate(ctx, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Store:      store,
		Employees:  store.Employees(),
		Attendance: store.Attendance(),
		tb:         tb,
		cleanup: func() {
			_ = store.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedEmployees inserts the fixtures and returns the stored rows.
func (h *SQLiteHarness) SeedEmployees(fixtures ...EmployeeFixture) []persistence.Employee {
	h.tb.Helper()
	out := make([]persistence.Employee, 0, len(fixtures))
	for _, f := range fixtures {
		stored, err := h.Employees.CreateEmployee(context.Background(), f.Persistence())
		if err != nil {
			h.tb.Fatalf("seed employee %s: %v", f.EmployeeID, err)
		}
		out = append(out, stored)
	}
	return out
}

// SeedAttendance inserts the fixtures and returns the stored rows.
func (h *SQLiteHarness) SeedAttendance(fixtures ...AttendanceFixture) []persistence.AttendanceRecord {
	h.tb.Helper()
	out := make([]persistence.AttendanceRecord, 0, len(fixtures))
	for _, f := range fixtures {
		stored, err := h.Attendance.CreateAttendance(context.Background(), f.Persistence())
		if err != nil {
			h.tb.Fatalf("seed attendance %s %s: %v", f.EmployeeID, f.Date, err)
		}
		out = append(out, stored)
	}
	return out
}
