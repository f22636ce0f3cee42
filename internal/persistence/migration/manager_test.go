package migration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScanner struct {
	migrations []Migration
	err        error
}

func (s *stubScanner) Scan() ([]Migration, error) {
	return s.migrations, s.err
}

type stubExecutor struct {
	applied   []AppliedMigration
	initErr   error
	applyErr  map[string]error
	execOrder []string
}

func (e *stubExecutor) InitializeVersionTable(context.Context) error {
	return e.initErr
}

func (e *stubExecutor) Apply(_ context.Context, m Migration) (time.Duration, error) {
	if err := e.applyErr[m.Version]; err != nil {
		return 0, err
	}
	e.execOrder = append(e.execOrder, m.Version)
	e.applied = append(e.applied, AppliedMigration{Version: m.Version, Checksum: m.Checksum})
	return time.Millisecond, nil
}

func (e *stubExecutor) AppliedMigrations(context.Context) ([]AppliedMigration, error) {
	return e.applied, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleMigrations() []Migration {
	return []Migration{
		{Version: "001", Description: "create employees", SQL: "CREATE TABLE employees (id INTEGER);", Checksum: "a"},
		{Version: "002", Description: "create attendance", SQL: "CREATE TABLE attendance_records (id INTEGER);", Checksum: "b"},
		{Version: "003", Description: "add indexes", SQL: "CREATE INDEX idx ON attendance_records(id);", Checksum: "c"},
	}
}

func TestManager_Run_AppliesPendingInOrder(t *testing.T) {
	executor := &stubExecutor{applied: []AppliedMigration{{Version: "001", Checksum: "a"}}}
	manager := NewManager(&stubScanner{migrations: sampleMigrations()}, executor, quietLogger())

	applied, err := manager.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"002", "003"}, executor.execOrder)
	require.Len(t, applied, 2)
	assert.Equal(t, "002", applied[0].Version)
}

func TestManager_Run_NothingPending(t *testing.T) {
	executor := &stubExecutor{applied: []AppliedMigration{
		{Version: "001", Checksum: "a"},
		{Version: "002", Checksum: "b"},
		{Version: "003", Checksum: "c"},
	}}
	manager := NewManager(&stubScanner{migrations: sampleMigrations()}, executor, quietLogger())

	applied, err := manager.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Empty(t, executor.execOrder)
}

func TestManager_Run_StopsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	executor := &stubExecutor{applyErr: map[string]error{"002": boom}}
	manager := NewManager(&stubScanner{migrations: sampleMigrations()}, executor, quietLogger())

	applied, err := manager.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Len(t, applied, 1)
	assert.Equal(t, []string{"001"}, executor.execOrder)
}

func TestManager_Status(t *testing.T) {
	tests := []struct {
		name       string
		migrations []Migration
		applied    []AppliedMigration
		initErr    error
		scanErr    error
		wantErr    error
		wantCur    string
		wantPend   int
	}{
		{
			name:       "fresh database",
			migrations: sampleMigrations(),
			wantPend:   3,
		},
		{
			name:       "partially applied",
			migrations: sampleMigrations(),
			applied:    []AppliedMigration{{Version: "001", Checksum: "a"}, {Version: "002", Checksum: "b"}},
			wantCur:    "002",
			wantPend:   1,
		},
		{
			name: "gap in sequence",
			migrations: []Migration{
				{Version: "001", Checksum: "a"},
				{Version: "003", Checksum: "c"},
			},
			wantErr: ErrVersionConflict,
		},
		{
			name:       "non numeric version",
			migrations: []Migration{{Version: "abc"}},
			wantErr:    ErrInvalidVersion,
		},
		{
			name:       "applied version without file",
			migrations: sampleMigrations()[:1],
			applied:    []AppliedMigration{{Version: "001", Checksum: "a"}, {Version: "002", Checksum: "b"}},
			wantErr:    ErrVersionConflict,
		},
		{
			name:       "edited migration",
			migrations: sampleMigrations(),
			applied:    []AppliedMigration{{Version: "001", Checksum: "changed"}},
			wantErr:    ErrChecksumMismatch,
		},
		{
			name:    "version table failure",
			initErr: errors.New("read-only database"),
		},
		{
			name:    "scan failure",
			scanErr: errors.New("missing directory"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			executor := &stubExecutor{applied: tc.applied, initErr: tc.initErr}
			manager := NewManager(&stubScanner{migrations: tc.migrations, err: tc.scanErr}, executor, quietLogger())

			status, err := manager.Status(context.Background())
			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
				return
			case tc.initErr != nil:
				require.ErrorIs(t, err, tc.initErr)
				return
			case tc.scanErr != nil:
				require.ErrorIs(t, err, tc.scanErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantCur, status.CurrentVersion)
			assert.Len(t, status.Pending, tc.wantPend)
		})
	}
}
