package migration

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
)

// Manager coordinates a Scanner and an Executor.
type Manager struct {
	scanner  Scanner
	executor Executor
	logger   *slog.Logger
}

// NewManager wires a migration manager. A nil logger falls back to slog.Default().
func NewManager(scanner Scanner, executor Executor, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		scanner:  scanner,
		executor: executor,
		logger:   logger.With(slog.String("component", "migration")),
	}
}

// Run applies every pending migration in version order and returns the
// migrations that were applied.
func (m *Manager) Run(ctx context.Context) ([]Migration, error) {
	status, err := m.Status(ctx)
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "schema status",
		slog.String("current_version", status.CurrentVersion),
		slog.Int("applied", len(status.Applied)),
		slog.Int("pending", len(status.Pending)),
	)

	applied := make([]Migration, 0, len(status.Pending))
	for i, migration := range status.Pending {
		logger := m.logger.With(
			slog.String("version", migration.Version),
			slog.String("description", migration.Description),
		)
		logger.InfoContext(ctx, "applying migration",
			slog.Int("step", i+1),
			slog.Int("total", len(status.Pending)),
		)

		elapsed, err := m.executor.Apply(ctx, migration)
		if err != nil {
			logger.ErrorContext(ctx, "migration failed", slog.Any("error", err))
			return applied, err
		}

		logger.InfoContext(ctx, "migration applied", slog.Duration("elapsed", elapsed))
		applied = append(applied, migration)
	}

	return applied, nil
}

// Status reports applied and pending migrations. It validates that versions
// form a contiguous sequence starting at 1, that every applied version still
// has a file, and that applied files were not edited.
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return nil, fmt.Errorf("initialize version table: %w", err)
	}

	available, err := m.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan migrations: %w", err)
	}

	applied, err := m.executor.AppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}

	if err := validateSequence(available); err != nil {
		return nil, err
	}

	byVersion := make(map[string]Migration, len(available))
	for _, migration := range available {
		byVersion[migration.Version] = migration
	}

	done := make(map[string]bool, len(applied))
	for _, a := range applied {
		migration, ok := byVersion[a.Version]
		if !ok {
			return nil, NewError(a.Version, "", "validate applied",
				fmt.Errorf("%w: applied version has no migration file", ErrVersionConflict))
		}
		if a.Checksum != "" && a.Checksum != migration.Checksum {
			return nil, NewError(a.Version, migration.FilePath, "validate checksum", ErrChecksumMismatch)
		}
		done[a.Version] = true
	}

	status := &Status{Applied: applied}
	for _, migration := range available {
		if !done[migration.Version] {
			status.Pending = append(status.Pending, migration)
		}
	}
	if len(applied) > 0 {
		status.CurrentVersion = applied[len(applied)-1].Version
	}
	return status, nil
}

// Pending returns the migrations that have not been applied yet.
func (m *Manager) Pending(ctx context.Context) ([]Migration, error) {
	status, err := m.Status(ctx)
	if err != nil {
		return nil, err
	}
	return status.Pending, nil
}

func validateSequence(migrations []Migration) error {
	for i, migration := range migrations {
		version, err := strconv.Atoi(migration.Version)
		if err != nil {
			return NewError(migration.Version, migration.FilePath, "validate sequence",
				fmt.Errorf("%w: %q is not numeric", ErrInvalidVersion, migration.Version))
		}
		if version != i+1 {
			return NewError(migration.Version, migration.FilePath, "validate sequence",
				fmt.Errorf("%w: expected version %d, found %d", ErrVersionConflict, i+1, version))
		}
	}
	return nil
}

func sortApplied(applied []AppliedMigration) {
	sort.Slice(applied, func(i, j int) bool {
		vi, _ := strconv.Atoi(applied[i].Version)
		vj, _ := strconv.Atoi(applied[j].Version)
		return vi < vj
	})
}
