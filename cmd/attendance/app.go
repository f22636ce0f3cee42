package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/attendance-tracker/internal/adapters"
	"github.com/example/attendance-tracker/internal/application"
	"github.com/example/attendance-tracker/internal/config"
	httptransport "github.com/example/attendance-tracker/internal/http"
	"github.com/example/attendance-tracker/internal/logging"
	"github.com/example/attendance-tracker/internal/metrics"
	"github.com/example/attendance-tracker/internal/persistence/postgres"
	"github.com/example/attendance-tracker/internal/persistence/sqlite"
	"github.com/example/attendance-tracker/internal/persistence/sqlstore"
)

type appRuntime struct {
	cfg    config.Config
	logger *slog.Logger
}

func loadRuntime(flags *globalFlags, logOut io.Writer) (appRuntime, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return appRuntime{}, fmt.Errorf("load configuration: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	logger, err := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return appRuntime{}, fmt.Errorf("configure logging: %w", err)
	}
	slog.SetDefault(logger)
	return appRuntime{cfg: cfg, logger: logger}, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (*sqlstore.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(ctx, postgres.Config{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
	case config.DriverSQLite:
		sc := sqlite.DefaultConfig(cfg.SQLite.Path)
		if cfg.SQLite.BusyTimeout > 0 {
			sc.BusyTimeout = cfg.SQLite.BusyTimeout
		}
		if cfg.SQLite.JournalMode != "" {
			sc.JournalMode = cfg.SQLite.JournalMode
		}
		return sqlite.Open(ctx, sc)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

// buildHandler wires repositories, services and handlers into the router.
// m may be nil when metrics are disabled.
func buildHandler(rt appRuntime, store *sqlstore.Store, m *metrics.Metrics) http.Handler {
	logger := rt.logger
	now := time.Now

	employeeRepo := adapters.NewEmployeeRepository(store.Employees())
	attendanceRepo := adapters.NewAttendanceRepository(store.Attendance())

	employeeService := application.NewEmployeeServiceWithLogger(employeeRepo, now, logger)
	attendanceService := application.NewAttendanceServiceWithLogger(attendanceRepo, employeeRepo, now, logger)

	routerCfg := httptransport.RouterConfig{
		Employees:      httptransport.NewEmployeeHandler(employeeService, logger),
		Attendance:     httptransport.NewAttendanceHandler(attendanceService, logger),
		Health:         httptransport.NewHealthHandler(store, logger),
		AllowedOrigins: rt.cfg.CORS.AllowedOrigins,
		Logger:         logger,
	}
	if m != nil {
		employeeService.WithMetrics(m)
		attendanceService.WithMetrics(m)
		routerCfg.Metrics = m.Handler()
		routerCfg.Observer = m
	}

	return httptransport.NewRouter(routerCfg)
}

func serve(ctx context.Context, rt appRuntime, skipMigrate bool) error {
	logger := rt.logger

	store, err := openStore(ctx, rt.cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close store", "error", cerr)
		}
	}()

	if !skipMigrate {
		if err := store.Migrate(ctx, logger); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	var m *metrics.Metrics
	if rt.cfg.Metrics.Enabled {
		m = metrics.New()
	}

	httpCfg := rt.cfg.HTTP
	server := &http.Server{
		Addr:              httpCfg.Addr(),
		Handler:           buildHandler(rt, store, m),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       httpCfg.ReadTimeout,
		WriteTimeout:      httpCfg.WriteTimeout,
		IdleTimeout:       httpCfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("attendance API listening", "addr", server.Addr, "store", rt.cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", httpCfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

func migrate(ctx context.Context, rt appRuntime, out io.Writer) error {
	store, err := openStore(ctx, rt.cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	manager := store.Migrator(rt.logger)
	applied, err := manager.Run(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, m := range applied {
		fmt.Fprintf(out, "applied %s %s\n", m.Version, m.Description)
	}

	status, err := manager.Status(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	fmt.Fprintf(out, "current version: %s (%d applied, %d pending)\n",
		status.CurrentVersion, len(status.Applied), len(status.Pending))
	return nil
}
