package testfixtures

import (
	"log/slog"
	"testing"
	"time"

	"github.com/example/attendance-tracker/internal/adapters"
	"github.com/example/attendance-tracker/internal/application"
)

// ServiceFactory assists tests with constructing application services using a
// deterministic clock.
type ServiceFactory struct {
	Clock  *Clock
	Logger *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{Clock: NewClock(time.Time{})}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithLogger sets the logger handed to constructed services.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// NewEmployeeService builds an employee service over repo.
func (f *ServiceFactory) NewEmployeeService(repo application.EmployeeRepository) *application.EmployeeService {
	return application.NewEmployeeServiceWithLogger(repo, f.Clock.NowFunc(), f.Logger)
}

// NewAttendanceService builds an attendance service over repo and directory.
func (f *ServiceFactory) NewAttendanceService(repo application.AttendanceRepository, directory application.EmployeeDirectory) *application.AttendanceService {
	return application.NewAttendanceServiceWithLogger(repo, directory, f.Clock.NowFunc(), f.Logger)
}

// Services bundles both application services over one SQLite harness.
type Services struct {
	Harness    *SQLiteHarness
	Employees  *application.EmployeeService
	Attendance *application.AttendanceService
}

// NewSQLiteServices wires both services to a fresh SQLite harness.
func (f *ServiceFactory) NewSQLiteServices(tb testing.TB) *Services {
	tb.Helper()
	harness := NewSQLiteHarness(tb)
	employees := adapters.NewEmployeeRepository(harness.Employees)
	return &Services{
		Harness:    harness,
		Employees:  f.NewEmployeeService(employees),
		Attendance: f.NewAttendanceService(adapters.NewAttendanceRepository(harness.Attendance), employees),
	}
}
