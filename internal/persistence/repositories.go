package persistence

import (
	"context"

	"github.com/example/attendance-tracker/internal/calendar"
)

// EmployeeRepository exposes the employee registry operations.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) (Employee, error)
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	// DeleteEmployee removes the employee and all of its attendance records atomically.
	DeleteEmployee(ctx context.Context, employeeID string) error
}

// AttendanceFilter narrows global attendance queries. Zero values impose no constraint.
type AttendanceFilter struct {
	EmployeeID string
	Date       calendar.Date
}

// DateRange bounds a per-employee query. Both ends are inclusive and optional.
type DateRange struct {
	Start calendar.Date
	End   calendar.Date
}

// AttendanceRepository stores attendance records and answers queries over them.
type AttendanceRepository interface {
	CreateAttendance(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, error)
	// ListEmployeeAttendance returns ErrNotFound when the employee does not exist.
	ListEmployeeAttendance(ctx context.Context, employeeID string, dates DateRange) ([]AttendanceRecord, error)
	// SummarizeAttendance returns ErrNotFound when the employee does not exist.
	SummarizeAttendance(ctx context.Context, employeeID string) (AttendanceSummary, error)
}
