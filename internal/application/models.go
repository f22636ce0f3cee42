package application

import (
	"time"

	"github.com/example/attendance-tracker/internal/calendar"
)

// Employee is a registered employee.
type Employee struct {
	ID         int64
	EmployeeID string
	FullName   string
	Email      string
	Department string
	CreatedAt  time.Time
}

// EmployeeInput captures caller provided employee fields.
type EmployeeInput struct {
	EmployeeID string
	FullName   string
	Email      string
	Department string
}

// AttendanceRecord is one employee's presence for one day.
type AttendanceRecord struct {
	ID         int64
	EmployeeID string
	Date       calendar.Date
	IsPresent  bool
	CreatedAt  time.Time
}

// MarkAttendanceInput captures a mark attendance request. Date is the raw
// YYYY-MM-DD text; IsPresent is nil when the caller omitted it.
type MarkAttendanceInput struct {
	EmployeeID string
	Date       string
	IsPresent  *bool
}

// AttendanceQuery filters the global attendance listing. Empty fields impose no constraint.
type AttendanceQuery struct {
	EmployeeID string
	Date       string
}

// EmployeeAttendanceQuery selects one employee's records between optional inclusive bounds.
type EmployeeAttendanceQuery struct {
	EmployeeID string
	StartDate  string
	EndDate    string
}

// AttendanceFilter is the parsed form of AttendanceQuery handed to repositories.
type AttendanceFilter struct {
	EmployeeID string
	Date       calendar.Date
}

// AttendanceSummary aggregates an employee's full attendance history.
type AttendanceSummary struct {
	EmployeeID  string
	PresentDays int
	AbsentDays  int
}
