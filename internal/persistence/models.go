package persistence

import (
	"time"

	"github.com/example/attendance-tracker/internal/calendar"
)

// Employee represents a tracked employee row.
type Employee struct {
	ID         int64
	EmployeeID string
	FullName   string
	Email      string
	Department string
	CreatedAt  time.Time
}

// AttendanceRecord represents one employee's presence observation for a day.
type AttendanceRecord struct {
	ID         int64
	EmployeeID string
	Date       calendar.Date
	IsPresent  bool
	CreatedAt  time.Time
}

// AttendanceSummary holds aggregate day counts for one employee.
type AttendanceSummary struct {
	PresentDays int
	AbsentDays  int
}
