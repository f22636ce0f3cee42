package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/attendance-tracker/internal/application"
	"github.com/example/attendance-tracker/internal/calendar"
	"github.com/example/attendance-tracker/internal/persistence"
)

var employeeCounter uint64

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns the calendar day of ReferenceTime.
func ReferenceDate() calendar.Date {
	return calendar.FromTime(referenceTime)
}

// EmployeeFixture represents a deterministic employee.
type EmployeeFixture struct {
	EmployeeID string
	FullName   string
	Email      string
	Department string
	CreatedAt  time.Time
}

// EmployeeOption configures the generated employee fixture.
type EmployeeOption func(*EmployeeFixture)

// NewEmployeeFixture returns a deterministic employee fixture with optional overrides.
func NewEmployeeFixture(opts ...EmployeeOption) EmployeeFixture {
	idx := atomic.AddUint64(&employeeCounter, 1)
	fixture := EmployeeFixture{
		EmployeeID: fmt.Sprintf("EMP%03d", idx),
		FullName:   fmt.Sprintf("Employee %03d", idx),
		Email:      fmt.Sprintf("employee%03d@example.com", idx),
		Department: "Engineering",
		CreatedAt:  referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEmployeeID overrides the generated employee identifier.
func WithEmployeeID(id string) EmployeeOption {
	return func(f *EmployeeFixture) { f.EmployeeID = id }
}

// WithFullName overrides the generated name.
func WithFullName(name string) EmployeeOption {
	return func(f *EmployeeFixture) { f.FullName = name }
}

// WithEmail overrides the generated email address.
func WithEmail(email string) EmployeeOption {
	return func(f *EmployeeFixture) { f.Email = email }
}

// WithDepartment overrides the generated department.
func WithDepartment(department string) EmployeeOption {
	return func(f *EmployeeFixture) { f.Department = department }
}

// Input returns the fixture as an application.EmployeeInput.
func (f EmployeeFixture) Input() application.EmployeeInput {
	return application.EmployeeInput{
		EmployeeID: f.EmployeeID,
		FullName:   f.FullName,
		Email:      f.Email,
		Department: f.Department,
	}
}

// Application returns the fixture as an application.Employee.
func (f EmployeeFixture) Application() application.Employee {
	return application.Employee{
		EmployeeID: f.EmployeeID,
		FullName:   f.FullName,
		Email:      f.Email,
		Department: f.Department,
		CreatedAt:  f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.Employee.
func (f EmployeeFixture) Persistence() persistence.Employee {
	return persistence.Employee{
		EmployeeID: f.EmployeeID,
		FullName:   f.FullName,
		Email:      f.Email,
		Department: f.Department,
		CreatedAt:  f.CreatedAt,
	}
}

// AttendanceFixture represents one attendance mark.
type AttendanceFixture struct {
	EmployeeID string
	Date       calendar.Date
	IsPresent  bool
}

// Present returns a present mark for employeeID on date (YYYY-MM-DD).
func Present(employeeID, date string) AttendanceFixture {
	return AttendanceFixture{EmployeeID: employeeID, Date: calendar.MustParse(date), IsPresent: true}
}

// Absent returns an absent mark for employeeID on date (YYYY-MM-DD).
func Absent(employeeID, date string) AttendanceFixture {
	return AttendanceFixture{EmployeeID: employeeID, Date: calendar.MustParse(date), IsPresent: false}
}

// Input returns the fixture as an application.MarkAttendanceInput.
func (f AttendanceFixture) Input() application.MarkAttendanceInput {
	present := f.IsPresent
	return application.MarkAttendanceInput{
		EmployeeID: f.EmployeeID,
		Date:       f.Date.String(),
		IsPresent:  &present,
	}
}

// Persistence returns the fixture as a persistence.AttendanceRecord.
func (f AttendanceFixture) Persistence() persistence.AttendanceRecord {
	return persistence.AttendanceRecord{
		EmployeeID: f.EmployeeID,
		Date:       f.Date,
		IsPresent:  f.IsPresent,
		CreatedAt:  referenceTime,
	}
}
