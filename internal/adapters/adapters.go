// Package adapters bridges persistence repositories to the interfaces the
// application services depend on.
package adapters

import (
	"context"
	"errors"

	"github.com/example/attendance-tracker/internal/application"
	"github.com/example/attendance-tracker/internal/calendar"
	"github.com/example/attendance-tracker/internal/persistence"
)

// EmployeeRepository adapts a persistence.EmployeeRepository.
type EmployeeRepository struct {
	repo persistence.EmployeeRepository
}

var (
	_ application.EmployeeRepository   = (*EmployeeRepository)(nil)
	_ application.EmployeeDirectory    = (*EmployeeRepository)(nil)
	_ application.AttendanceRepository = (*AttendanceRepository)(nil)
)

// NewEmployeeRepository wraps repo.
func NewEmployeeRepository(repo persistence.EmployeeRepository) *EmployeeRepository {
	return &EmployeeRepository{repo: repo}
}

func (a *EmployeeRepository) CreateEmployee(ctx context.Context, employee application.Employee) (application.Employee, error) {
	stored, err := a.repo.CreateEmployee(ctx, toPersistenceEmployee(employee))
	if err != nil {
		return application.Employee{}, err
	}
	return toApplicationEmployee(stored), nil
}

func (a *EmployeeRepository) GetEmployee(ctx context.Context, employeeID string) (application.Employee, error) {
	stored, err := a.repo.GetEmployee(ctx, employeeID)
	if err != nil {
		return application.Employee{}, err
	}
	return toApplicationEmployee(stored), nil
}

func (a *EmployeeRepository) ListEmployees(ctx context.Context) ([]application.Employee, error) {
	models, err := a.repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	employees := make([]application.Employee, 0, len(models))
	for _, model := range models {
		employees = append(employees, toApplicationEmployee(model))
	}
	return employees, nil
}

func (a *EmployeeRepository) DeleteEmployee(ctx context.Context, employeeID string) error {
	return a.repo.DeleteEmployee(ctx, employeeID)
}

// EmployeeExists implements application.EmployeeDirectory.
func (a *EmployeeRepository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	_, err := a.repo.GetEmployee(ctx, employeeID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, persistence.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// AttendanceRepository adapts a persistence.AttendanceRepository.
type AttendanceRepository struct {
	repo persistence.AttendanceRepository
}

// NewAttendanceRepository wraps repo.
func NewAttendanceRepository(repo persistence.AttendanceRepository) *AttendanceRepository {
	return &AttendanceRepository{repo: repo}
}

func (a *AttendanceRepository) CreateAttendance(ctx context.Context, record application.AttendanceRecord) (application.AttendanceRecord, error) {
	stored, err := a.repo.CreateAttendance(ctx, persistence.AttendanceRecord{
		EmployeeID: record.EmployeeID,
		Date:       record.Date,
		IsPresent:  record.IsPresent,
		CreatedAt:  record.CreatedAt,
	})
	if err != nil {
		return application.AttendanceRecord{}, err
	}
	return toApplicationRecord(stored), nil
}

func (a *AttendanceRepository) ListAttendance(ctx context.Context, filter application.AttendanceFilter) ([]application.AttendanceRecord, error) {
	models, err := a.repo.ListAttendance(ctx, persistence.AttendanceFilter{
		EmployeeID: filter.EmployeeID,
		Date:       filter.Date,
	})
	if err != nil {
		return nil, err
	}
	return toApplicationRecords(models), nil
}

func (a *AttendanceRepository) ListEmployeeAttendance(ctx context.Context, employeeID string, start, end calendar.Date) ([]application.AttendanceRecord, error) {
	models, err := a.repo.ListEmployeeAttendance(ctx, employeeID, persistence.DateRange{Start: start, End: end})
	if err != nil {
		return nil, err
	}
	return toApplicationRecords(models), nil
}

func (a *AttendanceRepository) SummarizeAttendance(ctx context.Context, employeeID string) (application.AttendanceSummary, error) {
	summary, err := a.repo.SummarizeAttendance(ctx, employeeID)
	if err != nil {
		return application.AttendanceSummary{}, err
	}
	return application.AttendanceSummary{
		EmployeeID:  employeeID,
		PresentDays: summary.PresentDays,
		AbsentDays:  summary.AbsentDays,
	}, nil
}

func toPersistenceEmployee(e application.Employee) persistence.Employee {
	return persistence.Employee{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FullName:   e.FullName,
		Email:      e.Email,
		Department: e.Department,
		CreatedAt:  e.CreatedAt,
	}
}

func toApplicationEmployee(e persistence.Employee) application.Employee {
	return application.Employee{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FullName:   e.FullName,
		Email:      e.Email,
		Department: e.Department,
		CreatedAt:  e.CreatedAt,
	}
}

func toApplicationRecord(r persistence.AttendanceRecord) application.AttendanceRecord {
	return application.AttendanceRecord{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		IsPresent:  r.IsPresent,
		CreatedAt:  r.CreatedAt,
	}
}

func toApplicationRecords(models []persistence.AttendanceRecord) []application.AttendanceRecord {
	records := make([]application.AttendanceRecord, 0, len(models))
	for _, model := range models {
		records = append(records, toApplicationRecord(model))
	}
	return records
}
