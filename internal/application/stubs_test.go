package application

import (
	"context"
	"sync"

	"github.com/example/attendance-tracker/internal/calendar"
)

type employeeRepoStub struct {
	createErr error
	created   Employee

	get    Employee
	getErr error

	list    []Employee
	listErr error

	deleteErr error
	deletedID string
}

func (r *employeeRepoStub) CreateEmployee(_ context.Context, employee Employee) (Employee, error) {
	if r.createErr != nil {
		return Employee{}, r.createErr
	}
	employee.ID = 42
	r.created = employee
	return employee, nil
}

func (r *employeeRepoStub) GetEmployee(_ context.Context, employeeID string) (Employee, error) {
	if r.getErr != nil {
		return Employee{}, r.getErr
	}
	if r.get.EmployeeID != employeeID {
		return Employee{}, ErrNotFound
	}
	return r.get, nil
}

func (r *employeeRepoStub) ListEmployees(context.Context) ([]Employee, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.list, nil
}

func (r *employeeRepoStub) DeleteEmployee(_ context.Context, employeeID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = employeeID
	return nil
}

type attendanceRepoStub struct {
	createErr error
	created   AttendanceRecord
	calls     int

	listFilter AttendanceFilter
	list       []AttendanceRecord
	listErr    error

	rangeEmployee string
	rangeStart    calendar.Date
	rangeEnd      calendar.Date

	summary    AttendanceSummary
	summaryErr error
}

func (r *attendanceRepoStub) CreateAttendance(_ context.Context, record AttendanceRecord) (AttendanceRecord, error) {
	r.calls++
	if r.createErr != nil {
		return AttendanceRecord{}, r.createErr
	}
	record.ID = int64(r.calls)
	r.created = record
	return record, nil
}

func (r *attendanceRepoStub) ListAttendance(_ context.Context, filter AttendanceFilter) ([]AttendanceRecord, error) {
	r.listFilter = filter
	return r.list, r.listErr
}

func (r *attendanceRepoStub) ListEmployeeAttendance(_ context.Context, employeeID string, start, end calendar.Date) ([]AttendanceRecord, error) {
	r.rangeEmployee = employeeID
	r.rangeStart = start
	r.rangeEnd = end
	return r.list, r.listErr
}

func (r *attendanceRepoStub) SummarizeAttendance(context.Context, string) (AttendanceSummary, error) {
	return r.summary, r.summaryErr
}

type directoryStub map[string]bool

func (d directoryStub) EmployeeExists(_ context.Context, employeeID string) (bool, error) {
	return d[employeeID], nil
}

type metricsRecorder struct {
	mu       sync.Mutex
	created  int
	deleted  int
	present  int
	absent   int
	failures map[string]int
}

func (m *metricsRecorder) EmployeeCreated() { m.mu.Lock(); m.created++; m.mu.Unlock() }
func (m *metricsRecorder) EmployeeDeleted() { m.mu.Lock(); m.deleted++; m.mu.Unlock() }

func (m *metricsRecorder) AttendanceMarked(present bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if present {
		m.present++
	} else {
		m.absent++
	}
}

func (m *metricsRecorder) OperationFailed(operation, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures == nil {
		m.failures = make(map[string]int)
	}
	m.failures[operation+"/"+kind]++
}

func boolPtr(v bool) *bool { return &v }
