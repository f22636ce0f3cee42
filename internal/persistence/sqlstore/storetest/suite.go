// Package storetest holds the repository contract shared by every SQL backend.
package storetest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/example/attendance-tracker/internal/calendar"
	"github.com/example/attendance-tracker/internal/persistence"
	"github.com/example/attendance-tracker/internal/persistence/sqlstore"
)

// RepositorySuite exercises sqlstore repositories against a live database.
// NewStore must return a freshly migrated, empty store for each test.
type RepositorySuite struct {
	suite.Suite

	NewStore func() *sqlstore.Store

	ctx        context.Context
	store      *sqlstore.Store
	employees  *sqlstore.EmployeeRepository
	attendance *sqlstore.AttendanceRepository
	seq        int
}

// SetupTest opens a store for the next test.
func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.seq = 0
	s.store = s.NewStore()
	s.employees = s.store.Employees()
	s.attendance = s.store.Attendance()
}

// TearDownTest closes the store.
func (s *RepositorySuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// Migrate applies the dialect schema to store using a discarding logger.
func Migrate(ctx context.Context, store *sqlstore.Store) error {
	return store.Migrate(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *RepositorySuite) createEmployee(employeeID string) persistence.Employee {
	s.seq++
	employee, err := s.employees.CreateEmployee(s.ctx, persistence.Employee{
		EmployeeID: employeeID,
		FullName:   fmt.Sprintf("Employee %d", s.seq),
		Email:      fmt.Sprintf("employee%d@example.com", s.seq),
		Department: "Engineering",
		CreatedAt:  time.Date(2024, time.January, 1, 9, 0, s.seq, 0, time.UTC),
	})
	s.Require().NoError(err)
	return employee
}

func (s *RepositorySuite) mark(employeeID, date string, present bool) persistence.AttendanceRecord {
	record, err := s.attendance.CreateAttendance(s.ctx, persistence.AttendanceRecord{
		EmployeeID: employeeID,
		Date:       calendar.MustParse(date),
		IsPresent:  present,
	})
	s.Require().NoError(err)
	return record
}

func (s *RepositorySuite) TestEmployeeLifecycle() {
	created := s.createEmployee("E001")
	s.NotZero(created.ID)

	got, err := s.employees.GetEmployee(s.ctx, "E001")
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal(created.FullName, got.FullName)
	s.Equal(created.Email, got.Email)
	s.Equal("Engineering", got.Department)
	s.True(created.CreatedAt.Equal(got.CreatedAt))

	_, err = s.employees.GetEmployee(s.ctx, "missing")
	s.ErrorIs(err, persistence.ErrNotFound)
}

func (s *RepositorySuite) TestEmployeeIDIsUnique() {
	s.createEmployee("E001")

	_, err := s.employees.CreateEmployee(s.ctx, persistence.Employee{
		EmployeeID: "E001",
		FullName:   "Someone Else",
		Email:      "else@example.com",
		Department: "Sales",
	})
	s.ErrorIs(err, persistence.ErrDuplicate)

	list, err := s.employees.ListEmployees(s.ctx)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *RepositorySuite) TestListEmployeesInInsertionOrder() {
	list, err := s.employees.ListEmployees(s.ctx)
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)

	for _, id := range []string{"E003", "E001", "E002"} {
		s.createEmployee(id)
	}

	list, err = s.employees.ListEmployees(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("E003", list[0].EmployeeID)
	s.Equal("E001", list[1].EmployeeID)
	s.Equal("E002", list[2].EmployeeID)
}

func (s *RepositorySuite) TestDeleteEmployeeCascades() {
	s.createEmployee("E001")
	s.createEmployee("E002")
	s.mark("E001", "2024-01-01", true)
	s.mark("E001", "2024-01-02", false)
	s.mark("E002", "2024-01-01", true)

	s.Require().NoError(s.employees.DeleteEmployee(s.ctx, "E001"))

	_, err := s.employees.GetEmployee(s.ctx, "E001")
	s.ErrorIs(err, persistence.ErrNotFound)

	remaining, err := s.attendance.ListAttendance(s.ctx, persistence.AttendanceFilter{})
	s.Require().NoError(err)
	s.Require().Len(remaining, 1)
	s.Equal("E002", remaining[0].EmployeeID)

	orphans, err := s.attendance.ListAttendance(s.ctx, persistence.AttendanceFilter{EmployeeID: "E001"})
	s.Require().NoError(err)
	s.Empty(orphans)

	s.ErrorIs(s.employees.DeleteEmployee(s.ctx, "E001"), persistence.ErrNotFound)
}

func (s *RepositorySuite) TestCreateAttendanceConstraints() {
	s.createEmployee("E001")

	record := s.mark("E001", "2024-01-01", true)
	s.NotZero(record.ID)
	s.False(record.CreatedAt.IsZero())

	_, err := s.attendance.CreateAttendance(s.ctx, persistence.AttendanceRecord{
		EmployeeID: "E001",
		Date:       calendar.MustParse("2024-01-01"),
		IsPresent:  false,
	})
	s.ErrorIs(err, persistence.ErrDuplicate)

	_, err = s.attendance.CreateAttendance(s.ctx, persistence.AttendanceRecord{
		EmployeeID: "ghost",
		Date:       calendar.MustParse("2024-01-01"),
		IsPresent:  true,
	})
	s.ErrorIs(err, persistence.ErrForeignKeyViolation)

	all, err := s.attendance.ListAttendance(s.ctx, persistence.AttendanceFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.True(all[0].IsPresent, "rejected writes leave the original record untouched")
}

func (s *RepositorySuite) TestConcurrentMarksKeepOneRecordPerDay() {
	s.createEmployee("E001")

	const writers = 16
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.attendance.CreateAttendance(s.ctx, persistence.AttendanceRecord{
				EmployeeID: "E001",
				Date:       calendar.MustParse("2024-03-01"),
				IsPresent:  i%2 == 0,
			})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		s.ErrorIs(err, persistence.ErrDuplicate)
	}
	s.Equal(1, created)

	summary, err := s.attendance.SummarizeAttendance(s.ctx, "E001")
	s.Require().NoError(err)
	s.Equal(1, summary.PresentDays+summary.AbsentDays)
}

func (s *RepositorySuite) TestListAttendanceFilters() {
	s.createEmployee("E001")
	s.createEmployee("E002")
	s.mark("E001", "2024-01-02", true)
	s.mark("E002", "2024-01-01", false)
	s.mark("E001", "2024-01-01", true)
	s.mark("E002", "2024-01-02", true)

	all, err := s.attendance.ListAttendance(s.ctx, persistence.AttendanceFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		s.False(cur.Date.Before(prev.Date), "ordered by date")
		if cur.Date == prev.Date {
			s.Less(prev.ID, cur.ID, "ties ordered by id")
		}
	}

	byEmployee, err := s.attendance.ListAttendance(s.ctx, persistence.AttendanceFilter{EmployeeID: "E001"})
	s.Require().NoError(err)
	s.Len(byEmployee, 2)

	byDate, err := s.attendance.ListAttendance(s.ctx, persistence.AttendanceFilter{Date: calendar.MustParse("2024-01-01")})
	s.Require().NoError(err)
	s.Len(byDate, 2)

	both, err := s.attendance.ListAttendance(s.ctx, persistence.AttendanceFilter{
		EmployeeID: "E002",
		Date:       calendar.MustParse("2024-01-01"),
	})
	s.Require().NoError(err)
	s.Require().Len(both, 1)
	s.False(both[0].IsPresent)

	unknown, err := s.attendance.ListAttendance(s.ctx, persistence.AttendanceFilter{EmployeeID: "nobody"})
	s.Require().NoError(err)
	s.NotNil(unknown)
	s.Empty(unknown)
}

func (s *RepositorySuite) TestListEmployeeAttendanceRange() {
	s.createEmployee("E001")
	s.createEmployee("E002")
	for _, d := range []string{"2024-01-01", "2024-01-05", "2024-01-10", "2024-01-15"} {
		s.mark("E001", d, true)
	}
	s.mark("E002", "2024-01-05", true)

	dates := func(records []persistence.AttendanceRecord) []string {
		out := make([]string, 0, len(records))
		for _, r := range records {
			out = append(out, r.Date.String())
		}
		return out
	}

	tests := []struct {
		name  string
		rng   persistence.DateRange
		wants []string
	}{
		{name: "unbounded", wants: []string{"2024-01-01", "2024-01-05", "2024-01-10", "2024-01-15"}},
		{name: "inclusive both ends", rng: persistence.DateRange{Start: calendar.MustParse("2024-01-05"), End: calendar.MustParse("2024-01-10")}, wants: []string{"2024-01-05", "2024-01-10"}},
		{name: "start only", rng: persistence.DateRange{Start: calendar.MustParse("2024-01-10")}, wants: []string{"2024-01-10", "2024-01-15"}},
		{name: "end only", rng: persistence.DateRange{End: calendar.MustParse("2024-01-01")}, wants: []string{"2024-01-01"}},
		{name: "single day", rng: persistence.DateRange{Start: calendar.MustParse("2024-01-15"), End: calendar.MustParse("2024-01-15")}, wants: []string{"2024-01-15"}},
		{name: "empty window", rng: persistence.DateRange{Start: calendar.MustParse("2024-01-02"), End: calendar.MustParse("2024-01-04")}, wants: []string{}},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			records, err := s.attendance.ListEmployeeAttendance(s.ctx, "E001", tc.rng)
			s.Require().NoError(err)
			s.Equal(tc.wants, dates(records))
		})
	}

	_, err := s.attendance.ListEmployeeAttendance(s.ctx, "nobody", persistence.DateRange{})
	s.ErrorIs(err, persistence.ErrNotFound)
}

func (s *RepositorySuite) TestSummarizeAttendance() {
	s.createEmployee("E001")
	s.createEmployee("E002")

	summary, err := s.attendance.SummarizeAttendance(s.ctx, "E002")
	s.Require().NoError(err)
	s.Equal(persistence.AttendanceSummary{}, summary)

	s.mark("E001", "2024-01-01", true)
	s.mark("E001", "2024-01-02", true)
	s.mark("E001", "2024-01-03", false)
	s.mark("E002", "2024-01-01", false)

	summary, err = s.attendance.SummarizeAttendance(s.ctx, "E001")
	s.Require().NoError(err)
	s.Equal(persistence.AttendanceSummary{PresentDays: 2, AbsentDays: 1}, summary)

	records, err := s.attendance.ListAttendance(s.ctx, persistence.AttendanceFilter{EmployeeID: "E001"})
	s.Require().NoError(err)
	s.Equal(len(records), summary.PresentDays+summary.AbsentDays)

	_, err = s.attendance.SummarizeAttendance(s.ctx, "nobody")
	s.ErrorIs(err, persistence.ErrNotFound)
}
