package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/attendance-tracker/internal/calendar"
	"github.com/example/attendance-tracker/internal/persistence"
)

func TestAttendanceService_MarkAttendance(t *testing.T) {
	ctx := context.Background()
	known := directoryStub{"E1": true}

	t.Run("stores the parsed record", func(t *testing.T) {
		repo := &attendanceRepoStub{}
		metrics := &metricsRecorder{}
		svc := NewAttendanceService(repo, known, fixedClock).WithMetrics(metrics)

		record, err := svc.MarkAttendance(ctx, MarkAttendanceInput{EmployeeID: "E1", Date: "2024-03-01", IsPresent: boolPtr(false)})
		require.NoError(t, err)

		assert.Equal(t, int64(1), record.ID)
		assert.Equal(t, calendar.MustParse("2024-03-01"), repo.created.Date)
		assert.False(t, repo.created.IsPresent)
		assert.Equal(t, fixedNow, repo.created.CreatedAt)
		assert.Equal(t, 1, metrics.absent)
	})

	tests := []struct {
		name      string
		input     MarkAttendanceInput
		createErr error
		wantErr   error
		wantField string
	}{
		{
			name:    "unknown employee wins over invalid date",
			input:   MarkAttendanceInput{EmployeeID: "ghost", Date: "2024-02-30", IsPresent: boolPtr(true)},
			wantErr: ErrNotFound,
		},
		{
			name:    "unknown employee wins over missing flag",
			input:   MarkAttendanceInput{EmployeeID: "ghost", Date: "2024-03-01"},
			wantErr: ErrNotFound,
		},
		{
			name:      "unknown employee on a valid request via foreign key",
			input:     MarkAttendanceInput{EmployeeID: "ghost", Date: "2024-03-01", IsPresent: boolPtr(true)},
			createErr: fmt.Errorf("insert: %w", persistence.ErrForeignKeyViolation),
			wantErr:   ErrNotFound,
		},
		{
			name:      "missing date",
			input:     MarkAttendanceInput{EmployeeID: "E1", IsPresent: boolPtr(true)},
			wantField: "date",
		},
		{
			name:      "malformed date",
			input:     MarkAttendanceInput{EmployeeID: "E1", Date: "03/01/2024", IsPresent: boolPtr(true)},
			wantField: "date",
		},
		{
			name:      "missing presence flag",
			input:     MarkAttendanceInput{EmployeeID: "E1", Date: "2024-03-01"},
			wantField: "is_present",
		},
		{
			name:      "missing employee id",
			input:     MarkAttendanceInput{Date: "2024-03-01", IsPresent: boolPtr(true)},
			wantField: "employee_id",
		},
		{
			name:      "duplicate day",
			input:     MarkAttendanceInput{EmployeeID: "E1", Date: "2024-03-01", IsPresent: boolPtr(true)},
			createErr: fmt.Errorf("insert: %w", persistence.ErrDuplicate),
			wantErr:   ErrDuplicateRecord,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &attendanceRepoStub{createErr: tc.createErr}
			svc := NewAttendanceService(repo, known, fixedClock)

			_, err := svc.MarkAttendance(ctx, tc.input)
			require.Error(t, err)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.FieldErrors, tc.wantField)
			assert.Zero(t, repo.calls, "invalid requests never reach the store")
		})
	}
}

func TestAttendanceService_ListAttendance(t *testing.T) {
	ctx := context.Background()

	repo := &attendanceRepoStub{}
	svc := NewAttendanceService(repo, nil, fixedClock)

	records, err := svc.ListAttendance(ctx, AttendanceQuery{EmployeeID: " E1 ", Date: "2024-03-01"})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Equal(t, AttendanceFilter{EmployeeID: "E1", Date: calendar.MustParse("2024-03-01")}, repo.listFilter)

	_, err = svc.ListAttendance(ctx, AttendanceQuery{})
	require.NoError(t, err)
	assert.Equal(t, AttendanceFilter{}, repo.listFilter)

	_, err = svc.ListAttendance(ctx, AttendanceQuery{Date: "yesterday"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "date")
}

func TestAttendanceService_ListEmployeeAttendance(t *testing.T) {
	ctx := context.Background()

	t.Run("passes inclusive bounds", func(t *testing.T) {
		repo := &attendanceRepoStub{}
		svc := NewAttendanceService(repo, nil, fixedClock)

		_, err := svc.ListEmployeeAttendance(ctx, EmployeeAttendanceQuery{EmployeeID: "E1", StartDate: "2024-01-01", EndDate: "2024-01-31"})
		require.NoError(t, err)
		assert.Equal(t, "E1", repo.rangeEmployee)
		assert.Equal(t, calendar.MustParse("2024-01-01"), repo.rangeStart)
		assert.Equal(t, calendar.MustParse("2024-01-31"), repo.rangeEnd)
	})

	t.Run("open bounds", func(t *testing.T) {
		repo := &attendanceRepoStub{}
		svc := NewAttendanceService(repo, nil, fixedClock)

		_, err := svc.ListEmployeeAttendance(ctx, EmployeeAttendanceQuery{EmployeeID: "E1", EndDate: "2024-01-31"})
		require.NoError(t, err)
		assert.True(t, repo.rangeStart.IsZero())
	})

	t.Run("inverted range", func(t *testing.T) {
		svc := NewAttendanceService(&attendanceRepoStub{}, nil, fixedClock)
		_, err := svc.ListEmployeeAttendance(ctx, EmployeeAttendanceQuery{EmployeeID: "E1", StartDate: "2024-02-01", EndDate: "2024-01-01"})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "start_date")
	})

	t.Run("malformed bound", func(t *testing.T) {
		svc := NewAttendanceService(&attendanceRepoStub{}, nil, fixedClock)
		_, err := svc.ListEmployeeAttendance(ctx, EmployeeAttendanceQuery{EmployeeID: "E1", EndDate: "2024-13-01"})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "end_date")
	})

	t.Run("unknown employee", func(t *testing.T) {
		svc := NewAttendanceService(&attendanceRepoStub{listErr: fmt.Errorf("tx: %w", persistence.ErrNotFound)}, nil, fixedClock)
		_, err := svc.ListEmployeeAttendance(ctx, EmployeeAttendanceQuery{EmployeeID: "ghost"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAttendanceService_SummarizeAttendance(t *testing.T) {
	ctx := context.Background()

	svc := NewAttendanceService(&attendanceRepoStub{summary: AttendanceSummary{PresentDays: 3, AbsentDays: 2}}, nil, fixedClock)
	summary, err := svc.SummarizeAttendance(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, AttendanceSummary{EmployeeID: "E1", PresentDays: 3, AbsentDays: 2}, summary)

	svc = NewAttendanceService(&attendanceRepoStub{summaryErr: persistence.ErrNotFound}, nil, fixedClock)
	_, err = svc.SummarizeAttendance(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("boom")
	svc = NewAttendanceService(&attendanceRepoStub{summaryErr: boom}, nil, fixedClock)
	_, err = svc.SummarizeAttendance(ctx, "E1")
	assert.ErrorIs(t, err, boom)
}
