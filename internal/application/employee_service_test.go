package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/attendance-tracker/internal/persistence"
)

var fixedNow = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func validEmployeeInput() EmployeeInput {
	return EmployeeInput{
		EmployeeID: "E1",
		FullName:   "Jane Doe",
		Email:      "jane@example.com",
		Department: "Engineering",
	}
}

func TestEmployeeService_CreateEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and persists", func(t *testing.T) {
		repo := &employeeRepoStub{}
		metrics := &metricsRecorder{}
		svc := NewEmployeeService(repo, fixedClock).WithMetrics(metrics)

		input := validEmployeeInput()
		input.EmployeeID = "  E1 "
		input.FullName = " Jane Doe "

		employee, err := svc.CreateEmployee(ctx, input)
		require.NoError(t, err)

		assert.Equal(t, int64(42), employee.ID)
		assert.Equal(t, "E1", repo.created.EmployeeID)
		assert.Equal(t, "Jane Doe", repo.created.FullName)
		assert.Equal(t, fixedNow, repo.created.CreatedAt)
		assert.Equal(t, 1, metrics.created)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		repo := &employeeRepoStub{}
		svc := NewEmployeeService(repo, fixedClock)

		_, err := svc.CreateEmployee(ctx, EmployeeInput{Email: "not-an-email"})

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "employee_id")
		assert.Contains(t, vErr.FieldErrors, "full_name")
		assert.Contains(t, vErr.FieldErrors, "department")
		assert.Equal(t, "email is invalid", vErr.FieldErrors["email"])
		assert.Empty(t, repo.created.EmployeeID, "repository must not be called")
	})

	t.Run("rejects malformed emails", func(t *testing.T) {
		svc := NewEmployeeService(&employeeRepoStub{}, fixedClock)
		for _, email := range []string{"jane", "jane@", "@example.com", "Jane <jane@example.com>", "jane@localhost"} {
			input := validEmployeeInput()
			input.Email = email
			_, err := svc.CreateEmployee(ctx, input)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr, email)
			assert.Contains(t, vErr.FieldErrors, "email", email)
		}
	})

	t.Run("maps duplicate identifier", func(t *testing.T) {
		metrics := &metricsRecorder{}
		repo := &employeeRepoStub{createErr: fmt.Errorf("insert: %w", persistence.ErrDuplicate)}
		svc := NewEmployeeService(repo, fixedClock).WithMetrics(metrics)

		_, err := svc.CreateEmployee(ctx, validEmployeeInput())
		assert.ErrorIs(t, err, ErrDuplicateKey)
		assert.Equal(t, 1, metrics.failures["CreateEmployee/duplicate_key"])
		assert.Zero(t, metrics.created)
	})

	t.Run("passes unexpected errors through", func(t *testing.T) {
		boom := errors.New("disk full")
		svc := NewEmployeeService(&employeeRepoStub{createErr: boom}, fixedClock)

		_, err := svc.CreateEmployee(ctx, validEmployeeInput())
		assert.ErrorIs(t, err, boom)
	})
}

func TestEmployeeService_GetEmployee(t *testing.T) {
	ctx := context.Background()
	stored := Employee{ID: 1, EmployeeID: "E1", FullName: "Jane Doe"}
	svc := NewEmployeeService(&employeeRepoStub{get: stored}, fixedClock)

	got, err := svc.GetEmployee(ctx, " E1 ")
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	_, err = svc.GetEmployee(ctx, "E2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetEmployee(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	svc = NewEmployeeService(&employeeRepoStub{getErr: persistence.ErrNotFound}, fixedClock)
	_, err = svc.GetEmployee(ctx, "E1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmployeeService_ListEmployees(t *testing.T) {
	ctx := context.Background()

	svc := NewEmployeeService(&employeeRepoStub{}, fixedClock)
	list, err := svc.ListEmployees(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	repo := &employeeRepoStub{list: []Employee{{ID: 2, EmployeeID: "B"}, {ID: 1, EmployeeID: "A"}}}
	list, err = NewEmployeeService(repo, fixedClock).ListEmployees(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, []string{list[0].EmployeeID, list[1].EmployeeID}, "repository order is kept")

	boom := errors.New("boom")
	_, err = NewEmployeeService(&employeeRepoStub{listErr: boom}, fixedClock).ListEmployees(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestEmployeeService_DeleteEmployee(t *testing.T) {
	ctx := context.Background()

	metrics := &metricsRecorder{}
	repo := &employeeRepoStub{}
	svc := NewEmployeeService(repo, fixedClock).WithMetrics(metrics)
	require.NoError(t, svc.DeleteEmployee(ctx, "E1"))
	assert.Equal(t, "E1", repo.deletedID)
	assert.Equal(t, 1, metrics.deleted)

	svc = NewEmployeeService(&employeeRepoStub{deleteErr: persistence.ErrNotFound}, fixedClock)
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, "E1"), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, "  "), ErrNotFound)
}

func TestEmployeeService_NilReceiver(t *testing.T) {
	var svc *EmployeeService
	_, err := svc.CreateEmployee(context.Background(), validEmployeeInput())
	assert.Error(t, err)
}
