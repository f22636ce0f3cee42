package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/attendance-tracker/internal/persistence"
)

// EmployeeRepository captures the persistence operations needed by the employee service.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) (Employee, error)
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, employeeID string) error
}

// EmployeeService orchestrates validation and persistence for the employee registry.
type EmployeeService struct {
	employees EmployeeRepository
	now       func() time.Time
	logger    *slog.Logger
	metrics   Metrics
}

// NewEmployeeService constructs an employee service with the provided dependencies.
func NewEmployeeService(employees EmployeeRepository, now func() time.Time) *EmployeeService {
	return NewEmployeeServiceWithLogger(employees, now, nil)
}

// NewEmployeeServiceWithLogger constructs an employee service with a specified logger.
func NewEmployeeServiceWithLogger(employees EmployeeRepository, now func() time.Time, logger *slog.Logger) *EmployeeService {
	if now == nil {
		now = time.Now
	}
	return &EmployeeService{employees: employees, now: now, logger: defaultLogger(logger), metrics: noopMetrics{}}
}

// WithMetrics attaches a metrics sink and returns the service.
func (s *EmployeeService) WithMetrics(m Metrics) *EmployeeService {
	s.metrics = defaultMetrics(m)
	return s
}

func (s *EmployeeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EmployeeService", operation, attrs...)
}

func (s *EmployeeService) fail(ctx context.Context, logger *slog.Logger, operation, msg string, err error) {
	kind := ErrorKind(err)
	s.metrics.OperationFailed(operation, kind)
	if kind == KindUnexpected {
		logger.ErrorContext(ctx, msg, "error", err, "error_kind", kind)
		return
	}
	logger.WarnContext(ctx, msg, "error", err, "error_kind", kind)
}

// CreateEmployee validates input and registers a new employee.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeInput) (employee Employee, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}

	normalized := normalizeEmployeeInput(input)
	logger := s.loggerWith(ctx, "CreateEmployee", "employee_id", normalized.EmployeeID)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "CreateEmployee", "failed to create employee", err)
			return
		}
		s.metrics.EmployeeCreated()
		logger.With("id", employee.ID).InfoContext(ctx, "employee created")
	}()

	if vErr := validateEmployeeInput(normalized); vErr.HasErrors() {
		err = vErr
		return
	}
	if s.employees == nil {
		err = fmt.Errorf("employee repository not configured")
		return
	}

	employee, err = s.employees.CreateEmployee(ctx, Employee{
		EmployeeID: normalized.EmployeeID,
		FullName:   normalized.FullName,
		Email:      normalized.Email,
		Department: normalized.Department,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		employee = Employee{}
		err = mapEmployeeRepoError(err)
		return
	}
	return
}

// GetEmployee returns the employee registered under employeeID.
func (s *EmployeeService) GetEmployee(ctx context.Context, employeeID string) (employee Employee, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}
	if s.employees == nil {
		err = fmt.Errorf("employee repository not configured")
		return
	}

	employeeID = strings.TrimSpace(employeeID)
	logger := s.loggerWith(ctx, "GetEmployee", "employee_id", employeeID)
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			s.fail(ctx, logger, "GetEmployee", "failed to get employee", err)
		}
	}()

	if employeeID == "" {
		err = ErrNotFound
		return
	}

	employee, err = s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		employee = Employee{}
		err = mapEmployeeRepoError(err)
	}
	return
}

// ListEmployees returns every employee in registration order.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]Employee, error) {
	if s == nil {
		return nil, fmt.Errorf("EmployeeService is nil")
	}
	if s.employees == nil {
		return []Employee{}, nil
	}

	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		s.fail(ctx, s.loggerWith(ctx, "ListEmployees"), "ListEmployees", "failed to list employees", err)
		return nil, err
	}

	out := make([]Employee, len(employees))
	copy(out, employees)
	return out, nil
}

// DeleteEmployee removes the employee and every attendance record that references it.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, employeeID string) (err error) {
	if s == nil {
		return fmt.Errorf("EmployeeService is nil")
	}
	if s.employees == nil {
		return fmt.Errorf("employee repository not configured")
	}

	employeeID = strings.TrimSpace(employeeID)
	logger := s.loggerWith(ctx, "DeleteEmployee", "employee_id", employeeID)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "DeleteEmployee", "failed to delete employee", err)
			return
		}
		s.metrics.EmployeeDeleted()
		logger.InfoContext(ctx, "employee deleted")
	}()

	if employeeID == "" {
		return ErrNotFound
	}

	if err = s.employees.DeleteEmployee(ctx, employeeID); err != nil {
		return mapEmployeeRepoError(err)
	}
	return nil
}

func normalizeEmployeeInput(input EmployeeInput) EmployeeInput {
	return EmployeeInput{
		EmployeeID: strings.TrimSpace(input.EmployeeID),
		FullName:   strings.TrimSpace(input.FullName),
		Email:      strings.TrimSpace(input.Email),
		Department: strings.TrimSpace(input.Department),
	}
}

func validateEmployeeInput(input EmployeeInput) *ValidationError {
	vErr := &ValidationError{}

	if input.EmployeeID == "" {
		vErr.add("employee_id", "employee_id is required")
	}
	if input.FullName == "" {
		vErr.add("full_name", "full_name is required")
	}
	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if !validEmail(input.Email) {
		vErr.add("email", "email is invalid")
	}
	if input.Department == "" {
		vErr.add("department", "department is required")
	}

	return vErr
}

// validEmail accepts a bare addr-spec only; display-name forms are rejected.
func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	at := strings.LastIndex(value, "@")
	return at > 0 && strings.Contains(value[at+1:], ".")
}

func mapEmployeeRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, persistence.ErrDuplicate):
		return ErrDuplicateKey
	case errors.Is(err, persistence.ErrConstraintViolation):
		return invalidField("employee", "employee violates a store constraint")
	default:
		return err
	}
}
