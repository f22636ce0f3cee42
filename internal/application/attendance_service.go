package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/attendance-tracker/internal/calendar"
	"github.com/example/attendance-tracker/internal/persistence"
)

// AttendanceRepository captures the persistence interactions needed by the attendance service.
type AttendanceRepository interface {
	CreateAttendance(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, error)
	ListEmployeeAttendance(ctx context.Context, employeeID string, start, end calendar.Date) ([]AttendanceRecord, error)
	SummarizeAttendance(ctx context.Context, employeeID string) (AttendanceSummary, error)
}

// EmployeeDirectory resolves employee identifiers.
type EmployeeDirectory interface {
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
}

// AttendanceService records attendance and answers queries and summaries over it.
type AttendanceService struct {
	records   AttendanceRepository
	directory EmployeeDirectory
	now       func() time.Time
	logger    *slog.Logger
	metrics   Metrics
}

// NewAttendanceService constructs an attendance service with the provided dependencies.
func NewAttendanceService(records AttendanceRepository, directory EmployeeDirectory, now func() time.Time) *AttendanceService {
	return NewAttendanceServiceWithLogger(records, directory, now, nil)
}

// NewAttendanceServiceWithLogger constructs an attendance service with a specified logger.
func NewAttendanceServiceWithLogger(records AttendanceRepository, directory EmployeeDirectory, now func() time.Time, logger *slog.Logger) *AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &AttendanceService{
		records:   records,
		directory: directory,
		now:       now,
		logger:    defaultLogger(logger),
		metrics:   noopMetrics{},
	}
}

// WithMetrics attaches a metrics sink and returns the service.
func (s *AttendanceService) WithMetrics(m Metrics) *AttendanceService {
	s.metrics = defaultMetrics(m)
	return s
}

func (s *AttendanceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AttendanceService", operation, attrs...)
}

func (s *AttendanceService) fail(ctx context.Context, logger *slog.Logger, operation, msg string, err error) {
	kind := ErrorKind(err)
	s.metrics.OperationFailed(operation, kind)
	if kind == KindUnexpected {
		logger.ErrorContext(ctx, msg, "error", err, "error_kind", kind)
		return
	}
	logger.WarnContext(ctx, msg, "error", err, "error_kind", kind)
}

// MarkAttendance records whether an employee was present on a day.
//
// Failures are reported in a fixed order: ErrNotFound when the employee is
// unknown, then a ValidationError for a missing or malformed date or a missing
// presence flag, then ErrDuplicateRecord when the day is already marked.
func (s *AttendanceService) MarkAttendance(ctx context.Context, input MarkAttendanceInput) (record AttendanceRecord, err error) {
	if s == nil {
		err = fmt.Errorf("AttendanceService is nil")
		return
	}
	if s.records == nil {
		err = fmt.Errorf("attendance repository not configured")
		return
	}

	employeeID := strings.TrimSpace(input.EmployeeID)
	logger := s.loggerWith(ctx, "MarkAttendance",
		"employee_id", employeeID,
		"date", input.Date,
	)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "MarkAttendance", "failed to mark attendance", err)
			return
		}
		s.metrics.AttendanceMarked(record.IsPresent)
		logger.With("id", record.ID, "is_present", record.IsPresent).InfoContext(ctx, "attendance marked")
	}()

	vErr := &ValidationError{}
	if employeeID == "" {
		vErr.add("employee_id", "employee_id is required")
	}
	date := parseRequiredDate(vErr, "date", input.Date)
	if input.IsPresent == nil {
		vErr.add("is_present", "is_present is required")
	}

	if vErr.HasErrors() {
		if employeeID != "" {
			if err = s.requireEmployee(ctx, employeeID); err != nil {
				return
			}
		}
		err = vErr
		return
	}

	record, err = s.records.CreateAttendance(ctx, AttendanceRecord{
		EmployeeID: employeeID,
		Date:       date,
		IsPresent:  *input.IsPresent,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		record = AttendanceRecord{}
		err = mapAttendanceRepoError(err)
		return
	}
	return
}

// ListAttendance returns records matching every supplied filter, ordered by date then id.
// An unknown employee filter yields an empty list.
func (s *AttendanceService) ListAttendance(ctx context.Context, query AttendanceQuery) (records []AttendanceRecord, err error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	if s.records == nil {
		return []AttendanceRecord{}, nil
	}

	logger := s.loggerWith(ctx, "ListAttendance")
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "ListAttendance", "failed to list attendance", err)
		}
	}()

	vErr := &ValidationError{}
	filter := AttendanceFilter{
		EmployeeID: strings.TrimSpace(query.EmployeeID),
		Date:       parseOptionalDate(vErr, "date", query.Date),
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	records, err = s.records.ListAttendance(ctx, filter)
	if err != nil {
		return nil, mapAttendanceRepoError(err)
	}
	return nonNilRecords(records), nil
}

// ListEmployeeAttendance returns one employee's records within inclusive, optional bounds.
func (s *AttendanceService) ListEmployeeAttendance(ctx context.Context, query EmployeeAttendanceQuery) (records []AttendanceRecord, err error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	if s.records == nil {
		return nil, fmt.Errorf("attendance repository not configured")
	}

	employeeID := strings.TrimSpace(query.EmployeeID)
	logger := s.loggerWith(ctx, "ListEmployeeAttendance",
		"employee_id", employeeID,
		"start_date", query.StartDate,
		"end_date", query.EndDate,
	)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "ListEmployeeAttendance", "failed to list employee attendance", err)
		}
	}()

	if employeeID == "" {
		return nil, ErrNotFound
	}

	vErr := &ValidationError{}
	start := parseOptionalDate(vErr, "start_date", query.StartDate)
	end := parseOptionalDate(vErr, "end_date", query.EndDate)
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		vErr.add("start_date", "start_date must not be after end_date")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	records, err = s.records.ListEmployeeAttendance(ctx, employeeID, start, end)
	if err != nil {
		return nil, mapAttendanceRepoError(err)
	}
	return nonNilRecords(records), nil
}

// SummarizeAttendance counts present and absent days across the employee's whole history.
func (s *AttendanceService) SummarizeAttendance(ctx context.Context, employeeID string) (summary AttendanceSummary, err error) {
	if s == nil {
		err = fmt.Errorf("AttendanceService is nil")
		return
	}
	if s.records == nil {
		err = fmt.Errorf("attendance repository not configured")
		return
	}

	employeeID = strings.TrimSpace(employeeID)
	logger := s.loggerWith(ctx, "SummarizeAttendance", "employee_id", employeeID)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "SummarizeAttendance", "failed to summarize attendance", err)
		}
	}()

	if employeeID == "" {
		err = ErrNotFound
		return
	}

	summary, err = s.records.SummarizeAttendance(ctx, employeeID)
	if err != nil {
		summary = AttendanceSummary{}
		err = mapAttendanceRepoError(err)
		return
	}
	summary.EmployeeID = employeeID
	return
}

// requireEmployee returns ErrNotFound when the directory does not know employeeID.
// Without a directory the check is skipped.
func (s *AttendanceService) requireEmployee(ctx context.Context, employeeID string) error {
	if s.directory == nil {
		return nil
	}
	exists, err := s.directory.EmployeeExists(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("resolve employee: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func parseRequiredDate(vErr *ValidationError, field, value string) calendar.Date {
	value = strings.TrimSpace(value)
	if value == "" {
		vErr.add(field, field+" is required")
		return calendar.Date{}
	}
	return parseOptionalDate(vErr, field, value)
}

func parseOptionalDate(vErr *ValidationError, field, value string) calendar.Date {
	value = strings.TrimSpace(value)
	if value == "" {
		return calendar.Date{}
	}
	d, err := calendar.Parse(value)
	if err != nil {
		vErr.add(field, field+" must be a valid date in YYYY-MM-DD format")
		return calendar.Date{}
	}
	return d
}

func nonNilRecords(records []AttendanceRecord) []AttendanceRecord {
	if records == nil {
		return []AttendanceRecord{}
	}
	return records
}

func mapAttendanceRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound),
		errors.Is(err, persistence.ErrForeignKeyViolation):
		return ErrNotFound
	case errors.Is(err, ErrDuplicateRecord), errors.Is(err, persistence.ErrDuplicate):
		return ErrDuplicateRecord
	case errors.Is(err, persistence.ErrConstraintViolation):
		return invalidField("date", "date must be a valid date in YYYY-MM-DD format")
	default:
		return err
	}
}
