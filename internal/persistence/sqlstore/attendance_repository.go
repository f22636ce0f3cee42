package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/attendance-tracker/internal/persistence"
)

// AttendanceRepository implements persistence.AttendanceRepository.
type AttendanceRepository struct {
	store *Store
}

var _ persistence.AttendanceRepository = (*AttendanceRepository)(nil)

const attendanceColumns = `id, employee_id, attendance_date, is_present, created_at`

// CreateAttendance inserts a record. A missing employee maps to
// persistence.ErrForeignKeyViolation and a second record for the same day to
// persistence.ErrDuplicate.
func (r *AttendanceRepository) CreateAttendance(ctx context.Context, record persistence.AttendanceRecord) (persistence.AttendanceRecord, error) {
	if record.EmployeeID == "" || record.Date.IsZero() {
		return persistence.AttendanceRecord{}, persistence.ErrConstraintViolation
	}

	record.CreatedAt = r.store.createdAt(record.CreatedAt)

	query := r.store.q(`
		INSERT INTO attendance_records (employee_id, attendance_date, is_present, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`)

	err := r.store.db.QueryRowContext(ctx, query,
		record.EmployeeID,
		record.Date,
		record.IsPresent,
		formatTimestamp(record.CreatedAt),
	).Scan(&record.ID)
	if err != nil {
		return persistence.AttendanceRecord{}, fmt.Errorf("insert attendance for %q on %s: %w",
			record.EmployeeID, record.Date, r.store.dialect.MapError(err))
	}

	return record, nil
}

// ListAttendance returns records matching every non-zero field of filter,
// ordered by date then id.
func (r *AttendanceRepository) ListAttendance(ctx context.Context, filter persistence.AttendanceFilter) ([]persistence.AttendanceRecord, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.EmployeeID != "" {
		conditions = append(conditions, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if !filter.Date.IsZero() {
		conditions = append(conditions, "attendance_date = ?")
		args = append(args, filter.Date)
	}

	records, err := r.query(ctx, r.store.db, conditions, args)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// ListEmployeeAttendance returns one employee's records within dates, bounds inclusive.
func (r *AttendanceRepository) ListEmployeeAttendance(ctx context.Context, employeeID string, dates persistence.DateRange) ([]persistence.AttendanceRecord, error) {
	conditions := []string{"employee_id = ?"}
	args := []any{employeeID}
	if !dates.Start.IsZero() {
		conditions = append(conditions, "attendance_date >= ?")
		args = append(args, dates.Start)
	}
	if !dates.End.IsZero() {
		conditions = append(conditions, "attendance_date <= ?")
		args = append(args, dates.End)
	}

	var records []persistence.AttendanceRecord
	err := r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		exists, err := r.store.employeeExists(ctx, tx, employeeID)
		if err != nil {
			return err
		}
		if !exists {
			return persistence.ErrNotFound
		}

		records, err = r.query(ctx, tx, conditions, args)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list attendance for %q: %w", employeeID, err)
	}
	return records, nil
}

// SummarizeAttendance counts present and absent days over the employee's full history.
func (r *AttendanceRepository) SummarizeAttendance(ctx context.Context, employeeID string) (persistence.AttendanceSummary, error) {
	query := r.store.q(`
		SELECT
			COALESCE(SUM(CASE WHEN is_present THEN 1 ELSE 0 END), 0),
			COUNT(*)
		FROM attendance_records
		WHERE employee_id = ?`)

	var summary persistence.AttendanceSummary
	err := r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		exists, err := r.store.employeeExists(ctx, tx, employeeID)
		if err != nil {
			return err
		}
		if !exists {
			return persistence.ErrNotFound
		}

		var present, total int64
		if err := tx.QueryRowContext(ctx, query, employeeID).Scan(&present, &total); err != nil {
			return r.store.dialect.MapError(err)
		}
		summary.PresentDays = int(present)
		summary.AbsentDays = int(total - present)
		return nil
	})
	if err != nil {
		return persistence.AttendanceSummary{}, fmt.Errorf("summarize attendance for %q: %w", employeeID, err)
	}
	return summary, nil
}

func (r *AttendanceRepository) query(ctx context.Context, q queryer, conditions []string, args []any) ([]persistence.AttendanceRecord, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + attendanceColumns + ` FROM attendance_records`)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY attendance_date ASC, id ASC")

	rows, err := q.QueryContext(ctx, r.store.q(sb.String()), args...)
	if err != nil {
		return nil, r.store.dialect.MapError(err)
	}
	defer rows.Close()

	records := make([]persistence.AttendanceRecord, 0)
	for rows.Next() {
		var (
			record    persistence.AttendanceRecord
			createdAt timestamp
		)
		if err := rows.Scan(&record.ID, &record.EmployeeID, &record.Date, &record.IsPresent, &createdAt); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		record.CreatedAt = createdAt.Time
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, r.store.dialect.MapError(err)
	}
	return records, nil
}
