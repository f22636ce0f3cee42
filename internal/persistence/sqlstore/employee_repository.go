package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/attendance-tracker/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository.
type EmployeeRepository struct {
	store *Store
}

var _ persistence.EmployeeRepository = (*EmployeeRepository)(nil)

const employeeColumns = `id, employee_id, full_name, email, department, created_at`

// CreateEmployee inserts employee and returns it with the assigned id.
// A taken employee_id surfaces as persistence.ErrDuplicate from the UNIQUE constraint.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee persistence.Employee) (persistence.Employee, error) {
	if employee.EmployeeID == "" {
		return persistence.Employee{}, persistence.ErrConstraintViolation
	}

	employee.CreatedAt = r.store.createdAt(employee.CreatedAt)

	query := r.store.q(`
		INSERT INTO employees (employee_id, full_name, email, department, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.store.db.QueryRowContext(ctx, query,
		employee.EmployeeID,
		employee.FullName,
		employee.Email,
		employee.Department,
		formatTimestamp(employee.CreatedAt),
	).Scan(&employee.ID)
	if err != nil {
		return persistence.Employee{}, fmt.Errorf("insert employee %q: %w", employee.EmployeeID, r.store.dialect.MapError(err))
	}

	return employee, nil
}

// GetEmployee retrieves an employee by its external identifier.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, employeeID string) (persistence.Employee, error) {
	if employeeID == "" {
		return persistence.Employee{}, persistence.ErrNotFound
	}

	query := r.store.q(`SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = ?`)

	employee, err := scanEmployee(r.store.db.QueryRowContext(ctx, query, employeeID))
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Employee{}, fmt.Errorf("get employee %q: %w", employeeID, r.store.dialect.MapError(err))
	}
	return employee, nil
}

// ListEmployees returns every employee in insertion order.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", r.store.dialect.MapError(err))
	}
	defer rows.Close()

	employees := make([]persistence.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", r.store.dialect.MapError(err))
	}
	return employees, nil
}

// DeleteEmployee removes the employee and its attendance records in one transaction.
func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, employeeID string) error {
	if employeeID == "" {
		return persistence.ErrNotFound
	}

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			r.store.q(`DELETE FROM attendance_records WHERE employee_id = ?`), employeeID); err != nil {
			return fmt.Errorf("delete attendance for %q: %w", employeeID, r.store.dialect.MapError(err))
		}

		result, err := tx.ExecContext(ctx, r.store.q(`DELETE FROM employees WHERE employee_id = ?`), employeeID)
		if err != nil {
			return fmt.Errorf("delete employee %q: %w", employeeID, r.store.dialect.MapError(err))
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (persistence.Employee, error) {
	var (
		employee  persistence.Employee
		createdAt timestamp
	)
	if err := row.Scan(
		&employee.ID,
		&employee.EmployeeID,
		&employee.FullName,
		&employee.Email,
		&employee.Department,
		&createdAt,
	); err != nil {
		return persistence.Employee{}, err
	}
	employee.CreatedAt = createdAt.Time
	return employee, nil
}
