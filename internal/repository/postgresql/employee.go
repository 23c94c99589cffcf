package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT
		e.id, e.user_id, e.employee_code, e.name, e.email, e.department_id, e.shift_id,
		e.date_of_joining, e.date_of_birth, e.gender, e.designation, e.phone_number,
		e.salary, e.account_number, e.bank_branch, e.bank_ifsc,
		e.is_active, e.created_at, e.updated_at, e.deleted_at,
		d.name AS department_name,
		s.name AS shift_name,
		u.role
	FROM employees e
	LEFT JOIN departments d ON e.department_id = d.id
	INNER JOIN shifts s ON e.shift_id = s.id
	INNER JOIN users u ON e.user_id = u.id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp    employee.Employee
		gender *string
	)
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeCode, &emp.Name, &emp.Email, &emp.DepartmentID, &emp.ShiftID,
		&emp.DateOfJoining, &emp.DateOfBirth, &gender, &emp.Designation, &emp.PhoneNumber,
		&emp.Salary, &emp.AccountNumber, &emp.BankBranch, &emp.BankIFSC,
		&emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
		&emp.DepartmentName,
		&emp.ShiftName,
		&emp.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	if gender != nil {
		g := employee.Gender(*gender)
		emp.Gender = &g
	}
	return emp, nil
}

func genderValue(g *employee.Gender) *string {
	if g == nil {
		return nil
	}
	v := string(*g)
	return &v
}

func mapEmployeeWriteError(err error) error {
	switch {
	case database.IsUniqueViolation(err, "employees_employee_code_key"):
		return apperror.Wrap(employee.ErrEmployeeCodeExists, err)
	case database.IsUniqueViolation(err, "employees_user_id_key"):
		return apperror.Wrap(employee.ErrEmailExists, err)
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO employees (
			user_id, employee_code, name, email, department_id, shift_id,
			date_of_joining, date_of_birth, gender, designation, phone_number,
			salary, account_number, bank_branch, bank_ifsc,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, TRUE, NOW(), NOW())
		RETURNING id, is_active, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		newEmployee.UserID, newEmployee.EmployeeCode, newEmployee.Name, newEmployee.Email,
		newEmployee.DepartmentID, newEmployee.ShiftID, newEmployee.DateOfJoining, newEmployee.DateOfBirth,
		genderValue(newEmployee.Gender), newEmployee.Designation, newEmployee.PhoneNumber,
		newEmployee.Salary, newEmployee.AccountNumber, newEmployee.BankBranch, newEmployee.BankIFSC,
	).Scan(&newEmployee.ID, &newEmployee.IsActive, &newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		return employee.Employee{}, mapEmployeeWriteError(err)
	}
	return newEmployee, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.id = $1 AND e.deleted_at IS NULL`, id))
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.user_id = $1 AND e.deleted_at IS NULL`, userID))
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"e.deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.name ILIKE $%d OR e.employee_code ILIKE $%d OR e.email ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.ShiftID != nil && *filter.ShiftID != "" {
		conditions = append(conditions, fmt.Sprintf("e.shift_id = $%d", argIdx))
		args = append(args, *filter.ShiftID)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees e WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	offset := pagination.Offset(filter.Page, filter.Limit)
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY e.employee_code
		LIMIT $%d OFFSET $%d
	`, employeeSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE employees
		SET name = $1, department_id = $2, shift_id = $3, date_of_joining = $4,
			date_of_birth = $5, gender = $6, designation = $7, phone_number = $8,
			salary = $9, account_number = $10, bank_branch = $11, bank_ifsc = $12,
			updated_at = NOW()
		WHERE id = $13 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := q.QueryRow(ctx, query,
		e.Name, e.DepartmentID, e.ShiftID, e.DateOfJoining,
		e.DateOfBirth, genderValue(e.Gender), e.Designation, e.PhoneNumber,
		e.Salary, e.AccountNumber, e.BankBranch, e.BankIFSC,
		e.ID,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, mapEmployeeWriteError(err)
	}
	return e, nil
}

// SoftDelete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE employees
		SET deleted_at = NOW(), is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// CountActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountActive(ctx context.Context, departmentID *string) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var count int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM employees
		WHERE deleted_at IS NULL AND is_active = TRUE
			AND ($1::uuid IS NULL OR department_id = $1::uuid)
	`, departmentID).Scan(&count)
	return count, err
}
