package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type salaryRepositoryImpl struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepositoryImpl{db: db}
}

const salarySelect = `
	SELECT s.id, s.employee_id, s.department_id, s.basic_salary, s.pay_date,
		s.created_by, s.created_at, s.updated_at,
		e.name, e.employee_code, d.name
	FROM salaries s
	JOIN employees e ON e.id = s.employee_id
	LEFT JOIN departments d ON d.id = s.department_id
`

func scanSalary(row pgx.Row) (salary.Salary, error) {
	var s salary.Salary
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.DepartmentID, &s.BasicSalary, &s.PayDate,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
		&s.EmployeeName, &s.EmployeeCode, &s.DepartmentName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Salary{}, salary.ErrSalaryNotFound
		}
		return salary.Salary{}, err
	}
	return s, nil
}

// Create implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) Create(ctx context.Context, s salary.Salary) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO salaries (employee_id, department_id, basic_salary, pay_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query, s.EmployeeID, s.DepartmentID, s.BasicSalary, dateOnly(s.PayDate), s.CreatedBy).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "salaries_employee_pay_date_key") {
			return salary.Salary{}, apperror.Wrap(salary.ErrSalaryAlreadyPaid, err)
		}
		return salary.Salary{}, fmt.Errorf("failed to insert salary: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) GetByID(ctx context.Context, id string) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)
	return scanSalary(q.QueryRow(ctx, salarySelect+` WHERE s.id = $1`, id))
}

// List implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) List(ctx context.Context, filter salary.SalaryFilter) ([]salary.Salary, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("s.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("s.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.From != nil && *filter.From != "" {
		conditions = append(conditions, fmt.Sprintf("s.pay_date >= $%d::date", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil && *filter.To != "" {
		conditions = append(conditions, fmt.Sprintf("s.pay_date <= $%d::date", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM salaries s WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salaries: %w", err)
	}

	if filter.Limit == 0 {
		filter.Limit = pagination.DefaultLimit
	}
	offset := pagination.Offset(filter.Page, filter.Limit)
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY s.pay_date DESC, e.employee_code
		LIMIT $%d OFFSET $%d
	`, salarySelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salaries: %w", err)
	}
	defer rows.Close()

	salaries := make([]salary.Salary, 0)
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan salary: %w", err)
		}
		salaries = append(salaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}
	return salaries, total, nil
}
