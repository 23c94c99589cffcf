package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

const departmentColumns = `
	d.id, d.name, d.description, d.created_at, d.updated_at,
	(SELECT COUNT(*) FROM employees e WHERE e.department_id = d.id AND e.deleted_at IS NULL)
`

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt, &d.EmployeeCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, err
	}
	return d, nil
}

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO departments (name, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query, d.Name, d.Description).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "departments_name_key") {
			return department.Department{}, apperror.Wrap(department.ErrDepartmentNameExists, err)
		}
		return department.Department{}, err
	}
	return d, nil
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + departmentColumns + ` FROM departments d WHERE d.id = $1`
	return scanDepartment(q.QueryRow(ctx, query, id))
}

// List implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + departmentColumns + ` FROM departments d ORDER BY d.name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]department.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE departments
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	err := q.QueryRow(ctx, query, d.Name, d.Description, d.ID).Scan(&d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		if database.IsUniqueViolation(err, "departments_name_key") {
			return department.Department{}, apperror.Wrap(department.ErrDepartmentNameExists, err)
		}
		return department.Department{}, err
	}
	return d, nil
}

// Delete implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		// Soft-deleted employees still reference the row.
		if database.IsForeignKeyViolation(err) {
			return apperror.Wrap(department.ErrDepartmentInUse, err)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

// CountEmployees implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) CountEmployees(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)
	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM employees
		WHERE department_id = $1 AND deleted_at IS NULL
	`, id).Scan(&count)
	return count, err
}
