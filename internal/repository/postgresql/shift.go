package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `
	s.id, s.name, s.start_time, s.end_time, s.is_cross_midnight,
	s.grace_minutes, s.minimum_hours, s.is_active, s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM employees e WHERE e.shift_id = s.id AND e.deleted_at IS NULL)
`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.IsCrossMidnight,
		&s.GraceMinutes, &s.MinimumHours, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		&s.EmployeeCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, err
	}
	return s, nil
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO shifts (
			name, start_time, end_time, is_cross_midnight,
			grace_minutes, minimum_hours, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())
		RETURNING id, is_active, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		s.Name, s.StartTime, s.EndTime, s.IsCrossMidnight,
		s.GraceMinutes, s.MinimumHours,
	).Scan(&s.ID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return shift.Shift{}, err
	}
	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + shiftColumns + ` FROM shifts s WHERE s.id = $1`
	return scanShift(q.QueryRow(ctx, query, id))
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		WHERE ($1 = FALSE OR s.is_active = TRUE)
		ORDER BY s.is_active DESC, s.start_time, s.name
	`
	rows, err := q.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]shift.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE shifts
		SET name = $1, start_time = $2, end_time = $3, is_cross_midnight = $4,
			grace_minutes = $5, minimum_hours = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := q.QueryRow(ctx, query,
		s.Name, s.StartTime, s.EndTime, s.IsCrossMidnight,
		s.GraceMinutes, s.MinimumHours, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, err
	}
	return s, nil
}

// Deactivate implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE shifts
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// CountAssignedEmployees implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) CountAssignedEmployees(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)
	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM employees
		WHERE shift_id = $1 AND deleted_at IS NULL
	`, id).Scan(&count)
	return count, err
}

// ReassignEmployees implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ReassignEmployees(ctx context.Context, fromShiftID, toShiftID string) (int64, error) {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE employees
		SET shift_id = $2, updated_at = NOW()
		WHERE shift_id = $1 AND deleted_at IS NULL
	`, fromShiftID, toShiftID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
