package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.check_in, a.check_out, a.status, a.working_hours,
	a.is_late, a.late_minutes, a.remarks, a.shift_id, a.shift_snapshot,
	a.is_manual_override, a.overridden_by, a.overridden_at, a.created_at, a.updated_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		a        attendance.Attendance
		status   string
		snapshot []byte
	)
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.CheckIn, &a.CheckOut, &status, &a.WorkingHours,
		&a.IsLate, &a.LateMinutes, &a.Remarks, &a.ShiftID, &snapshot,
		&a.IsManualOverride, &a.OverriddenBy, &a.OverriddenAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}
	a.Status = attendance.Status(status)
	if a.ShiftSnapshot, err = decodeSnapshot(snapshot); err != nil {
		return attendance.Attendance{}, err
	}
	return a, nil
}

func decodeSnapshot(raw []byte) (*shift.Snapshot, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var s shift.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode shift snapshot: %w", err)
	}
	return &s, nil
}

func encodeSnapshot(s *shift.Snapshot) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// dateOnly drops the clock so the value binds to a DATE column unchanged.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	snapshot, err := encodeSnapshot(a.ShiftSnapshot)
	if err != nil {
		return attendance.Attendance{}, err
	}

	query := `
		INSERT INTO attendances (
			employee_id, date, check_in, check_out, status, working_hours,
			is_late, late_minutes, remarks, shift_id, shift_snapshot,
			is_manual_override, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		a.EmployeeID, dateOnly(a.Date), a.CheckIn, a.CheckOut, string(a.Status), a.WorkingHours,
		a.IsLate, a.LateMinutes, a.Remarks, a.ShiftID, snapshot,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "attendances_employee_date_key") {
			return attendance.Attendance{}, apperror.Wrap(attendance.ErrAlreadyCheckedIn, err)
		}
		return attendance.Attendance{}, err
	}
	a.Date = dateOnly(a.Date)
	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + attendanceColumns + ` FROM attendances a WHERE a.employee_id = $1 AND a.date = $2`
	return scanAttendance(q.QueryRow(ctx, query, employeeID, dateOnly(date)))
}

// GetOpenSession implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetOpenSession(ctx context.Context, employeeID string, since time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date >= $2
			AND a.check_in IS NOT NULL AND a.check_out IS NULL
		ORDER BY a.check_in DESC
		LIMIT 1
	`
	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, dateOnly(since)))
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	return a, err
}

// CloseSession implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CloseSession(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE attendances
		SET check_out = $1, status = $2, working_hours = $3, is_late = $4, late_minutes = $5,
			updated_at = NOW()
		WHERE id = $6 AND check_out IS NULL
		RETURNING updated_at
	`
	err := q.QueryRow(ctx, query,
		a.CheckOut, string(a.Status), a.WorkingHours, a.IsLate, a.LateMinutes, a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return attendance.Attendance{}, err
	}
	return a, nil
}

// UpsertOverride implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpsertOverride(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	snapshot, err := encodeSnapshot(a.ShiftSnapshot)
	if err != nil {
		return attendance.Attendance{}, err
	}

	query := `
		INSERT INTO attendances AS a (
			employee_id, date, check_in, check_out, status, working_hours,
			is_late, late_minutes, remarks, shift_id, shift_snapshot,
			is_manual_override, overridden_by, overridden_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE, $12, $13, NOW(), NOW())
		ON CONFLICT (employee_id, date) DO UPDATE SET
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			status = EXCLUDED.status,
			working_hours = EXCLUDED.working_hours,
			is_late = EXCLUDED.is_late,
			late_minutes = EXCLUDED.late_minutes,
			remarks = EXCLUDED.remarks,
			shift_id = COALESCE(a.shift_id, EXCLUDED.shift_id),
			shift_snapshot = COALESCE(a.shift_snapshot, EXCLUDED.shift_snapshot),
			is_manual_override = TRUE,
			overridden_by = EXCLUDED.overridden_by,
			overridden_at = EXCLUDED.overridden_at,
			updated_at = NOW()
		RETURNING ` + attendanceColumns + `
	`
	return scanAttendance(q.QueryRow(ctx, query,
		a.EmployeeID, dateOnly(a.Date), a.CheckIn, a.CheckOut, string(a.Status), a.WorkingHours,
		a.IsLate, a.LateMinutes, a.Remarks, a.ShiftID, snapshot,
		a.OverriddenBy, a.OverriddenAt,
	))
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date
	`
	rows, err := q.Query(ctx, query, employeeID, dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// ListDaily implements attendance.AttendanceRepository. Every active
// employee who had joined by the date is returned; a missing record reads
// as absent.
func (r *attendanceRepositoryImpl) ListDaily(ctx context.Context, filter attendance.DailyFilter) ([]attendance.DailyRow, int64, error) {
	q := GetQuerier(ctx, r.db)

	date, _ := validator.IsValidDate(filter.Date)
	conditions := []string{"e.deleted_at IS NULL", "e.is_active = TRUE", "e.date_of_joining <= $1"}
	args := []interface{}{date}
	argIdx := 2

	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("COALESCE(a.status, 'absent') = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	from := `
		FROM employees e
		LEFT JOIN departments d ON e.department_id = d.id
		LEFT JOIN attendances a ON a.employee_id = e.id AND a.date = $1
	`
	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", from, whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count daily attendance: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT
			e.id, e.employee_code, e.name, d.name,
			a.id, a.check_in, a.check_out, a.status, a.working_hours,
			a.is_late, a.late_minutes, a.remarks, a.is_manual_override
		%s
		WHERE %s
		ORDER BY e.employee_code
	`, from, whereClause)
	if !filter.Unpaged {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list daily attendance: %w", err)
	}
	defer rows.Close()

	result := make([]attendance.DailyRow, 0)
	for rows.Next() {
		var (
			row          attendance.DailyRow
			id           *string
			checkIn      *time.Time
			checkOut     *time.Time
			status       *string
			workingHours decimal.NullDecimal
			isLate       *bool
			lateMinutes  *int
			remarks      *string
			override     *bool
		)
		err := rows.Scan(
			&row.EmployeeID, &row.EmployeeCode, &row.EmployeeName, &row.DepartmentName,
			&id, &checkIn, &checkOut, &status, &workingHours,
			&isLate, &lateMinutes, &remarks, &override,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan daily attendance: %w", err)
		}
		if id != nil {
			rec := &attendance.Attendance{
				ID:           *id,
				EmployeeID:   row.EmployeeID,
				Date:         dateOnly(date),
				CheckIn:      checkIn,
				CheckOut:     checkOut,
				WorkingHours: workingHours.Decimal,
				Remarks:      remarks,
			}
			if status != nil {
				rec.Status = attendance.Status(*status)
			}
			if isLate != nil {
				rec.IsLate = *isLate
			}
			if lateMinutes != nil {
				rec.LateMinutes = *lateMinutes
			}
			if override != nil {
				rec.IsManualOverride = *override
			}
			row.Record = rec
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

// Statistics implements attendance.AttendanceRepository. Counts are taken
// over the employee x day grid so days without a record count as absent.
func (r *attendanceRepositoryImpl) Statistics(ctx context.Context, filter attendance.StatisticsFilter) (attendance.Statistics, error) {
	q := GetQuerier(ctx, r.db)

	start, _ := validator.IsValidDate(filter.StartDate)
	end, _ := validator.IsValidDate(filter.EndDate)

	query := `
		WITH days AS (
			SELECT generate_series($1::date, $2::date, INTERVAL '1 day')::date AS day
		),
		staff AS (
			SELECT e.id, e.date_of_joining
			FROM employees e
			WHERE e.deleted_at IS NULL AND e.is_active = TRUE
				AND ($3::uuid IS NULL OR e.department_id = $3::uuid)
		),
		grid AS (
			SELECT s.id AS employee_id, COALESCE(a.status, 'absent') AS status,
				COALESCE(a.is_late, FALSE) AS is_late, a.working_hours
			FROM staff s
			CROSS JOIN days
			LEFT JOIN attendances a ON a.employee_id = s.id AND a.date = days.day
			WHERE s.date_of_joining <= days.day
		)
		SELECT
			(SELECT COUNT(*) FROM staff),
			COUNT(*) FILTER (WHERE status = 'present'),
			COUNT(*) FILTER (WHERE status = 'absent'),
			COUNT(*) FILTER (WHERE status = 'half-day'),
			COUNT(*) FILTER (WHERE status = 'leave'),
			COUNT(*) FILTER (WHERE is_late),
			COALESCE(ROUND(AVG(working_hours) FILTER (WHERE working_hours > 0), 2), 0)
		FROM grid
	`

	var s attendance.Statistics
	err := q.QueryRow(ctx, query, start, end, filter.DepartmentID).Scan(
		&s.TotalEmployees, &s.TotalPresent, &s.TotalAbsent, &s.TotalHalfDay,
		&s.TotalLeave, &s.TotalLate, &s.AverageWorkingHours,
	)
	if err != nil {
		return attendance.Statistics{}, fmt.Errorf("failed to compute attendance statistics: %w", err)
	}
	return s, nil
}
