package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetHeadcount returns employees, departments and active shifts in a single query
func (r *dashboardRepositoryImpl) GetHeadcount(ctx context.Context) (dashboard.Headcount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM employees WHERE deleted_at IS NULL AND is_active = TRUE),
			(SELECT COUNT(*) FROM departments),
			(SELECT COUNT(*) FROM shifts WHERE is_active = TRUE)
	`

	var h dashboard.Headcount
	if err := q.QueryRow(ctx, query).Scan(&h.Employees, &h.Departments, &h.ActiveShifts); err != nil {
		return dashboard.Headcount{}, fmt.Errorf("failed to get headcount: %w", err)
	}
	return h, nil
}

// GetAttendanceCounts returns per-status counts for one day in single query
func (r *dashboardRepositoryImpl) GetAttendanceCounts(ctx context.Context, date time.Time) (dashboard.AttendanceCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.status = 'half-day' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.status = 'leave' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.is_late THEN 1 ELSE 0 END), 0)
		FROM employees e
		LEFT JOIN attendances a ON a.employee_id = e.id AND a.date = $1
		WHERE e.deleted_at IS NULL AND e.is_active = TRUE AND e.date_of_joining <= $1
	`

	var c dashboard.AttendanceCounts
	err := q.QueryRow(ctx, query, dateOnly(date)).Scan(&c.Employees, &c.Present, &c.HalfDay, &c.Leave, &c.Late)
	if err != nil {
		return dashboard.AttendanceCounts{}, fmt.Errorf("failed to get attendance counts: %w", err)
	}
	return c, nil
}

// GetLeaveCounts returns pending and approved figures for the year
func (r *dashboardRepositoryImpl) GetLeaveCounts(ctx context.Context, year int) (dashboard.LeaveCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'approved' AND EXTRACT(YEAR FROM from_date) = $1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'approved' AND EXTRACT(YEAR FROM from_date) = $1 THEN total_days ELSE 0 END), 0)
		FROM leave_requests
	`

	var c dashboard.LeaveCounts
	if err := q.QueryRow(ctx, query, year).Scan(&c.Pending, &c.ApprovedThisYear, &c.DaysTaken); err != nil {
		return dashboard.LeaveCounts{}, fmt.Errorf("failed to get leave counts: %w", err)
	}
	return c, nil
}

// GetRecentLeaves returns the latest leave requests
func (r *dashboardRepositoryImpl) GetRecentLeaves(ctx context.Context, limit int) ([]dashboard.RecentLeave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, e.name, lr.leave_type, lr.from_date, lr.end_date, lr.total_days, lr.status
		FROM leave_requests lr
		INNER JOIN employees e ON lr.employee_id = e.id
		ORDER BY lr.applied_date DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent leaves: %w", err)
	}
	defer rows.Close()

	leaves := make([]dashboard.RecentLeave, 0, limit)
	for rows.Next() {
		var l dashboard.RecentLeave
		if err := rows.Scan(&l.ID, &l.EmployeeName, &l.LeaveType, &l.FromDate, &l.EndDate, &l.TotalDays, &l.Status); err != nil {
			return nil, fmt.Errorf("failed to scan recent leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// GetEmployeesOnLeave returns the latest approved request per employee that covers date
func (r *dashboardRepositoryImpl) GetEmployeesOnLeave(ctx context.Context, date time.Time) ([]dashboard.EmployeeOnLeave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT ON (e.id)
			e.id, e.employee_code, e.name, e.email, d.name, e.phone_number,
			lr.leave_type, lr.from_date, lr.end_date, lr.total_days,
			lr.is_half_day, lr.half_day_period, lr.reason, lr.applied_date
		FROM leave_requests lr
		INNER JOIN employees e ON lr.employee_id = e.id
		LEFT JOIN departments d ON e.department_id = d.id
		WHERE lr.status = 'approved'
			AND lr.from_date <= $1 AND lr.end_date >= $1
			AND e.deleted_at IS NULL AND e.is_active = TRUE
		ORDER BY e.id, lr.applied_date DESC
	`

	rows, err := q.Query(ctx, query, dateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to get employees on leave: %w", err)
	}
	defer rows.Close()

	var out []dashboard.EmployeeOnLeave
	for rows.Next() {
		var e dashboard.EmployeeOnLeave
		if err := rows.Scan(
			&e.EmployeeID, &e.EmployeeCode, &e.Name, &e.Email, &e.Department, &e.PhoneNumber,
			&e.LeaveType, &e.FromDate, &e.EndDate, &e.TotalDays,
			&e.IsHalfDay, &e.HalfDayPeriod, &e.Reason, &e.AppliedDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee on leave: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
