package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// GetUsed implements leave.LeaveBalanceRepository. Types without a row
// report zero.
func (r *leaveBalanceRepositoryImpl) GetUsed(ctx context.Context, employeeID string, year int) (map[leave.LeaveType]decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT leave_type, used
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
	`, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load leave balance: %w", err)
	}
	defer rows.Close()

	used := make(map[leave.LeaveType]decimal.Decimal, len(leave.LeaveTypes))
	for _, t := range leave.LeaveTypes {
		used[t] = decimal.Zero
	}
	for rows.Next() {
		var (
			leaveType string
			days      decimal.Decimal
		)
		if err := rows.Scan(&leaveType, &days); err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		used[leave.LeaveType(leaveType)] = days
	}
	return used, rows.Err()
}

// LockUsed implements leave.LeaveBalanceRepository. A missing row is created
// first so there is always something to lock.
func (r *leaveBalanceRepositoryImpl) LockUsed(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO leave_balances (employee_id, year, leave_type, used, updated_at)
		VALUES ($1, $2, $3, 0, NOW())
		ON CONFLICT (employee_id, year, leave_type) DO NOTHING
	`, employeeID, year, string(leaveType))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create leave balance row: %w", err)
	}

	var used decimal.Decimal
	err = q.QueryRow(ctx, `
		SELECT used
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2 AND leave_type = $3
		FOR UPDATE
	`, employeeID, year, string(leaveType)).Scan(&used)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock leave balance: %w", err)
	}
	return used, nil
}

// IncrementUsed implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) IncrementUsed(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO leave_balances (employee_id, year, leave_type, used, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (employee_id, year, leave_type)
		DO UPDATE SET used = leave_balances.used + EXCLUDED.used, updated_at = NOW()
	`, employeeID, year, string(leaveType), days)
	if err != nil {
		return fmt.Errorf("failed to increment leave balance: %w", err)
	}
	return nil
}
