package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	// Decide moves a pending request to status and returns
	// ErrLeaveAlreadyDecided when the request is no longer pending.
	Decide(ctx context.Context, id string, status RequestStatus, comments *string, decidedBy string, decidedAt time.Time) (LeaveRequest, error)
	CountPending(ctx context.Context) (int64, error)
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	GetUsed(ctx context.Context, employeeID string, year int) (map[LeaveType]decimal.Decimal, error)
	// LockUsed returns the used counter of one leave type and holds a row
	// lock on it until the surrounding transaction ends.
	LockUsed(ctx context.Context, employeeID string, year int, leaveType LeaveType) (decimal.Decimal, error)
	// IncrementUsed adds days to the used counter in a single statement.
	IncrementUsed(ctx context.Context, employeeID string, year int, leaveType LeaveType, days decimal.Decimal) error
}

// BalanceCache stores computed balances between writes. Entries are keyed by
// a per-employee generation: Invalidate bumps it, so a balance computed
// before the bump and written after it is never read back.
type BalanceCache interface {
	Generation(ctx context.Context, employeeID string) (int64, error)
	Get(ctx context.Context, employeeID string, year int, generation int64) (Balance, bool, error)
	Set(ctx context.Context, balance Balance, generation int64) error
	// Invalidate drops every cached year of the employee.
	Invalidate(ctx context.Context, employeeID string) error
}
