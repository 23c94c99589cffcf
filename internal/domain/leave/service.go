package leave

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
)

type LeaveService interface {
	// Balance
	GetBalance(ctx context.Context, p auth.Principal, employeeID string, year int) (BalanceResponse, error)
	// Request
	Submit(ctx context.Context, p auth.Principal, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Decide(ctx context.Context, p auth.Principal, req DecideLeaveRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, p auth.Principal, id string) (LeaveRequestResponse, error)
	List(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	ListByEmployee(ctx context.Context, p auth.Principal, employeeID string) ([]LeaveRequestResponse, error)
}
