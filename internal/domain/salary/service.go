package salary

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
)

type SalaryService interface {
	// Add records a salary payment; admin only.
	Add(ctx context.Context, p auth.Principal, req AddSalaryRequest) (SalaryResponse, error)
	Get(ctx context.Context, p auth.Principal, id string) (SalaryResponse, error)
	List(ctx context.Context, filter SalaryFilter) (ListSalaryResponse, error)
	// ListByEmployee returns the caller's own history, or any employee's for
	// an admin.
	ListByEmployee(ctx context.Context, p auth.Principal, employeeID string) ([]SalaryResponse, error)
}
