package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns combined dashboard data gathered concurrently
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
	// GetEmployeeDetail returns who is on leave on date (YYYY-MM-DD, empty
	// for today) and how many are working.
	GetEmployeeDetail(ctx context.Context, date string) (*EmployeeDetailResponse, error)
}
