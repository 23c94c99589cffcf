package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, p auth.Principal, req CheckRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, p auth.Principal, req CheckRequest) (AttendanceResponse, error)
	ComputeStatus(s shift.Snapshot, checkIn, checkOut *time.Time) (Classification, error)
	MarkAttendance(ctx context.Context, p auth.Principal, req MarkAttendanceRequest) (AttendanceResponse, error)
	Today(ctx context.Context, p auth.Principal, employeeID string) (TodayResponse, error)
	EmployeeMonth(ctx context.Context, p auth.Principal, req EmployeeMonthRequest) (EmployeeMonthResponse, error)
	ListDaily(ctx context.Context, filter DailyFilter) (ListDailyResponse, error)
	Statistics(ctx context.Context, filter StatisticsFilter) (StatisticsResponse, error)
	TodaySummary(ctx context.Context, departmentID *string) (TodaySummaryResponse, error)
}
