package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Headcount struct {
	Employees    int64
	Departments  int64
	ActiveShifts int64
}

type AttendanceCounts struct {
	Employees int64
	Present   int64
	HalfDay   int64
	Leave     int64
	Late      int64
}

type LeaveCounts struct {
	Pending          int64
	ApprovedThisYear int64
	DaysTaken        decimal.Decimal
}

type RecentLeave struct {
	ID           string
	EmployeeName string
	LeaveType    string
	FromDate     time.Time
	EndDate      time.Time
	TotalDays    decimal.Decimal
	Status       string
}

// EmployeeOnLeave is an employee with the approved request covering a day.
type EmployeeOnLeave struct {
	EmployeeID    string
	EmployeeCode  string
	Name          string
	Email         string
	Department    *string
	PhoneNumber   *string
	LeaveType     string
	FromDate      time.Time
	EndDate       time.Time
	TotalDays     decimal.Decimal
	IsHalfDay     bool
	HalfDayPeriod *string
	Reason        string
	AppliedDate   time.Time
}

type DashboardRepository interface {
	GetHeadcount(ctx context.Context) (Headcount, error)
	GetAttendanceCounts(ctx context.Context, date time.Time) (AttendanceCounts, error)
	GetLeaveCounts(ctx context.Context, year int) (LeaveCounts, error)
	GetRecentLeaves(ctx context.Context, limit int) ([]RecentLeave, error)
	// GetEmployeesOnLeave returns one row per active employee with an
	// approved request covering date.
	GetEmployeesOnLeave(ctx context.Context, date time.Time) ([]EmployeeOnLeave, error)
}
