package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Create inserts a new record and returns ErrAlreadyCheckedIn when one
	// already exists for the employee and date.
	Create(ctx context.Context, a Attendance) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)
	// GetOpenSession returns the newest record dated on or after since that
	// has a check-in and no check-out, or ErrNotCheckedIn.
	GetOpenSession(ctx context.Context, employeeID string, since time.Time) (Attendance, error)
	// CloseSession sets check-out fields only while check_out is still null and
	// returns ErrNotCheckedIn when another request closed it first.
	CloseSession(ctx context.Context, a Attendance) (Attendance, error)
	UpsertOverride(ctx context.Context, a Attendance) (Attendance, error)
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
	ListDaily(ctx context.Context, filter DailyFilter) ([]DailyRow, int64, error)
	Statistics(ctx context.Context, filter StatisticsFilter) (Statistics, error)
}
