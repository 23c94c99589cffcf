package attendance

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half-day"
	StatusLeave   Status = "leave"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusLeave:
		return true
	}
	return false
}

type Attendance struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	CheckIn          *time.Time
	CheckOut         *time.Time
	Status           Status
	WorkingHours     decimal.Decimal
	IsLate           bool
	LateMinutes      int
	Remarks          *string
	ShiftID          *string
	ShiftSnapshot    *shift.Snapshot
	IsManualOverride bool
	OverriddenBy     *string
	OverriddenAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	EmployeeCode   string
	EmployeeName   string
	DepartmentName *string
}

// Classification is the derived part of an attendance record.
type Classification struct {
	Status       Status
	WorkingHours decimal.Decimal
	IsLate       bool
	LateMinutes  int
	// Provisional is set while the employee is still clocked in.
	Provisional bool
}

func (a *Attendance) Apply(c Classification) {
	a.Status = c.Status
	a.WorkingHours = c.WorkingHours
	a.IsLate = c.IsLate
	a.LateMinutes = c.LateMinutes
}

// DailyRow is one employee's standing for a single day. Employees without a
// record on that day are reported absent.
type DailyRow struct {
	EmployeeID     string
	EmployeeCode   string
	EmployeeName   string
	DepartmentName *string
	Record         *Attendance
}

func (r DailyRow) Status() Status {
	if r.Record == nil {
		return StatusAbsent
	}
	return r.Record.Status
}

type Statistics struct {
	TotalEmployees      int64
	TotalPresent        int64
	TotalAbsent         int64
	TotalHalfDay        int64
	TotalLeave          int64
	TotalLate           int64
	AverageWorkingHours decimal.Decimal
}
