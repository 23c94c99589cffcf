package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeaveType string

const (
	LeaveTypeCasual LeaveType = "casual"
	LeaveTypeSick   LeaveType = "sick"
)

// LeaveTypes lists every accruing leave type.
var LeaveTypes = []LeaveType{LeaveTypeCasual, LeaveTypeSick}

func (t LeaveType) IsValid() bool {
	return t == LeaveTypeCasual || t == LeaveTypeSick
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

type HalfDayPeriod string

const (
	HalfDayMorning   HalfDayPeriod = "morning"
	HalfDayAfternoon HalfDayPeriod = "afternoon"
)

type LeaveRequest struct {
	ID            string
	EmployeeID    string
	LeaveType     LeaveType
	FromDate      time.Time
	EndDate       time.Time
	IsHalfDay     bool
	HalfDayPeriod *HalfDayPeriod
	Reason        string
	Status        RequestStatus
	TotalDays     decimal.Decimal
	Comments      *string
	AppliedDate   time.Time
	DecidedBy     *string
	DecidedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	EmployeeCode   string
	EmployeeName   string
	DepartmentName *string
}

// Year is the balance year the request is charged to.
// Year is the balance year a request is charged to. A request running into
// the next year is charged in full to the year it starts in.
func (r LeaveRequest) Year() int {
	return r.FromDate.Year()
}

// MonthlyAllocation is the number of days credited per leave type for each
// month worked.
var MonthlyAllocation = decimal.NewFromInt(1)

var halfDay = decimal.NewFromFloat(0.5)

// CalculateTotalDays returns 0.5 for a half day and the inclusive calendar
// day count otherwise.
func CalculateTotalDays(from, end time.Time, isHalfDay bool) decimal.Decimal {
	if isHalfDay {
		return halfDay
	}
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int64(end.Sub(from).Hours()/24) + 1
	if days < 0 {
		days = 0
	}
	return decimal.NewFromInt(days)
}

type TypeBalance struct {
	MonthlyAllocation decimal.Decimal
	Available         decimal.Decimal
	Used              decimal.Decimal
	Remaining         decimal.Decimal
}

type Balance struct {
	EmployeeID    string
	Year          int
	DateOfJoining time.Time
	MonthsWorked  int
	Casual        TypeBalance
	Sick          TypeBalance
}

func (b Balance) For(t LeaveType) TypeBalance {
	if t == LeaveTypeSick {
		return b.Sick
	}
	return b.Casual
}
