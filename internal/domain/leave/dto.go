package leave

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type SubmitLeaveRequest struct {
	EmployeeID    string  `json:"employeeId"`
	LeaveType     string  `json:"leaveType"`
	FromDate      string  `json:"fromDate"`
	EndDate       string  `json:"endDate"`
	Reason        string  `json:"reason"`
	IsHalfDay     bool    `json:"isHalfDay"`
	HalfDayPeriod *string `json:"halfDayPeriod,omitempty"`
}

// Validate checks the request and fills EndDate from FromDate when it is
// omitted.
func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId must be a valid id",
		})
	}
	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leaveType",
			Message: "leaveType is required",
		})
	} else if !LeaveType(r.LeaveType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leaveType",
			Message: "leaveType must be one of: casual, sick",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	from, fromOK := validator.IsValidDate(r.FromDate)
	if validator.IsEmpty(r.FromDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "fromDate",
			Message: "fromDate is required",
		})
	} else if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "fromDate",
			Message: "fromDate must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		r.EndDate = r.FromDate
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK && fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must be in YYYY-MM-DD format",
		})
	}

	if fromOK && endOK {
		if r.IsHalfDay && !end.Equal(from) {
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: "a half-day leave must start and end on the same date",
			})
		}
		if end.Before(from) {
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: "endDate must not be before fromDate",
			})
		}
	}

	if r.IsHalfDay {
		if r.HalfDayPeriod == nil || !validator.IsInSlice(*r.HalfDayPeriod, []string{string(HalfDayMorning), string(HalfDayAfternoon)}) {
			errs = append(errs, validator.ValidationError{
				Field:   "halfDayPeriod",
				Message: "halfDayPeriod must be one of: morning, afternoon",
			})
		}
	} else {
		r.HalfDayPeriod = nil
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideLeaveRequest struct {
	ID       string  `json:"-"`
	Status   string  `json:"status"`
	Comments *string `json:"comments,omitempty"`
}

func (r *DecideLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid id",
		})
	}
	if r.Status != string(RequestStatusApproved) && r.Status != string(RequestStatusRejected) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveRequestFilter struct {
	Status    *string
	LeaveType *string
	Search    *string

	// Pagination
	Page  int
	Limit int
}

func (f *LeaveRequestFilter) Validate() error {
	errs := pagination.Normalize(&f.Page, &f.Limit)

	if f.Status != nil && !RequestStatus(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, approved, rejected",
		})
	}
	if f.LeaveType != nil && !LeaveType(*f.LeaveType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leaveType",
			Message: "leaveType must be one of: casual, sick",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveRequestResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employeeId"`
	EmployeeCode  string  `json:"employeeCode,omitempty"`
	EmployeeName  string  `json:"employeeName,omitempty"`
	Department    *string `json:"department,omitempty"`
	LeaveType     string  `json:"leaveType"`
	FromDate      string  `json:"fromDate"`
	EndDate       string  `json:"endDate"`
	IsHalfDay     bool    `json:"isHalfDay"`
	HalfDayPeriod *string `json:"halfDayPeriod,omitempty"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	TotalDays     float64 `json:"totalDays"`
	Comments      *string `json:"comments,omitempty"`
	AppliedDate   string  `json:"appliedDate"`
	DecidedBy     *string `json:"decidedBy,omitempty"`
	DecidedAt     *string `json:"decidedAt,omitempty"`
}

func ToResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeCode: r.EmployeeCode,
		EmployeeName: r.EmployeeName,
		Department:   r.DepartmentName,
		LeaveType:    string(r.LeaveType),
		FromDate:     r.FromDate.Format(validator.DateLayout),
		EndDate:      r.EndDate.Format(validator.DateLayout),
		IsHalfDay:    r.IsHalfDay,
		Reason:       r.Reason,
		Status:       string(r.Status),
		TotalDays:    r.TotalDays.InexactFloat64(),
		Comments:     r.Comments,
		AppliedDate:  r.AppliedDate.Format(time.RFC3339),
		DecidedBy:    r.DecidedBy,
	}
	if r.HalfDayPeriod != nil {
		p := string(*r.HalfDayPeriod)
		resp.HalfDayPeriod = &p
	}
	if r.DecidedAt != nil {
		at := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &at
	}
	return resp
}

type ListLeaveRequestResponse struct {
	Leaves     []LeaveRequestResponse `json:"leaves"`
	Pagination pagination.Pagination  `json:"pagination"`
}

type TypeBalanceResponse struct {
	Available         float64 `json:"available"`
	Used              float64 `json:"used"`
	Remaining         float64 `json:"remaining"`
	MonthlyAllocation float64 `json:"monthlyAllocation"`
}

type BalanceResponse struct {
	EmployeeID   string              `json:"employeeId"`
	Casual       TypeBalanceResponse `json:"casual"`
	Sick         TypeBalanceResponse `json:"sick"`
	DOJ          string              `json:"doj"`
	CurrentYear  int                 `json:"currentYear"`
	MonthsWorked int                 `json:"monthsWorked"`
}

func ToBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:   b.EmployeeID,
		Casual:       toTypeBalanceResponse(b.Casual),
		Sick:         toTypeBalanceResponse(b.Sick),
		DOJ:          b.DateOfJoining.Format(validator.DateLayout),
		CurrentYear:  b.Year,
		MonthsWorked: b.MonthsWorked,
	}
}

func toTypeBalanceResponse(t TypeBalance) TypeBalanceResponse {
	return TypeBalanceResponse{
		Available:         t.Available.InexactFloat64(),
		Used:              t.Used.InexactFloat64(),
		Remaining:         t.Remaining.InexactFloat64(),
		MonthlyAllocation: t.MonthlyAllocation.InexactFloat64(),
	}
}
