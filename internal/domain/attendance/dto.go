package attendance

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// CheckRequest is the body of check-in and check-out. EmployeeID defaults to
// the caller's own employee record.
type CheckRequest struct {
	EmployeeID string `json:"employeeId"`
}

func (r *CheckRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId must be a valid id",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkAttendanceRequest struct {
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Remarks    string  `json:"remarks"`
	CheckIn    *string `json:"checkIn,omitempty"`  // HH:MM, local time
	CheckOut   *string `json:"checkOut,omitempty"` // HH:MM, local time
	// AdminUserID is accepted for compatibility; the acting admin is always
	// taken from the authenticated caller.
	AdminUserID string `json:"adminUserId,omitempty"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, half-day, leave",
		})
	}
	if validator.IsEmpty(r.Remarks) {
		errs = append(errs, validator.ValidationError{
			Field:   "remarks",
			Message: "remarks are required for a manual override",
		})
	}
	if r.CheckIn != nil && !validator.IsValidClock(*r.CheckIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "checkIn",
			Message: "checkIn must be in HH:MM format",
		})
	}
	if r.CheckOut != nil {
		if !validator.IsValidClock(*r.CheckOut) {
			errs = append(errs, validator.ValidationError{
				Field:   "checkOut",
				Message: "checkOut must be in HH:MM format",
			})
		}
		if r.CheckIn == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "checkOut",
				Message: "checkOut requires checkIn",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeMonthRequest struct {
	EmployeeID string
	Month      int
	Year       int
}

func (r *EmployeeMonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if r.Year < 1970 || r.Year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a valid year",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DailyFilter struct {
	Date         string
	DepartmentID *string
	Status       *string

	// Pagination
	Page  int
	Limit int
	// Unpaged returns every row; used for summaries.
	Unpaged bool
}

func (f *DailyFilter) Validate() error {
	var errs validator.ValidationErrors
	if !f.Unpaged {
		errs = pagination.Normalize(&f.Page, &f.Limit)
	}

	if _, ok := validator.IsValidDate(f.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if f.DepartmentID != nil && !validator.IsValidUUID(*f.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must be a valid id",
		})
	}
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, half-day, leave",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StatisticsFilter struct {
	StartDate    string
	EndDate      string
	DepartmentID *string
}

func (f *StatisticsFilter) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(f.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(f.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: "endDate must not be before startDate",
			})
		} else if end.Sub(start) > 366*24*time.Hour {
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: "date range must not exceed one year",
			})
		}
	}
	if f.DepartmentID != nil && !validator.IsValidUUID(*f.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must be a valid id",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employeeId"`
	Date             string          `json:"date"`
	CheckIn          *string         `json:"checkIn"`
	CheckOut         *string         `json:"checkOut"`
	Status           string          `json:"status"`
	WorkingHours     float64         `json:"workingHours"`
	IsLate           bool            `json:"isLate"`
	LateMinutes      int             `json:"lateMinutes"`
	Remarks          *string         `json:"remarks,omitempty"`
	Shift            *shift.Snapshot `json:"shift,omitempty"`
	IsManualOverride bool            `json:"isManualOverride"`
	OverriddenBy     *string         `json:"overriddenBy,omitempty"`
}

func ToResponse(a Attendance, loc *time.Location) AttendanceResponse {
	return AttendanceResponse{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		Date:             a.Date.Format(validator.DateLayout),
		CheckIn:          formatTimestamp(a.CheckIn, loc),
		CheckOut:         formatTimestamp(a.CheckOut, loc),
		Status:           string(a.Status),
		WorkingHours:     a.WorkingHours.InexactFloat64(),
		IsLate:           a.IsLate,
		LateMinutes:      a.LateMinutes,
		Remarks:          a.Remarks,
		Shift:            a.ShiftSnapshot,
		IsManualOverride: a.IsManualOverride,
		OverriddenBy:     a.OverriddenBy,
	}
}

type TodayResponse struct {
	Date          string          `json:"date"`
	HasCheckedIn  bool            `json:"hasCheckedIn"`
	HasCheckedOut bool            `json:"hasCheckedOut"`
	CheckInTime   *string         `json:"checkInTime"`
	CheckOutTime  *string         `json:"checkOutTime"`
	WorkingHours  float64         `json:"workingHours"`
	Status        *string         `json:"status"`
	IsLate        bool            `json:"isLate"`
	LateMinutes   int             `json:"lateMinutes"`
	Shift         *shift.Snapshot `json:"shift,omitempty"`
}

type MonthStatistics struct {
	Present           int     `json:"present"`
	Absent            int     `json:"absent"`
	HalfDay           int     `json:"halfDay"`
	Leave             int     `json:"leave"`
	Late              int     `json:"late"`
	TotalWorkingHours float64 `json:"totalWorkingHours"`
}

type EmployeeMonthResponse struct {
	Attendance []AttendanceResponse `json:"attendance"`
	Statistics MonthStatistics      `json:"statistics"`
}

type DailyAttendance struct {
	Status       string  `json:"status"`
	CheckIn      *string `json:"checkIn"`
	CheckOut     *string `json:"checkOut"`
	WorkingHours float64 `json:"workingHours"`
	IsLate       bool    `json:"isLate"`
	Remarks      *string `json:"remarks,omitempty"`
}

type DailyRowResponse struct {
	EmployeeID   string          `json:"employeeId"`
	EmployeeCode string          `json:"employeeCode"`
	Name         string          `json:"name"`
	Department   *string         `json:"department"`
	Attendance   DailyAttendance `json:"attendance"`
}

func ToDailyRowResponse(r DailyRow, loc *time.Location) DailyRowResponse {
	resp := DailyRowResponse{
		EmployeeID:   r.EmployeeID,
		EmployeeCode: r.EmployeeCode,
		Name:         r.EmployeeName,
		Department:   r.DepartmentName,
		Attendance:   DailyAttendance{Status: string(r.Status())},
	}
	if r.Record != nil {
		resp.Attendance.CheckIn = formatTimestamp(r.Record.CheckIn, loc)
		resp.Attendance.CheckOut = formatTimestamp(r.Record.CheckOut, loc)
		resp.Attendance.WorkingHours = r.Record.WorkingHours.InexactFloat64()
		resp.Attendance.IsLate = r.Record.IsLate
		resp.Attendance.Remarks = r.Record.Remarks
	}
	return resp
}

type ListDailyResponse struct {
	Rows       []DailyRowResponse    `json:"data"`
	Pagination pagination.Pagination `json:"pagination"`
}

type StatisticsResponse struct {
	TotalEmployees      int64   `json:"totalEmployees"`
	TotalPresent        int64   `json:"totalPresent"`
	TotalAbsent         int64   `json:"totalAbsent"`
	TotalHalfDay        int64   `json:"totalHalfDay"`
	TotalLeave          int64   `json:"totalLeave"`
	TotalLate           int64   `json:"totalLate"`
	AverageWorkingHours float64 `json:"averageWorkingHours"`
}

type SummaryCounts struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
	HalfDay int `json:"halfDay"`
	Leave   int `json:"leave"`
	Late    int `json:"late"`
}

type SummaryDetails struct {
	Present []DailyRowResponse `json:"present"`
	Absent  []DailyRowResponse `json:"absent"`
	HalfDay []DailyRowResponse `json:"halfDay"`
	Leave   []DailyRowResponse `json:"leave"`
	Late    []DailyRowResponse `json:"late"`
}

type TodaySummaryResponse struct {
	Date    string         `json:"date"`
	Summary SummaryCounts  `json:"summary"`
	Details SummaryDetails `json:"details"`
}

func formatTimestamp(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}
