package dashboard

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the admin dashboard endpoint
type DashboardResponse struct {
	Headcount       HeadcountResponse       `json:"headcount"`
	TodayAttendance TodayAttendanceResponse `json:"todayAttendance"`
	Leave           LeaveSummaryResponse    `json:"leave"`
	RecentLeaves    []RecentLeaveResponse   `json:"recentLeaves"`
	Date            string                  `json:"date"`
}

// ========== HEADCOUNT ==========

type HeadcountResponse struct {
	Employees    int64 `json:"employees"`
	Departments  int64 `json:"departments"`
	ActiveShifts int64 `json:"activeShifts"`
}

// ========== TODAY ATTENDANCE ==========

// TodayAttendanceResponse counts today's records; employees without one are absent.
type TodayAttendanceResponse struct {
	Present        int64   `json:"present"`
	Absent         int64   `json:"absent"`
	HalfDay        int64   `json:"halfDay"`
	Leave          int64   `json:"leave"`
	Late           int64   `json:"late"`
	PresentPercent float64 `json:"presentPercent"`
}

// ========== LEAVE ==========

type LeaveSummaryResponse struct {
	Pending           int64   `json:"pending"`
	ApprovedThisYear  int64   `json:"approvedThisYear"`
	DaysTakenThisYear float64 `json:"daysTakenThisYear"`
}

type RecentLeaveResponse struct {
	ID           string  `json:"id"`
	EmployeeName string  `json:"employeeName"`
	LeaveType    string  `json:"leaveType"`
	FromDate     string  `json:"fromDate"`
	EndDate      string  `json:"endDate"`
	TotalDays    float64 `json:"totalDays"`
	Status       string  `json:"status"`
}

// ========== EMPLOYEE DETAIL ==========

// EmployeeDetailResponse lists who is away on a given day.
type EmployeeDetailResponse struct {
	Summary          EmployeeDetailSummary     `json:"summary"`
	EmployeesOnLeave []EmployeeOnLeaveResponse `json:"employeesOnLeave"`
	Date             string                    `json:"date"`
}

type EmployeeDetailSummary struct {
	TotalEmployees        int64          `json:"totalEmployees"`
	EmployeesWorkingToday int64          `json:"employeesWorkingToday"`
	EmployeesOnLeaveToday int64          `json:"employeesOnLeaveToday"`
	LeaveBreakdown        LeaveBreakdown `json:"leaveBreakdown"`
}

type LeaveBreakdown struct {
	Casual int64 `json:"casual"`
	Sick   int64 `json:"sick"`
}

type EmployeeOnLeaveResponse struct {
	ID           string       `json:"id"`
	EmployeeID   string       `json:"employeeId"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Department   *string      `json:"department"`
	PhoneNumber  *string      `json:"phoneNumber,omitempty"`
	LeaveDetails LeaveDetails `json:"leaveDetails"`
}

type LeaveDetails struct {
	LeaveType     string  `json:"leaveType"`
	FromDate      string  `json:"fromDate"`
	EndDate       string  `json:"endDate"`
	TotalDays     float64 `json:"totalDays"`
	IsHalfDay     bool    `json:"isHalfDay"`
	HalfDayPeriod *string `json:"halfDayPeriod,omitempty"`
	Reason        string  `json:"reason"`
	AppliedDate   string  `json:"appliedDate"`
}
