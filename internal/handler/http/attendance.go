package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	EmployeeMonth(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)
	TodaySummary(w http.ResponseWriter, r *http.Request)
	Mark(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// decodeCheck accepts an empty body, which means the caller's own record.
func decodeCheck(w http.ResponseWriter, r *http.Request, op string) (attendance.CheckRequest, bool) {
	var req attendance.CheckRequest
	if r.Body == nil {
		return req, true
	}
	if err := jsonDecoder(r).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}
	return req, true
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	req, ok := decodeCheck(w, r, "CheckIn")
	if !ok {
		return
	}

	resp, err := h.attendanceService.CheckIn(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", resp)
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	req, ok := decodeCheck(w, r, "CheckOut")
	if !ok {
		return
	}

	resp, err := h.attendanceService.CheckOut(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", resp)
}

// Today implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	employeeID, ok := pathID(w, chi.URLParam(r, "employeeId"), "employee id")
	if !ok {
		return
	}

	resp, err := h.attendanceService.Today(r.Context(), p, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// EmployeeMonth implements AttendanceHandler. The records and statistics are
// returned as top-level keys.
func (h *AttendanceHandlerImpl) EmployeeMonth(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	employeeID, ok := pathID(w, chi.URLParam(r, "employeeId"), "employee id")
	if !ok {
		return
	}

	month, err := queryInt(r, "month")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.attendanceService.EmployeeMonth(r.Context(), p, attendance.EmployeeMonthRequest{
		EmployeeID: employeeID,
		Month:      month,
		Year:       year,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithFields(w, map[string]interface{}{
		"attendance": resp.Attendance,
		"statistics": resp.Statistics,
	})
}

// ListAll implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := attendance.DailyFilter{
		Date:         r.URL.Query().Get("date"),
		DepartmentID: queryString(r, "department"),
		Status:       queryString(r, "status"),
		Page:         page,
		Limit:        limit,
	}

	resp, err := h.attendanceService.ListDaily(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithPagination(w, resp.Rows, resp.Pagination)
}

// Statistics implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	filter := attendance.StatisticsFilter{
		StartDate:    r.URL.Query().Get("startDate"),
		EndDate:      r.URL.Query().Get("endDate"),
		DepartmentID: queryString(r, "department"),
	}

	resp, err := h.attendanceService.Statistics(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// TodaySummary implements AttendanceHandler.
func (h *AttendanceHandlerImpl) TodaySummary(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.TodaySummary(r.Context(), queryString(r, "department"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Mark implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.MarkAttendanceRequest
	if !decodeJSON(w, r, "MarkAttendance", &req) {
		return
	}

	resp, err := h.attendanceService.MarkAttendance(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance marked successfully", resp)
}
