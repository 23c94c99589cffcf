package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler interface {
	Add(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type SalaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &SalaryHandlerImpl{salaryService: salaryService}
}

// Add implements SalaryHandler.
func (h *SalaryHandlerImpl) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req salary.AddSalaryRequest
	if !decodeJSON(w, r, "AddSalary", &req) {
		return
	}

	resp, err := h.salaryService.Add(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Salary added successfully", resp)
}

// List implements SalaryHandler.
func (h *SalaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := salary.SalaryFilter{
		EmployeeID:   queryString(r, "employeeId"),
		DepartmentID: queryString(r, "department"),
		From:         queryString(r, "from"),
		To:           queryString(r, "to"),
		Page:         page,
		Limit:        limit,
	}

	resp, err := h.salaryService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithPagination(w, resp.Salaries, resp.Pagination)
}

// ListByEmployee implements SalaryHandler.
func (h *SalaryHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	employeeID, ok := pathID(w, chi.URLParam(r, "employeeId"), "employee id")
	if !ok {
		return
	}

	salaries, err := h.salaryService.ListByEmployee(r.Context(), p, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, salaries)
}

// Get implements SalaryHandler.
func (h *SalaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, chi.URLParam(r, "id"), "salary id")
	if !ok {
		return
	}

	resp, err := h.salaryService.Get(r.Context(), p, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
