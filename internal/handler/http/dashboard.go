package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetDashboard returns headcount, today's attendance and leave figures
	GetDashboard(w http.ResponseWriter, r *http.Request)
	// GetEmployeeDetail returns the employees on leave for a day
	GetEmployeeDetail(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetDashboard handles GET /dashboard/summary
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployeeDetail handles GET /dashboard/employee-detail?date=YYYY-MM-DD
func (h *dashboardHandlerImpl) GetEmployeeDetail(w http.ResponseWriter, r *http.Request) {
	date := ""
	if v := queryString(r, "date"); v != nil {
		date = *v
	}

	result, err := h.dashboardService.GetEmployeeDetail(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
