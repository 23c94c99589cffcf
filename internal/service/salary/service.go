package salary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type SalaryServiceImpl struct {
	salary.SalaryRepository
	employee.EmployeeRepository
}

func NewSalaryService(salaryRepository salary.SalaryRepository, employeeRepository employee.EmployeeRepository) salary.SalaryService {
	return &SalaryServiceImpl{
		SalaryRepository:   salaryRepository,
		EmployeeRepository: employeeRepository,
	}
}

// Add implements salary.SalaryService.
func (s *SalaryServiceImpl) Add(ctx context.Context, p auth.Principal, req salary.AddSalaryRequest) (salary.SalaryResponse, error) {
	if !p.IsAdmin() {
		return salary.SalaryResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return salary.SalaryResponse{}, err
	}
	payDate, _ := validator.IsValidDate(req.PayDate)

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	departmentID := emp.DepartmentID
	if req.DepartmentID != nil && *req.DepartmentID != "" {
		if emp.DepartmentID == nil || *emp.DepartmentID != *req.DepartmentID {
			return salary.SalaryResponse{}, salary.ErrDepartmentMismatch
		}
	}

	basic := req.BasicSalary
	if basic == nil {
		basic = emp.Salary
	}
	if basic == nil || !basic.IsPositive() {
		return salary.SalaryResponse{}, salary.ErrEmployeeHasNoSalary
	}

	var createdBy *string
	if p.UserID != "" {
		createdBy = &p.UserID
	}

	created, err := s.SalaryRepository.Create(ctx, salary.Salary{
		EmployeeID:   emp.ID,
		DepartmentID: departmentID,
		BasicSalary:  *basic,
		PayDate:      payDate,
		CreatedBy:    createdBy,
	})
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	slog.Info("Salary recorded",
		"salary_id", created.ID,
		"employee_id", created.EmployeeID,
		"pay_date", req.PayDate,
		"basic_salary", created.BasicSalary.String(),
	)
	return salary.ToResponse(created), nil
}

// Get implements salary.SalaryService.
func (s *SalaryServiceImpl) Get(ctx context.Context, p auth.Principal, id string) (salary.SalaryResponse, error) {
	record, err := s.SalaryRepository.GetByID(ctx, id)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	// Hide other employees' payslips behind a not found.
	if !p.CanAccessEmployee(record.EmployeeID) {
		return salary.SalaryResponse{}, salary.ErrSalaryNotFound
	}
	return salary.ToResponse(record), nil
}

// List implements salary.SalaryService.
func (s *SalaryServiceImpl) List(ctx context.Context, filter salary.SalaryFilter) (salary.ListSalaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return salary.ListSalaryResponse{}, err
	}

	records, total, err := s.SalaryRepository.List(ctx, filter)
	if err != nil {
		return salary.ListSalaryResponse{}, fmt.Errorf("failed to list salaries: %w", err)
	}

	resp := make([]salary.SalaryResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, salary.ToResponse(r))
	}
	return salary.ListSalaryResponse{
		Salaries:   resp,
		Pagination: pagination.New(filter.Page, filter.Limit, total),
	}, nil
}

// ListByEmployee implements salary.SalaryService.
func (s *SalaryServiceImpl) ListByEmployee(ctx context.Context, p auth.Principal, employeeID string) ([]salary.SalaryResponse, error) {
	if employeeID == "" {
		employeeID = p.EmployeeID
	}
	if employeeID == "" {
		return nil, employee.ErrNoEmployeeProfile
	}
	if !p.CanAccessEmployee(employeeID) {
		return nil, auth.ErrForbidden
	}

	filter := salary.SalaryFilter{EmployeeID: &employeeID, Page: 1, Limit: pagination.MaxLimit}
	records, _, err := s.SalaryRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries of employee %s: %w", employeeID, err)
	}

	resp := make([]salary.SalaryResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, salary.ToResponse(r))
	}
	return resp, nil
}
