package salary

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// AddSalaryRequest is the body of POST /salary/add. A missing basicSalary
// falls back to the salary on the employee record.
type AddSalaryRequest struct {
	EmployeeID   string           `json:"employeeId"`
	PayDate      string           `json:"payDate"`
	DepartmentID *string          `json:"department,omitempty"`
	BasicSalary  *decimal.Decimal `json:"basicSalary,omitempty"`
}

func (r *AddSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId must be a valid id",
		})
	}
	if _, ok := validator.IsValidDate(r.PayDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "payDate",
			Message: "payDate must be in YYYY-MM-DD format",
		})
	}
	if r.DepartmentID != nil && *r.DepartmentID != "" && !validator.IsValidUUID(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must be a valid id",
		})
	}
	if r.BasicSalary != nil && !r.BasicSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "basicSalary",
			Message: "basicSalary must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryFilter struct {
	EmployeeID   *string
	DepartmentID *string
	From         *string
	To           *string

	// Pagination
	Page  int
	Limit int
}

func (f *SalaryFilter) Validate() error {
	errs := pagination.Normalize(&f.Page, &f.Limit)

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId must be a valid id",
		})
	}
	if f.DepartmentID != nil && !validator.IsValidUUID(*f.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must be a valid id",
		})
	}
	from, fromOK := time.Time{}, true
	if f.From != nil {
		from, fromOK = validator.IsValidDate(*f.From)
		if !fromOK {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
	}
	if f.To != nil {
		to, ok := validator.IsValidDate(*f.To)
		switch {
		case !ok:
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		case f.From != nil && fromOK && to.Before(from):
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must not be before from",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employeeId"`
	EmployeeCode   string  `json:"employeeCode"`
	EmployeeName   string  `json:"employeeName"`
	DepartmentID   *string `json:"departmentId"`
	DepartmentName *string `json:"department"`
	BasicSalary    float64 `json:"basicSalary"`
	PayDate        string  `json:"payDate"`
	CreatedAt      string  `json:"createdAt"`
}

type ListSalaryResponse struct {
	Salaries   []SalaryResponse      `json:"salaries"`
	Pagination pagination.Pagination `json:"pagination"`
}

func ToResponse(s Salary) SalaryResponse {
	return SalaryResponse{
		ID:             s.ID,
		EmployeeID:     s.EmployeeID,
		EmployeeCode:   s.EmployeeCode,
		EmployeeName:   s.EmployeeName,
		DepartmentID:   s.DepartmentID,
		DepartmentName: s.DepartmentName,
		BasicSalary:    s.BasicSalary.InexactFloat64(),
		PayDate:        s.PayDate.Format(validator.DateLayout),
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}
