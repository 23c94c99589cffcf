package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	EmployeeCode string  `json:"employeeId"`
	DateOfBirth  *string `json:"dob,omitempty"`
	DateOfJoin   string  `json:"doj"`
	Gender       *string `json:"gender,omitempty"`
	DepartmentID *string `json:"department,omitempty"`
	ShiftID      string  `json:"shiftId"`
	PhoneNumber  *string `json:"phoneNumber,omitempty"`
	Designation  *string `json:"designation,omitempty"`
	Role         string  `json:"role,omitempty"`
	PayrollDetails
}

// PayrollDetails are the optional pay and bank fields of an employee.
type PayrollDetails struct {
	Salary        *decimal.Decimal `json:"salary,omitempty"`
	AccountNumber *string          `json:"accountNumber,omitempty"`
	BankBranch    *string          `json:"bankBranch,omitempty"`
	BankIFSC      *string          `json:"bankIfsc,omitempty"`
}

func (p PayrollDetails) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors
	if p.Salary != nil && p.Salary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "salary",
			Message: "salary must not be negative",
		})
	}
	if p.AccountNumber != nil && *p.AccountNumber != "" && !validator.IsValidAccountNumber(*p.AccountNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "accountNumber",
			Message: "accountNumber must contain 6-20 digits",
		})
	}
	if p.BankIFSC != nil && *p.BankIFSC != "" && !validator.IsValidIFSC(*p.BankIFSC) {
		errs = append(errs, validator.ValidationError{
			Field:   "bankIfsc",
			Message: "bankIfsc must be a valid IFSC code",
		})
	}
	return errs
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}
	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId must be 2-20 letters, digits or dashes",
		})
	}
	if _, ok := validator.IsValidDate(r.DateOfJoin); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "doj",
			Message: "doj must be in YYYY-MM-DD format",
		})
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "dob",
				Message: "dob must be in YYYY-MM-DD format",
			})
		}
	}
	if r.Gender != nil && *r.Gender != "" {
		if !validator.IsInSlice(strings.ToLower(*r.Gender), []string{"male", "female", "other"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "gender",
				Message: "gender must be one of: male, female, other",
			})
		}
	}
	if !validator.IsValidUUID(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shiftId",
			Message: "shiftId is required",
		})
	}
	if r.DepartmentID != nil && *r.DepartmentID != "" && !validator.IsValidUUID(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must be a valid id",
		})
	}
	if r.PhoneNumber != nil && *r.PhoneNumber != "" && !validator.IsValidPhoneNumber(*r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "phoneNumber",
			Message: "phoneNumber must contain 8-15 digits",
		})
	}
	if r.Role != "" && !validator.IsInSlice(r.Role, []string{"admin", "employee"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: admin, employee",
		})
	}
	errs = append(errs, r.PayrollDetails.validate()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	DateOfBirth  *string `json:"dob,omitempty"`
	DateOfJoin   *string `json:"doj,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	DepartmentID *string `json:"department,omitempty"`
	ShiftID      *string `json:"shiftId,omitempty"`
	PhoneNumber  *string `json:"phoneNumber,omitempty"`
	Designation  *string `json:"designation,omitempty"`
	PayrollDetails
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.DateOfJoin != nil {
		if _, ok := validator.IsValidDate(*r.DateOfJoin); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "doj",
				Message: "doj must be in YYYY-MM-DD format",
			})
		}
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "dob",
				Message: "dob must be in YYYY-MM-DD format",
			})
		}
	}
	if r.Gender != nil && *r.Gender != "" {
		if !validator.IsInSlice(strings.ToLower(*r.Gender), []string{"male", "female", "other"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "gender",
				Message: "gender must be one of: male, female, other",
			})
		}
	}
	if r.ShiftID != nil && !validator.IsValidUUID(*r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shiftId",
			Message: "shiftId must be a valid id",
		})
	}
	if r.DepartmentID != nil && *r.DepartmentID != "" && !validator.IsValidUUID(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must be a valid id",
		})
	}
	if r.PhoneNumber != nil && *r.PhoneNumber != "" && !validator.IsValidPhoneNumber(*r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "phoneNumber",
			Message: "phoneNumber must contain 8-15 digits",
		})
	}
	errs = append(errs, r.PayrollDetails.validate()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeFilter struct {
	Search       *string
	DepartmentID *string
	ShiftID      *string

	// Pagination
	Page  int
	Limit int
}

func (f *EmployeeFilter) Validate() error {
	errs := pagination.Normalize(&f.Page, &f.Limit)

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

type EmployeeResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"userId"`
	EmployeeCode   string  `json:"employeeId"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role,omitempty"`
	DepartmentID   *string `json:"departmentId,omitempty"`
	DepartmentName *string `json:"department,omitempty"`
	ShiftID        string  `json:"shiftId"`
	ShiftName      string  `json:"shiftName,omitempty"`
	DateOfJoining  string  `json:"doj"`
	DateOfBirth    *string `json:"dob,omitempty"`
	Gender         *string `json:"gender,omitempty"`
	Designation    *string `json:"designation,omitempty"`
	PhoneNumber    *string  `json:"phoneNumber,omitempty"`
	Salary         *float64 `json:"salary,omitempty"`
	AccountNumber  *string  `json:"accountNumber,omitempty"`
	BankBranch     *string  `json:"bankBranch,omitempty"`
	BankIFSC       *string  `json:"bankIfsc,omitempty"`
	IsActive       bool     `json:"isActive"`
	CreatedAt      string   `json:"createdAt"`
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse    `json:"employees"`
	Pagination pagination.Pagination `json:"pagination"`
}

func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		EmployeeCode:   e.EmployeeCode,
		Name:           e.Name,
		Email:          e.Email,
		Role:           e.Role,
		DepartmentID:   e.DepartmentID,
		DepartmentName: e.DepartmentName,
		ShiftID:        e.ShiftID,
		ShiftName:      e.ShiftName,
		DateOfJoining:  e.DateOfJoining.Format(validator.DateLayout),
		Designation:    e.Designation,
		PhoneNumber:    e.PhoneNumber,
		AccountNumber:  e.AccountNumber,
		BankBranch:     e.BankBranch,
		BankIFSC:       e.BankIFSC,
		IsActive:       e.IsActive,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
	if e.DateOfBirth != nil {
		dob := e.DateOfBirth.Format(validator.DateLayout)
		resp.DateOfBirth = &dob
	}
	if e.Gender != nil {
		g := string(*e.Gender)
		resp.Gender = &g
	}
	if e.Salary != nil {
		salary := e.Salary.InexactFloat64()
		resp.Salary = &salary
	}
	return resp
}
