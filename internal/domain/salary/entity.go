package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Salary is one payment of an employee's basic salary.
type Salary struct {
	ID           string
	EmployeeID   string
	DepartmentID *string
	BasicSalary  decimal.Decimal
	PayDate      time.Time
	CreatedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	EmployeeName   string
	EmployeeCode   string
	DepartmentName *string
}
