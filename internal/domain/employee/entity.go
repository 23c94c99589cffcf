package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID            string
	UserID        string
	EmployeeCode  string
	Name          string
	Email         string
	DepartmentID  *string
	ShiftID       string
	DateOfJoining time.Time
	DateOfBirth   *time.Time
	Gender        *Gender
	Designation   *string
	PhoneNumber   *string
	Salary        *decimal.Decimal
	AccountNumber *string
	BankBranch    *string
	BankIFSC      *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time

	// Join
	DepartmentName *string
	ShiftName      string
	Role           string
}

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)
