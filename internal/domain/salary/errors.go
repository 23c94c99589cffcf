package salary

import "github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"

var (
	ErrSalaryNotFound      = apperror.New(apperror.KindNotFound, "SALARY_NOT_FOUND", "salary record not found")
	ErrSalaryAlreadyPaid   = apperror.New(apperror.KindConflict, "SALARY_ALREADY_RECORDED", "salary already recorded for this pay date")
	ErrDepartmentMismatch  = apperror.New(apperror.KindValidation, "DEPARTMENT_MISMATCH", "employee does not belong to this department")
	ErrEmployeeHasNoSalary = apperror.New(apperror.KindValidation, "NO_BASIC_SALARY", "basicSalary is required when the employee has no salary configured")
)
