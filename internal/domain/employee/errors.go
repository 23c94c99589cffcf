package employee

import "github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound   = apperror.New(apperror.KindNotFound, "EMPLOYEE_NOT_FOUND", "employee not found")
	ErrEmployeeCodeExists = apperror.New(apperror.KindConflict, "EMPLOYEE_CODE_EXISTS", "employee code already exists")
	ErrEmailExists        = apperror.New(apperror.KindConflict, "EMAIL_EXISTS", "email already registered")
	ErrJoiningDateUnknown = apperror.New(apperror.KindNotFound, "JOINING_DATE_UNKNOWN", "employee date of joining is unknown")
	ErrNoEmployeeProfile  = apperror.New(apperror.KindForbidden, "NO_EMPLOYEE_PROFILE", "account is not linked to an employee")
)
