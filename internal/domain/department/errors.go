package department

import "github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"

var (
	ErrDepartmentNotFound   = apperror.New(apperror.KindNotFound, "DEPARTMENT_NOT_FOUND", "department not found")
	ErrDepartmentNameExists = apperror.New(apperror.KindConflict, "DEPARTMENT_EXISTS", "department name already exists")
	ErrDepartmentInUse      = apperror.New(apperror.KindConflict, "DEPARTMENT_IN_USE", "department still has employees")
)
