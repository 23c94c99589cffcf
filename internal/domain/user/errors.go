package user

import "github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"

var (
	ErrUserNotFound           = apperror.New(apperror.KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrUserEmailExists        = apperror.New(apperror.KindConflict, "EMAIL_EXISTS", "email already registered")
	ErrAdminPrivilegeRequired = apperror.New(apperror.KindForbidden, "ADMIN_REQUIRED", "admin privilege required")
)
