package auth

import "github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"

var (
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	ErrInvalidToken       = apperror.New(apperror.KindUnauthorized, "INVALID_TOKEN", "invalid or expired token")
	ErrMissingPrincipal   = apperror.New(apperror.KindUnauthorized, "UNAUTHENTICATED", "authentication required")
	ErrForbidden          = apperror.New(apperror.KindForbidden, "FORBIDDEN", "you are not allowed to access this resource")
	ErrWrongPassword      = apperror.New(apperror.KindValidation, "WRONG_PASSWORD", "current password is incorrect")
)
