package shift

import "github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"

var (
	ErrShiftNotFound       = apperror.New(apperror.KindNotFound, "SHIFT_NOT_FOUND", "shift not found")
	ErrShiftInactive       = apperror.New(apperror.KindConflict, "SHIFT_INACTIVE", "shift is not active")
	ErrShiftInUse          = apperror.New(apperror.KindConflict, "SHIFT_IN_USE", "shift has assigned employees; supply a replacement shift")
	ErrInvalidReplacement  = apperror.New(apperror.KindValidation, "INVALID_REPLACEMENT_SHIFT", "replacement shift must be a different, active shift")
	ErrReplacementNotFound = apperror.New(apperror.KindNotFound, "REPLACEMENT_SHIFT_NOT_FOUND", "replacement shift not found")
)
