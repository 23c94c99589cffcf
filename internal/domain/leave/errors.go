package leave

import "github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"

var (
	ErrLeaveRequestNotFound = apperror.New(apperror.KindNotFound, "LEAVE_REQUEST_NOT_FOUND", "leave request not found")
	ErrLeaveAlreadyDecided  = apperror.New(apperror.KindInvalidState, "LEAVE_ALREADY_DECIDED", "leave request is no longer pending")
	ErrInsufficientBalance  = apperror.New(apperror.KindInsufficientBalance, "INSUFFICIENT_BALANCE", "insufficient leave balance")
)
