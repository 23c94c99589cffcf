package attendance

import "github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn = apperror.New(apperror.KindConflict, "ALREADY_CHECKED_IN", "you have already checked in today")
	ErrNotCheckedIn     = apperror.New(apperror.KindConflict, "NOT_CHECKED_IN", "you have not checked in yet")
	ErrDayOverridden    = apperror.New(apperror.KindConflict, "ATTENDANCE_OVERRIDDEN", "attendance for today was set by an administrator")

	// General errors
	ErrAttendanceNotFound = apperror.New(apperror.KindNotFound, "ATTENDANCE_NOT_FOUND", "attendance record not found")
)
