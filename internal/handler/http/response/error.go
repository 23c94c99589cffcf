package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation:          http.StatusUnprocessableEntity,
	apperror.KindConflict:            http.StatusConflict,
	apperror.KindNotFound:            http.StatusNotFound,
	apperror.KindInvalidState:        http.StatusConflict,
	apperror.KindInsufficientBalance: http.StatusUnprocessableEntity,
	apperror.KindUnauthorized:        http.StatusUnauthorized,
	apperror.KindForbidden:           http.StatusForbidden,
}

// StatusOf returns the HTTP status for a domain error kind.
func StatusOf(kind apperror.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	appErr := apperror.FromError(err)
	status := StatusOf(appErr.Kind)
	if status == http.StatusInternalServerError {
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	ErrorWithStatus(w, status, appErr.Code, appErr.Message, nil)
}
