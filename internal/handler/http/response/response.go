package response

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
)

type Response struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message,omitempty"`
	Data       interface{}            `json:"data,omitempty"`
	Error      *ErrorDetail           `json:"error,omitempty"`
	Pagination *pagination.Pagination `json:"pagination,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// failure builds an error body. The message is repeated at the top level for
// clients that read a plain string.
func failure(code, message string, details map[string]string) Response {
	return Response{
		Success: false,
		Message: message,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fallback := failure("ENCODING_ERROR", "Failed to encode response", nil)
		_ = json.NewEncoder(w).Encode(fallback)
	}
}

// Success responses
func Success(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMessage(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithPagination(w http.ResponseWriter, data interface{}, p pagination.Pagination) {
	writeJSON(w, http.StatusOK, Response{
		Success:    true,
		Data:       data,
		Pagination: &p,
	})
}

// SuccessWithFields writes success plus the given keys at the top level of
// the body, for payloads such as {"success":true,"leaveBalance":{...}}.
func SuccessWithFields(w http.ResponseWriter, fields map[string]interface{}) {
	body := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	writeJSON(w, http.StatusOK, body)
}

// Error responses
func ErrorWithStatus(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, failure(code, message, details))
}

func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, failure("BAD_REQUEST", message, details))
}

func ValidationError(w http.ResponseWriter, details map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, failure("VALIDATION_ERROR", "Validation failed", details))
}

func Unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, failure("UNAUTHORIZED", message, nil))
}

func Forbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, failure("FORBIDDEN", message, nil))
}

func NotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, failure("NOT_FOUND", message, nil))
}

func InternalServerError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, failure("INTERNAL_SERVER_ERROR", message, nil))
}

func Conflict(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusConflict, failure("CONFLICT", message, nil))
}

func TooManyRequests(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusTooManyRequests, failure("RATE_LIMITED", message, nil))
}
