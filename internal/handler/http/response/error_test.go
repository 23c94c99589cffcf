package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleError(t *testing.T) {
	notFound := apperror.New(apperror.KindNotFound, "SHIFT_NOT_FOUND", "shift not found")

	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		message  string
		hasField string
	}{
		{
			name:     "validation errors",
			err:      validator.ValidationErrors{{Field: "date", Message: "date is required"}},
			status:   http.StatusUnprocessableEntity,
			code:     "VALIDATION_ERROR",
			message:  "Validation failed",
			hasField: "date",
		},
		{
			name:    "wrapped domain error",
			err:     fmt.Errorf("load shift: %w", notFound),
			status:  http.StatusNotFound,
			code:    "SHIFT_NOT_FOUND",
			message: "shift not found",
		},
		{
			name:    "custom message keeps code",
			err:     apperror.WithMessage(apperror.New(apperror.KindInsufficientBalance, "INSUFFICIENT_BALANCE", "insufficient"), "only 1.5 casual days remain"),
			status:  http.StatusUnprocessableEntity,
			code:    "INSUFFICIENT_BALANCE",
			message: "only 1.5 casual days remain",
		},
		{
			name:    "invalid state",
			err:     apperror.New(apperror.KindInvalidState, "LEAVE_ALREADY_DECIDED", "leave request is no longer pending"),
			status:  http.StatusConflict,
			code:    "LEAVE_ALREADY_DECIDED",
			message: "leave request is no longer pending",
		},
		{
			name:    "unknown error is hidden",
			err:     errors.New("pq: connection refused"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Equal(t, tt.message, resp.Message, "top-level message mirrors the error")
			if tt.hasField != "" {
				assert.Contains(t, resp.Error.Details, tt.hasField)
			}
		})
	}
}

func TestSuccessWithFields(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessWithFields(rec, map[string]interface{}{"leaveBalance": map[string]int{"remaining": 4}})

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body, "leaveBalance")
	assert.NotContains(t, body, "data")
}
