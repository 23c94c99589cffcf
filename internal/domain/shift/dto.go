package shift

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateShiftRequest struct {
	Name            string           `json:"name"`
	StartTime       string           `json:"startTime"`
	EndTime         string           `json:"endTime"`
	IsCrossMidnight bool             `json:"isCrossMidnight"`
	GraceMinutes    *int             `json:"graceMinutes,omitempty"`
	MinimumHours    *decimal.Decimal `json:"minimumHours,omitempty"`
}

func (r *CreateShiftRequest) Validate() error {
	errs := validateDefinition(r.Name, r.StartTime, r.EndTime, r.IsCrossMidnight)
	if r.MinimumHours != nil && r.MinimumHours.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "minimumHours",
			Message: "minimumHours must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateShiftRequest struct {
	ID              string           `json:"-"`
	Name            *string          `json:"name,omitempty"`
	StartTime       *string          `json:"startTime,omitempty"`
	EndTime         *string          `json:"endTime,omitempty"`
	IsCrossMidnight *bool            `json:"isCrossMidnight,omitempty"`
	GraceMinutes    *int             `json:"graceMinutes,omitempty"`
	MinimumHours    *decimal.Decimal `json:"minimumHours,omitempty"`
}

// Apply merges the request into s and validates the resulting definition.
func (r *UpdateShiftRequest) Apply(s Shift) (Shift, error) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.StartTime != nil {
		s.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		s.EndTime = *r.EndTime
	}
	if r.IsCrossMidnight != nil {
		s.IsCrossMidnight = *r.IsCrossMidnight
	}
	if r.GraceMinutes != nil {
		s.GraceMinutes = ClampGraceMinutes(r.GraceMinutes)
	}
	if r.MinimumHours != nil {
		s.MinimumHours = ClampMinimumHours(r.MinimumHours)
	}

	if errs := validateDefinition(s.Name, s.StartTime, s.EndTime, s.IsCrossMidnight); len(errs) > 0 {
		return Shift{}, errs
	}
	return s, nil
}

type DeactivateShiftRequest struct {
	ID                 string
	ReplacementShiftID *string
}

func (r *DeactivateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ReplacementShiftID != nil && !validator.IsValidUUID(*r.ReplacementShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "replacementShiftId",
			Message: "replacementShiftId must be a valid id",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateDefinition(name, start, end string, crossMidnight bool) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	startOK := validator.IsValidClock(start)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "startTime",
			Message: "startTime must be in HH:MM format",
		})
	}
	endOK := validator.IsValidClock(end)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "endTime",
			Message: "endTime must be in HH:MM format",
		})
	}

	// Zero-padded HH:MM compares correctly as a string.
	if startOK && endOK && !crossMidnight && end <= start {
		errs = append(errs, validator.ValidationError{
			Field:   "endTime",
			Message: "endTime must be later than startTime unless the shift crosses midnight",
		})
	}
	if startOK && endOK && crossMidnight && end == start {
		errs = append(errs, validator.ValidationError{
			Field:   "endTime",
			Message: "endTime must differ from startTime",
		})
	}

	return errs
}

type ShiftResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	IsCrossMidnight bool    `json:"isCrossMidnight"`
	GraceMinutes    int     `json:"graceMinutes"`
	MinimumHours    float64 `json:"minimumHours"`
	IsActive        bool    `json:"isActive"`
	EmployeeCount   int     `json:"employeeCount"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

func ToResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:              s.ID,
		Name:            s.Name,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		IsCrossMidnight: s.IsCrossMidnight,
		GraceMinutes:    s.GraceMinutes,
		MinimumHours:    s.MinimumHours.InexactFloat64(),
		IsActive:        s.IsActive,
		EmployeeCount:   s.EmployeeCount,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       s.UpdatedAt.Format(time.RFC3339),
	}
}
