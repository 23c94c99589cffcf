package shift

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultGraceMinutes = 15
	MaxGraceMinutes     = 60
)

var (
	DefaultMinimumHours = decimal.NewFromInt(8)
	MinMinimumHours     = decimal.NewFromInt(1)
	MaxMinimumHours     = decimal.NewFromInt(24)
)

type Shift struct {
	ID              string
	Name            string
	StartTime       string // HH:MM
	EndTime         string // HH:MM
	IsCrossMidnight bool
	GraceMinutes    int
	MinimumHours    decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	EmployeeCount int
}

// Snapshot is the subset of a shift an attendance record keeps so that later
// edits to the shift never change how past days were classified.
type Snapshot struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	StartTime       string          `json:"startTime"`
	EndTime         string          `json:"endTime"`
	IsCrossMidnight bool            `json:"isCrossMidnight"`
	GraceMinutes    int             `json:"graceMinutes"`
	MinimumHours    decimal.Decimal `json:"minimumHours"`
}

func (s Shift) Snapshot() Snapshot {
	return Snapshot{
		ID:              s.ID,
		Name:            s.Name,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		IsCrossMidnight: s.IsCrossMidnight,
		GraceMinutes:    s.GraceMinutes,
		MinimumHours:    s.MinimumHours,
	}
}

// StartOffset returns the shift start as an offset from midnight.
func (s Snapshot) StartOffset() (time.Duration, error) {
	return ParseClock(s.StartTime)
}

// EndOffset returns the shift end as an offset from midnight.
func (s Snapshot) EndOffset() (time.Duration, error) {
	return ParseClock(s.EndTime)
}

// ParseClock converts HH:MM into an offset from midnight.
func ParseClock(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", v, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// ClampGraceMinutes applies the default and the [0,60] bounds.
func ClampGraceMinutes(v *int) int {
	if v == nil {
		return DefaultGraceMinutes
	}
	switch {
	case *v < 0:
		return 0
	case *v > MaxGraceMinutes:
		return MaxGraceMinutes
	}
	return *v
}

// ClampMinimumHours applies the default, the [1,24] bounds and rounds to the
// nearest half hour.
func ClampMinimumHours(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return DefaultMinimumHours
	}
	h := v.Mul(decimal.NewFromInt(2)).Round(0).Div(decimal.NewFromInt(2))
	switch {
	case h.LessThan(MinMinimumHours):
		return MinMinimumHours
	case h.GreaterThan(MaxMinimumHours):
		return MaxMinimumHours
	}
	return h
}
