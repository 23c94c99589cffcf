package attendance

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/shopspring/decimal"
)

const maxSession = 24 * time.Hour

var secondsPerHour = decimal.NewFromInt(3600)

// Classify derives status, working hours and lateness for one day. Clock
// values of the shift are read in loc.
func Classify(s shift.Snapshot, checkIn, checkOut *time.Time, loc *time.Location) (attendance.Classification, error) {
	if checkIn == nil {
		return attendance.Classification{
			Status:       attendance.StatusAbsent,
			WorkingHours: decimal.Zero,
		}, nil
	}

	isLate, lateMinutes, err := lateness(s, *checkIn, loc)
	if err != nil {
		return attendance.Classification{}, err
	}

	if checkOut == nil {
		return attendance.Classification{
			Status:       attendance.StatusPresent,
			WorkingHours: decimal.Zero,
			IsLate:       isLate,
			LateMinutes:  lateMinutes,
			Provisional:  true,
		}, nil
	}

	elapsed := Elapsed(*checkIn, *checkOut, s.IsCrossMidnight)

	minimum := s.MinimumHours
	if minimum.LessThanOrEqual(decimal.Zero) {
		minimum = shift.DefaultMinimumHours
	}
	required := time.Duration(minimum.Mul(secondsPerHour).IntPart()) * time.Second

	status := attendance.StatusHalfDay
	switch {
	case elapsed <= 0:
		status = attendance.StatusAbsent
	case elapsed >= required:
		status = attendance.StatusPresent
	}

	return attendance.Classification{
		Status:       status,
		WorkingHours: WorkingHours(elapsed),
		IsLate:       isLate,
		LateMinutes:  lateMinutes,
	}, nil
}

// Elapsed is checkOut - checkIn. A negative span on a cross-midnight shift
// means the check-out clock belongs to the next day. The result lies in
// [0, 24h].
func Elapsed(checkIn, checkOut time.Time, crossMidnight bool) time.Duration {
	elapsed := checkOut.Sub(checkIn)
	if elapsed < 0 && crossMidnight {
		elapsed += 24 * time.Hour
	}
	if elapsed < 0 {
		return 0
	}
	if elapsed > maxSession {
		return maxSession
	}
	return elapsed
}

// WorkingHours converts d to hours truncated to two decimals.
func WorkingHours(d time.Duration) decimal.Decimal {
	if d <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(d / time.Second)).Div(secondsPerHour).Truncate(2)
}

// ShiftStart returns the start of the shift occurrence that checkIn belongs
// to. On a cross-midnight shift a check-in before the end clock belongs to
// the occurrence that started the previous evening.
func ShiftStart(s shift.Snapshot, checkIn time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	startOffset, err := s.StartOffset()
	if err != nil {
		return time.Time{}, err
	}
	endOffset, err := s.EndOffset()
	if err != nil {
		return time.Time{}, err
	}

	local := checkIn.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	start := midnight.Add(startOffset)

	if s.IsCrossMidnight && local.Sub(midnight) < endOffset {
		start = start.AddDate(0, 0, -1)
	}
	return start, nil
}

func lateness(s shift.Snapshot, checkIn time.Time, loc *time.Location) (bool, int, error) {
	start, err := ShiftStart(s, checkIn, loc)
	if err != nil {
		return false, 0, err
	}
	grace := time.Duration(s.GraceMinutes) * time.Minute
	if !checkIn.After(start.Add(grace)) {
		return false, 0, nil
	}
	return true, int(checkIn.Sub(start) / time.Minute), nil
}
