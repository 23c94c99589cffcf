package leave

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type BalanceCalculator struct {
	now func() time.Time
	loc *time.Location
}

// NewBalanceCalculator reads the current month in loc.
func NewBalanceCalculator(now func() time.Time, loc *time.Location) *BalanceCalculator {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &BalanceCalculator{now: now, loc: loc}
}

// MonthsWorked counts the calendar months of year the employee has been
// employed through the current month. A month is credited in full whatever
// the joining day.
func (c *BalanceCalculator) MonthsWorked(dateOfJoining time.Time, year int) int {
	today := c.now().In(c.loc)
	if year > today.Year() || dateOfJoining.Year() > year {
		return 0
	}

	endMonth := 12
	if year == today.Year() {
		endMonth = int(today.Month())
	}

	if dateOfJoining.Year() < year {
		return endMonth
	}

	months := endMonth - int(dateOfJoining.Month()) + 1
	if months < 0 {
		return 0
	}
	return months
}

// Calculate builds the balance of every leave type from the used counters.
func (c *BalanceCalculator) Calculate(employeeID string, dateOfJoining time.Time, year int, used map[leave.LeaveType]decimal.Decimal) leave.Balance {
	months := c.MonthsWorked(dateOfJoining, year)
	available := leave.MonthlyAllocation.Mul(decimal.NewFromInt(int64(months)))

	typeBalance := func(t leave.LeaveType) leave.TypeBalance {
		u := used[t]
		remaining := available.Sub(u)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		return leave.TypeBalance{
			MonthlyAllocation: leave.MonthlyAllocation,
			Available:         available,
			Used:              u,
			Remaining:         remaining,
		}
	}

	return leave.Balance{
		EmployeeID:    employeeID,
		Year:          year,
		DateOfJoining: dateOfJoining,
		MonthsWorked:  months,
		Casual:        typeBalance(leave.LeaveTypeCasual),
		Sick:          typeBalance(leave.LeaveTypeSick),
	}
}
