package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance
	daily   []attendance.DailyRow
	stats   attendance.Statistics
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]attendance.Attendance{}}
}

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format(validator.DateLayout)
}

func (f *fakeAttendanceRepo) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	key := recordKey(a.EmployeeID, a.Date)
	if _, ok := f.records[key]; ok {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	a.ID = uuid.NewString()
	f.records[key] = a
	return a, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	a, ok := f.records[recordKey(employeeID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (f *fakeAttendanceRepo) GetOpenSession(_ context.Context, employeeID string, since time.Time) (attendance.Attendance, error) {
	var newest *attendance.Attendance
	for _, a := range f.records {
		if a.EmployeeID != employeeID || a.CheckIn == nil || a.CheckOut != nil || a.Date.Before(since) {
			continue
		}
		if newest == nil || a.CheckIn.After(*newest.CheckIn) {
			a := a
			newest = &a
		}
	}
	if newest == nil {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	return *newest, nil
}

func (f *fakeAttendanceRepo) CloseSession(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	key := recordKey(a.EmployeeID, a.Date)
	current, ok := f.records[key]
	if !ok || current.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	f.records[key] = a
	return a, nil
}

func (f *fakeAttendanceRepo) UpsertOverride(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	key := recordKey(a.EmployeeID, a.Date)
	if current, ok := f.records[key]; ok {
		a.ID = current.ID
	} else {
		a.ID = uuid.NewString()
	}
	f.records[key] = a
	return a, nil
}

func (f *fakeAttendanceRepo) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range f.records {
		if a.EmployeeID == employeeID && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListDaily(_ context.Context, _ attendance.DailyFilter) ([]attendance.DailyRow, int64, error) {
	return f.daily, int64(len(f.daily)), nil
}

func (f *fakeAttendanceRepo) Statistics(_ context.Context, _ attendance.StatisticsFilter) (attendance.Statistics, error) {
	return f.stats, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	f.employees[e.ID] = e
	return e, nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) List(_ context.Context, _ employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, e employee.Employee) (employee.Employee, error) {
	f.employees[e.ID] = e
	return e, nil
}

func (f *fakeEmployeeRepo) SoftDelete(_ context.Context, id string) error {
	delete(f.employees, id)
	return nil
}

func (f *fakeEmployeeRepo) CountActive(_ context.Context, _ *string) (int64, error) {
	return int64(len(f.employees)), nil
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func (f *fakeShiftRepo) Create(_ context.Context, s shift.Shift) (shift.Shift, error) {
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id string) (shift.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) List(_ context.Context, _ bool) ([]shift.Shift, error) { return nil, nil }

func (f *fakeShiftRepo) Update(_ context.Context, s shift.Shift) (shift.Shift, error) {
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeShiftRepo) Deactivate(_ context.Context, _ string) error { return nil }

func (f *fakeShiftRepo) CountAssignedEmployees(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (f *fakeShiftRepo) ReassignEmployees(_ context.Context, _, _ string) (int64, error) {
	return 0, nil
}

type fixture struct {
	svc         *AttendanceServiceImpl
	attendances *fakeAttendanceRepo
	employee    employee.Employee
	nightWorker employee.Employee
	self        auth.Principal
	admin       auth.Principal
}

func newFixture(now time.Time) *fixture {
	office := shift.Shift{
		ID: uuid.NewString(), Name: "Office", StartTime: "09:00", EndTime: "18:00",
		GraceMinutes: 15, MinimumHours: decimal.NewFromInt(8), IsActive: true,
	}
	night := shift.Shift{
		ID: uuid.NewString(), Name: "Night", StartTime: "22:00", EndTime: "06:00", IsCrossMidnight: true,
		GraceMinutes: 15, MinimumHours: decimal.NewFromInt(7), IsActive: true,
	}

	emp := employee.Employee{
		ID: uuid.NewString(), UserID: uuid.NewString(), EmployeeCode: "EMP-001", Name: "Dewi",
		ShiftID: office.ID, DateOfJoining: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), IsActive: true,
	}
	nightEmp := employee.Employee{
		ID: uuid.NewString(), UserID: uuid.NewString(), EmployeeCode: "EMP-002", Name: "Budi",
		ShiftID: night.ID, DateOfJoining: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
	}

	attendances := newFakeAttendanceRepo()
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{emp.ID: emp, nightEmp.ID: nightEmp}}
	shifts := &fakeShiftRepo{shifts: map[string]shift.Shift{office.ID: office, night.ID: night}}

	svc := NewAttendanceService(attendances, employees, shifts, jakarta, nil).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return now }

	return &fixture{
		svc:         svc,
		attendances: attendances,
		employee:    emp,
		nightWorker: nightEmp,
		self:        auth.Principal{UserID: emp.UserID, Role: user.RoleEmployee, EmployeeID: emp.ID},
		admin:       auth.Principal{UserID: uuid.NewString(), Role: user.RoleAdmin},
	}
}

func (f *fixture) advance(to time.Time) {
	f.svc.now = func() time.Time { return to }
}

func TestAttendanceService_CheckInThenCheckOut(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 9, 20, 0, 0, jakarta))
	ctx := context.Background()

	in, err := f.svc.CheckIn(ctx, f.self, attendance.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", in.Date)
	assert.Equal(t, "present", in.Status)
	assert.True(t, in.IsLate)
	assert.Equal(t, 20, in.LateMinutes)
	require.NotNil(t, in.Shift)
	assert.Equal(t, "09:00", in.Shift.StartTime)

	f.advance(time.Date(2025, 3, 10, 14, 0, 0, 0, jakarta))
	out, err := f.svc.CheckOut(ctx, f.self, attendance.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, "half-day", out.Status)
	assert.Equal(t, 4.66, out.WorkingHours)
	require.NotNil(t, out.CheckOut)
	assert.Equal(t, "2025-03-10T14:00:00+07:00", *out.CheckOut)
}

func TestAttendanceService_CheckInTwiceSameDay(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 8, 55, 0, 0, jakarta))
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, f.self, attendance.CheckRequest{})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, f.self, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_CheckOutWithoutCheckIn(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 18, 0, 0, 0, jakarta))

	_, err := f.svc.CheckOut(context.Background(), f.self, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestAttendanceService_CheckOutOnlyOnce(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 9, 0, 0, 0, jakarta))
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, f.self, attendance.CheckRequest{})
	require.NoError(t, err)

	f.advance(time.Date(2025, 3, 10, 17, 30, 0, 0, jakarta))
	out, err := f.svc.CheckOut(ctx, f.self, attendance.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, "present", out.Status)
	assert.Equal(t, 8.5, out.WorkingHours)

	_, err = f.svc.CheckOut(ctx, f.self, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestAttendanceService_CheckOutUsesSnapshotAfterShiftEdit(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 9, 0, 0, 0, jakarta))
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, f.self, attendance.CheckRequest{})
	require.NoError(t, err)

	shifts := f.svc.ShiftRepository.(*fakeShiftRepo)
	office := shifts.shifts[f.employee.ShiftID]
	office.MinimumHours = decimal.NewFromInt(4)
	shifts.shifts[office.ID] = office

	f.advance(time.Date(2025, 3, 10, 14, 0, 0, 0, jakarta))
	out, err := f.svc.CheckOut(ctx, f.self, attendance.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, "half-day", out.Status)
}

func TestAttendanceService_CheckIn_AccessRules(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 9, 0, 0, 0, jakarta))
	ctx := context.Background()

	t.Run("employee cannot check in someone else", func(t *testing.T) {
		_, err := f.svc.CheckIn(ctx, f.self, attendance.CheckRequest{EmployeeID: f.nightWorker.ID})
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("admin without a profile must name an employee", func(t *testing.T) {
		_, err := f.svc.CheckIn(ctx, f.admin, attendance.CheckRequest{})
		assert.ErrorIs(t, err, employee.ErrNoEmployeeProfile)
	})

	t.Run("admin may check in on behalf of an employee", func(t *testing.T) {
		resp, err := f.svc.CheckIn(ctx, f.admin, attendance.CheckRequest{EmployeeID: f.employee.ID})
		require.NoError(t, err)
		assert.Equal(t, f.employee.ID, resp.EmployeeID)
	})
}

func TestAttendanceService_CheckInRejectedAfterOverride(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 9, 0, 0, 0, jakarta))
	ctx := context.Background()

	_, err := f.svc.MarkAttendance(ctx, f.admin, attendance.MarkAttendanceRequest{
		EmployeeID: f.employee.ID, Date: "2025-03-10", Status: "leave", Remarks: "family emergency",
	})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, f.self, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrDayOverridden)
}

func TestAttendanceService_MarkAttendance(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 12, 0, 0, 0, jakarta))
	ctx := context.Background()

	t.Run("employees cannot override", func(t *testing.T) {
		_, err := f.svc.MarkAttendance(ctx, f.self, attendance.MarkAttendanceRequest{
			EmployeeID: f.employee.ID, Date: "2025-03-10", Status: "present", Remarks: "x",
		})
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("cross-midnight times roll into the next day", func(t *testing.T) {
		in, out := "22:10", "05:50"
		resp, err := f.svc.MarkAttendance(ctx, f.admin, attendance.MarkAttendanceRequest{
			EmployeeID: f.nightWorker.ID, Date: "2025-03-09", Status: "present",
			Remarks: "badge reader offline", CheckIn: &in, CheckOut: &out,
		})
		require.NoError(t, err)
		assert.Equal(t, "present", resp.Status)
		assert.Equal(t, 7.66, resp.WorkingHours)
		assert.True(t, resp.IsManualOverride)
		require.NotNil(t, resp.OverriddenBy)
		assert.Equal(t, f.admin.UserID, *resp.OverriddenBy)
		require.NotNil(t, resp.CheckOut)
		assert.Equal(t, "2025-03-10T05:50:00+07:00", *resp.CheckOut)
	})

	t.Run("day shift rejects check-out before check-in", func(t *testing.T) {
		in, out := "17:00", "09:00"
		_, err := f.svc.MarkAttendance(ctx, f.admin, attendance.MarkAttendanceRequest{
			EmployeeID: f.employee.ID, Date: "2025-03-10", Status: "present",
			Remarks: "typo", CheckIn: &in, CheckOut: &out,
		})
		require.Error(t, err)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("overriding twice keeps a single record", func(t *testing.T) {
		for _, status := range []string{"absent", "half-day"} {
			_, err := f.svc.MarkAttendance(ctx, f.admin, attendance.MarkAttendanceRequest{
				EmployeeID: f.employee.ID, Date: "2025-03-07", Status: status, Remarks: "correction",
			})
			require.NoError(t, err)
		}
		rec, err := f.attendances.GetByEmployeeAndDate(ctx, f.employee.ID, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusHalfDay, rec.Status)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := f.svc.MarkAttendance(ctx, f.admin, attendance.MarkAttendanceRequest{
			EmployeeID: uuid.NewString(), Date: "2025-03-10", Status: "absent", Remarks: "x",
		})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}

func TestAttendanceService_Today(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 7, 0, 0, 0, jakarta))
	ctx := context.Background()

	resp, err := f.svc.Today(ctx, f.self, "")
	require.NoError(t, err)
	assert.False(t, resp.HasCheckedIn)
	assert.Nil(t, resp.Status)
	require.NotNil(t, resp.Shift)
	assert.Equal(t, "Office", resp.Shift.Name)

	f.advance(time.Date(2025, 3, 10, 9, 5, 0, 0, jakarta))
	_, err = f.svc.CheckIn(ctx, f.self, attendance.CheckRequest{})
	require.NoError(t, err)

	resp, err = f.svc.Today(ctx, f.self, "")
	require.NoError(t, err)
	assert.True(t, resp.HasCheckedIn)
	assert.False(t, resp.HasCheckedOut)
	require.NotNil(t, resp.Status)
	assert.Equal(t, "present", *resp.Status)
}

func TestAttendanceService_NightShiftBelongsToStartDay(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 11, 0, 30, 0, 0, jakarta))
	ctx := context.Background()
	night := auth.Principal{UserID: f.nightWorker.UserID, Role: user.RoleEmployee, EmployeeID: f.nightWorker.ID}

	early, err := f.svc.CheckIn(ctx, night, attendance.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", early.Date, "00:30 is part of the shift that started the evening before")
	assert.True(t, early.IsLate)

	f.advance(time.Date(2025, 3, 11, 6, 0, 0, 0, jakarta))
	_, err = f.svc.CheckOut(ctx, night, attendance.CheckRequest{})
	require.NoError(t, err)

	f.advance(time.Date(2025, 3, 11, 22, 0, 0, 0, jakarta))
	evening, err := f.svc.CheckIn(ctx, night, attendance.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", evening.Date)
	assert.False(t, evening.IsLate)
}

func TestAttendanceService_NightShiftThroughMidnight(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 22, 5, 0, 0, jakarta))
	ctx := context.Background()
	night := auth.Principal{UserID: f.nightWorker.UserID, Role: user.RoleEmployee, EmployeeID: f.nightWorker.ID}

	in, err := f.svc.CheckIn(ctx, night, attendance.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", in.Date)

	f.advance(time.Date(2025, 3, 11, 2, 0, 0, 0, jakarta))
	today, err := f.svc.Today(ctx, night, "")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", today.Date)
	assert.True(t, today.HasCheckedIn)
	assert.False(t, today.HasCheckedOut)

	_, err = f.svc.CheckIn(ctx, night, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	f.advance(time.Date(2025, 3, 11, 6, 0, 0, 0, jakarta))
	out, err := f.svc.CheckOut(ctx, night, attendance.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", out.Date)
	assert.Equal(t, "present", out.Status)
	assert.Equal(t, 7.91, out.WorkingHours)

	today, err = f.svc.Today(ctx, night, "")
	require.NoError(t, err)
	assert.True(t, today.HasCheckedOut)
}

func TestAttendanceService_NightShiftShortSessionIsHalfDay(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 22, 0, 0, 0, jakarta))
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, f.admin, attendance.CheckRequest{EmployeeID: f.nightWorker.ID})
	require.NoError(t, err)

	f.advance(time.Date(2025, 3, 11, 3, 0, 0, 0, jakarta))
	out, err := f.svc.CheckOut(ctx, f.admin, attendance.CheckRequest{EmployeeID: f.nightWorker.ID})
	require.NoError(t, err)
	assert.Equal(t, "half-day", out.Status)
	assert.Equal(t, 5.0, out.WorkingHours)
}

func TestAttendanceService_CheckOutIgnoresStaleSession(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 9, 0, 0, 0, jakarta))
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, f.self, attendance.CheckRequest{})
	require.NoError(t, err)

	f.advance(time.Date(2025, 3, 11, 10, 0, 0, 0, jakarta))
	_, err = f.svc.CheckOut(ctx, f.self, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn, "a day-shift session does not carry into the next day")

	f.advance(time.Date(2025, 3, 12, 10, 0, 0, 0, jakarta))
	_, err = f.svc.CheckOut(ctx, f.self, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	stale, err := f.attendances.GetByEmployeeAndDate(ctx, f.employee.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, stale.CheckOut)

	today, err := f.svc.Today(ctx, f.self, "")
	require.NoError(t, err)
	assert.False(t, today.HasCheckedIn)
	assert.Equal(t, "2025-03-12", today.Date)
}

func TestAttendanceService_EmployeeMonthCountsMissingDaysAsAbsent(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 10, 0, 0, 0, jakarta))
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	f.attendances.records[recordKey(f.employee.ID, day(6))] = attendance.Attendance{
		ID: uuid.NewString(), EmployeeID: f.employee.ID, Date: day(6),
		Status: attendance.StatusPresent, WorkingHours: decimal.RequireFromString("8.5"),
	}
	f.attendances.records[recordKey(f.employee.ID, day(7))] = attendance.Attendance{
		ID: uuid.NewString(), EmployeeID: f.employee.ID, Date: day(7),
		Status: attendance.StatusHalfDay, WorkingHours: decimal.RequireFromString("4.25"), IsLate: true, LateMinutes: 30,
	}
	f.attendances.records[recordKey(f.employee.ID, day(10))] = attendance.Attendance{
		ID: uuid.NewString(), EmployeeID: f.employee.ID, Date: day(10),
		Status: attendance.StatusPresent, WorkingHours: decimal.Zero,
	}

	resp, err := f.svc.EmployeeMonth(ctx, f.self, attendance.EmployeeMonthRequest{Month: 3, Year: 2025})
	require.NoError(t, err)
	assert.Len(t, resp.Attendance, 3)
	assert.Equal(t, 2, resp.Statistics.Present)
	assert.Equal(t, 1, resp.Statistics.HalfDay)
	assert.Equal(t, 1, resp.Statistics.Late)
	// Joined on the 5th; the 5th, 8th and 9th have no record.
	assert.Equal(t, 3, resp.Statistics.Absent)
	assert.Equal(t, 12.75, resp.Statistics.TotalWorkingHours)

	_, err = f.svc.EmployeeMonth(ctx, f.self, attendance.EmployeeMonthRequest{EmployeeID: f.nightWorker.ID, Month: 3, Year: 2025})
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestAttendanceService_TodaySummaryBucketsRows(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 12, 0, 0, 0, jakarta))
	f.attendances.daily = []attendance.DailyRow{
		{EmployeeID: "1", EmployeeName: "A", Record: &attendance.Attendance{Status: attendance.StatusPresent, IsLate: true}},
		{EmployeeID: "2", EmployeeName: "B", Record: &attendance.Attendance{Status: attendance.StatusHalfDay}},
		{EmployeeID: "3", EmployeeName: "C", Record: &attendance.Attendance{Status: attendance.StatusLeave}},
		{EmployeeID: "4", EmployeeName: "D"},
	}

	resp, err := f.svc.TodaySummary(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, attendance.SummaryCounts{Total: 4, Present: 1, Absent: 1, HalfDay: 1, Leave: 1, Late: 1}, resp.Summary)
	require.Len(t, resp.Details.Absent, 1)
	assert.Equal(t, "D", resp.Details.Absent[0].Name)
	assert.Equal(t, "absent", resp.Details.Absent[0].Attendance.Status)
}

func TestAttendanceService_Statistics(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 12, 0, 0, 0, jakarta))
	f.attendances.stats = attendance.Statistics{
		TotalPresent: 10, TotalAbsent: 2, TotalLate: 3, AverageWorkingHours: decimal.RequireFromString("7.25"),
	}

	resp, err := f.svc.Statistics(context.Background(), attendance.StatisticsFilter{StartDate: "2025-03-01", EndDate: "2025-03-07"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalEmployees)
	assert.Equal(t, int64(10), resp.TotalPresent)
	assert.Equal(t, 7.25, resp.AverageWorkingHours)

	_, err = f.svc.Statistics(context.Background(), attendance.StatisticsFilter{StartDate: "2025-03-07", EndDate: "2025-03-01"})
	assert.Equal(t, apperror.KindValidation, kindOf(err))
}

func kindOf(err error) apperror.Kind {
	if _, ok := err.(validator.ValidationErrors); ok {
		return apperror.KindValidation
	}
	return apperror.KindOf(err)
}
