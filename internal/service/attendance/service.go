package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	shift.ShiftRepository
	loc     *time.Location
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	shiftRepository shift.ShiftRepository,
	loc *time.Location,
	m *metrics.Metrics,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		ShiftRepository:      shiftRepository,
		loc:                  loc,
		metrics:              m,
		now:                  time.Now,
	}
}

// localDate is the business-timezone calendar date of t, as a UTC midnight.
func (s *AttendanceServiceImpl) localDate(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// shiftDay is the attendance date of a check-in at t: the local date on which
// the shift occurrence containing t started.
func (s *AttendanceServiceImpl) shiftDay(snapshot shift.Snapshot, t time.Time) (time.Time, error) {
	start, err := ShiftStart(snapshot, t, s.loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC), nil
}

// openSession finds the session a check-out at now closes: today's record, or
// yesterday's when its shift runs past midnight. Older open records are left
// alone.
func (s *AttendanceServiceImpl) openSession(ctx context.Context, employeeID string, now time.Time) (attendance.Attendance, error) {
	today := s.localDate(now)
	yesterday := today.AddDate(0, 0, -1)

	open, err := s.AttendanceRepository.GetOpenSession(ctx, employeeID, yesterday)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if open.ShiftSnapshot == nil {
		emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
		if err != nil {
			return attendance.Attendance{}, err
		}
		sh, err := s.currentShift(ctx, emp)
		if err != nil {
			return attendance.Attendance{}, err
		}
		snapshot := sh.Snapshot()
		open.ShiftSnapshot = &snapshot
	}

	if open.Date.Before(today) && !open.ShiftSnapshot.IsCrossMidnight {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	return open, nil
}

// resolveEmployee picks the target employee of a self-service call.
func resolveEmployee(p auth.Principal, requested string) (string, error) {
	id := requested
	if id == "" {
		id = p.EmployeeID
	}
	if id == "" {
		return "", employee.ErrNoEmployeeProfile
	}
	if !p.CanAccessEmployee(id) {
		return "", auth.ErrForbidden
	}
	return id, nil
}

func (s *AttendanceServiceImpl) currentShift(ctx context.Context, emp employee.Employee) (shift.Shift, error) {
	sh, err := s.ShiftRepository.GetByID(ctx, emp.ShiftID)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to load shift of employee %s: %w", emp.ID, err)
	}
	return sh, nil
}

// ComputeStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ComputeStatus(sh shift.Snapshot, checkIn, checkOut *time.Time) (attendance.Classification, error) {
	return Classify(sh, checkIn, checkOut, s.loc)
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, p auth.Principal, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	employeeID, err := resolveEmployee(p, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	sh, err := s.currentShift(ctx, emp)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	snapshot := sh.Snapshot()

	now := s.now().UTC()
	date, err := s.shiftDay(snapshot, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	switch {
	case err == nil && existing.IsManualOverride && existing.CheckIn == nil:
		return attendance.AttendanceResponse{}, attendance.ErrDayOverridden
	case err == nil:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	case !errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	classification, err := Classify(snapshot, &now, nil, s.loc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record := attendance.Attendance{
		EmployeeID:    employeeID,
		Date:          date,
		CheckIn:       &now,
		ShiftID:       &sh.ID,
		ShiftSnapshot: &snapshot,
	}
	record.Apply(classification)

	created, err := s.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.metrics.RecordAttendance("check_in", string(created.Status))
	slog.Info("Employee checked in",
		"employee_id", employeeID,
		"date", date.Format(validator.DateLayout),
		"is_late", created.IsLate,
		"late_minutes", created.LateMinutes,
	)
	return attendance.ToResponse(created, s.loc), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, p auth.Principal, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	employeeID, err := resolveEmployee(p, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now().UTC()
	open, err := s.openSession(ctx, employeeID, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	classification, err := Classify(*open.ShiftSnapshot, open.CheckIn, &now, s.loc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	open.CheckOut = &now
	open.Apply(classification)

	closed, err := s.AttendanceRepository.CloseSession(ctx, open)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.metrics.RecordAttendance("check_out", string(closed.Status))
	slog.Info("Employee checked out",
		"employee_id", employeeID,
		"status", closed.Status,
		"working_hours", closed.WorkingHours.String(),
	)
	return attendance.ToResponse(closed, s.loc), nil
}

// MarkAttendance implements attendance.AttendanceService. The admin's status
// is stored as given; supplied clock times only fill in hours and lateness.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, p auth.Principal, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if !p.IsAdmin() {
		return attendance.AttendanceResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)

	var snapshot shift.Snapshot
	var shiftID string
	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
	switch {
	case err == nil && existing.ShiftSnapshot != nil:
		snapshot = *existing.ShiftSnapshot
		shiftID = snapshot.ID
	case err == nil || errors.Is(err, attendance.ErrAttendanceNotFound):
		sh, err := s.currentShift(ctx, emp)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		snapshot = sh.Snapshot()
		shiftID = sh.ID
	default:
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	checkIn, checkOut, err := s.overrideTimes(date, req.CheckIn, req.CheckOut, snapshot.IsCrossMidnight)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now().UTC()
	remarks := req.Remarks
	record := attendance.Attendance{
		EmployeeID:       emp.ID,
		Date:             date,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		Status:           attendance.Status(req.Status),
		WorkingHours:     decimal.Zero,
		Remarks:          &remarks,
		ShiftID:          &shiftID,
		ShiftSnapshot:    &snapshot,
		IsManualOverride: true,
		OverriddenBy:     &p.UserID,
		OverriddenAt:     &now,
	}
	if checkIn != nil {
		classification, err := Classify(snapshot, checkIn, checkOut, s.loc)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		record.WorkingHours = classification.WorkingHours
		record.IsLate = classification.IsLate
		record.LateMinutes = classification.LateMinutes
	}

	saved, err := s.AttendanceRepository.UpsertOverride(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.metrics.RecordAttendance("override", string(saved.Status))
	slog.Info("Attendance overridden",
		"employee_id", emp.ID,
		"date", req.Date,
		"status", saved.Status,
		"admin_user_id", p.UserID,
	)
	return attendance.ToResponse(saved, s.loc), nil
}

// overrideTimes places HH:MM values on date in the business timezone.
func (s *AttendanceServiceImpl) overrideTimes(date time.Time, in, out *string, crossMidnight bool) (*time.Time, *time.Time, error) {
	if in == nil {
		return nil, nil, nil
	}
	at := func(clock string) (time.Time, error) {
		offset, err := shift.ParseClock(clock)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc).Add(offset).UTC(), nil
	}

	checkIn, err := at(*in)
	if err != nil {
		return nil, nil, err
	}
	if out == nil {
		return &checkIn, nil, nil
	}
	checkOut, err := at(*out)
	if err != nil {
		return nil, nil, err
	}
	if !checkOut.After(checkIn) {
		if !crossMidnight {
			return nil, nil, validator.ValidationErrors{{
				Field:   "checkOut",
				Message: "checkOut must be later than checkIn",
			}}
		}
		checkOut = checkOut.AddDate(0, 0, 1)
	}
	return &checkIn, &checkOut, nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, p auth.Principal, employeeID string) (attendance.TodayResponse, error) {
	employeeID, err := resolveEmployee(p, employeeID)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.TodayResponse{}, err
	}
	sh, err := s.currentShift(ctx, emp)
	if err != nil {
		return attendance.TodayResponse{}, err
	}
	snapshot := sh.Snapshot()

	// After midnight a night-shift worker is still on the previous day's shift.
	date, err := s.shiftDay(snapshot, s.now())
	if err != nil {
		return attendance.TodayResponse{}, err
	}
	resp := attendance.TodayResponse{Date: date.Format(validator.DateLayout), Shift: &snapshot}

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		record, err = s.openSession(ctx, employeeID, s.now())
		if errors.Is(err, attendance.ErrNotCheckedIn) {
			return resp, nil
		}
	}
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}

	full := attendance.ToResponse(record, s.loc)
	status := full.Status
	resp.HasCheckedIn = record.CheckIn != nil
	resp.HasCheckedOut = record.CheckOut != nil
	resp.CheckInTime = full.CheckIn
	resp.CheckOutTime = full.CheckOut
	resp.WorkingHours = full.WorkingHours
	resp.Status = &status
	resp.IsLate = record.IsLate
	resp.LateMinutes = record.LateMinutes
	if record.ShiftSnapshot != nil {
		resp.Shift = record.ShiftSnapshot
	}
	resp.Date = full.Date
	return resp, nil
}

// EmployeeMonth implements attendance.AttendanceService. Elapsed days since
// joining without a record count as absent.
func (s *AttendanceServiceImpl) EmployeeMonth(ctx context.Context, p auth.Principal, req attendance.EmployeeMonthRequest) (attendance.EmployeeMonthResponse, error) {
	if req.Month == 0 && req.Year == 0 {
		today := s.localDate(s.now())
		req.Month, req.Year = int(today.Month()), today.Year()
	}
	if err := req.Validate(); err != nil {
		return attendance.EmployeeMonthResponse{}, err
	}
	employeeID, err := resolveEmployee(p, req.EmployeeID)
	if err != nil {
		return attendance.EmployeeMonthResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.EmployeeMonthResponse{}, err
	}

	from := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	records, err := s.AttendanceRepository.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return attendance.EmployeeMonthResponse{}, err
	}

	stats := attendance.MonthStatistics{}
	total := decimal.Zero
	resp := attendance.EmployeeMonthResponse{Attendance: make([]attendance.AttendanceResponse, 0, len(records))}
	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			stats.Present++
		case attendance.StatusAbsent:
			stats.Absent++
		case attendance.StatusHalfDay:
			stats.HalfDay++
		case attendance.StatusLeave:
			stats.Leave++
		}
		if r.IsLate {
			stats.Late++
		}
		total = total.Add(r.WorkingHours)
		resp.Attendance = append(resp.Attendance, attendance.ToResponse(r, s.loc))
	}
	stats.Absent += missingDays(from, to, emp.DateOfJoining, s.localDate(s.now()), records)
	stats.TotalWorkingHours = total.InexactFloat64()

	resp.Statistics = stats
	return resp, nil
}

// missingDays counts the days of [from, to] on or after joined and before
// today that have no record.
func missingDays(from, to, joined, today time.Time, records []attendance.Attendance) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.Date.Format(validator.DateLayout)] = struct{}{}
	}

	joined = time.Date(joined.Year(), joined.Month(), joined.Day(), 0, 0, 0, 0, time.UTC)
	if joined.After(from) {
		from = joined
	}
	if last := today.AddDate(0, 0, -1); last.Before(to) {
		to = last
	}

	missing := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if _, ok := seen[d.Format(validator.DateLayout)]; !ok {
			missing++
		}
	}
	return missing
}

// ListDaily implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListDaily(ctx context.Context, filter attendance.DailyFilter) (attendance.ListDailyResponse, error) {
	if filter.Date == "" {
		filter.Date = s.localDate(s.now()).Format(validator.DateLayout)
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListDailyResponse{}, err
	}

	rows, total, err := s.AttendanceRepository.ListDaily(ctx, filter)
	if err != nil {
		return attendance.ListDailyResponse{}, err
	}

	resp := attendance.ListDailyResponse{
		Rows:       make([]attendance.DailyRowResponse, 0, len(rows)),
		Pagination: pagination.New(filter.Page, filter.Limit, total),
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, attendance.ToDailyRowResponse(r, s.loc))
	}
	return resp, nil
}

// Statistics implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Statistics(ctx context.Context, filter attendance.StatisticsFilter) (attendance.StatisticsResponse, error) {
	// Defaults to the current month up to today.
	if filter.StartDate == "" && filter.EndDate == "" {
		today := s.localDate(s.now())
		filter.StartDate = today.AddDate(0, 0, 1-today.Day()).Format(validator.DateLayout)
		filter.EndDate = today.Format(validator.DateLayout)
	}
	if err := filter.Validate(); err != nil {
		return attendance.StatisticsResponse{}, err
	}

	var (
		stats     attendance.Statistics
		headcount int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		stats, err = s.AttendanceRepository.Statistics(gctx, filter)
		return err
	})

	g.Go(func() error {
		var err error
		headcount, err = s.EmployeeRepository.CountActive(gctx, filter.DepartmentID)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return attendance.StatisticsResponse{}, err
	}

	return attendance.StatisticsResponse{
		TotalEmployees:      headcount,
		TotalPresent:        stats.TotalPresent,
		TotalAbsent:         stats.TotalAbsent,
		TotalHalfDay:        stats.TotalHalfDay,
		TotalLeave:          stats.TotalLeave,
		TotalLate:           stats.TotalLate,
		AverageWorkingHours: stats.AverageWorkingHours.InexactFloat64(),
	}, nil
}

// TodaySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TodaySummary(ctx context.Context, departmentID *string) (attendance.TodaySummaryResponse, error) {
	date := s.localDate(s.now()).Format(validator.DateLayout)
	filter := attendance.DailyFilter{Date: date, DepartmentID: departmentID, Unpaged: true}
	if err := filter.Validate(); err != nil {
		return attendance.TodaySummaryResponse{}, err
	}

	rows, _, err := s.AttendanceRepository.ListDaily(ctx, filter)
	if err != nil {
		return attendance.TodaySummaryResponse{}, err
	}

	resp := attendance.TodaySummaryResponse{
		Date: date,
		Details: attendance.SummaryDetails{
			Present: []attendance.DailyRowResponse{},
			Absent:  []attendance.DailyRowResponse{},
			HalfDay: []attendance.DailyRowResponse{},
			Leave:   []attendance.DailyRowResponse{},
			Late:    []attendance.DailyRowResponse{},
		},
	}
	for _, r := range rows {
		row := attendance.ToDailyRowResponse(r, s.loc)
		switch r.Status() {
		case attendance.StatusPresent:
			resp.Details.Present = append(resp.Details.Present, row)
		case attendance.StatusHalfDay:
			resp.Details.HalfDay = append(resp.Details.HalfDay, row)
		case attendance.StatusLeave:
			resp.Details.Leave = append(resp.Details.Leave, row)
		default:
			resp.Details.Absent = append(resp.Details.Absent, row)
		}
		if r.Record != nil && r.Record.IsLate {
			resp.Details.Late = append(resp.Details.Late, row)
		}
	}
	resp.Summary = attendance.SummaryCounts{
		Total:   len(rows),
		Present: len(resp.Details.Present),
		Absent:  len(resp.Details.Absent),
		HalfDay: len(resp.Details.HalfDay),
		Leave:   len(resp.Details.Leave),
		Late:    len(resp.Details.Late),
	}
	return resp, nil
}
