package dashboard

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

const recentLeaveLimit = 5

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	loc *time.Location
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, loc *time.Location) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		loc:                 loc,
		now:                 time.Now,
	}
}

// GetDashboard returns combined dashboard data using parallel goroutines,
// one query each.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	local := s.now().In(s.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	var (
		headcount    dashboard.HeadcountResponse
		attendance   dashboard.TodayAttendanceResponse
		leaveSummary dashboard.LeaveSummaryResponse
		recent       []dashboard.RecentLeaveResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Headcount
	g.Go(func() error {
		h, err := s.GetHeadcount(gCtx)
		if err != nil {
			return err
		}
		headcount = dashboard.HeadcountResponse{
			Employees:    h.Employees,
			Departments:  h.Departments,
			ActiveShifts: h.ActiveShifts,
		}
		return nil
	})

	// 2. Today's attendance
	g.Go(func() error {
		c, err := s.GetAttendanceCounts(gCtx, today)
		if err != nil {
			return err
		}
		attendance = toTodayAttendance(c)
		return nil
	})

	// 3. Leave counters for the year
	g.Go(func() error {
		c, err := s.GetLeaveCounts(gCtx, today.Year())
		if err != nil {
			return err
		}
		leaveSummary = dashboard.LeaveSummaryResponse{
			Pending:           c.Pending,
			ApprovedThisYear:  c.ApprovedThisYear,
			DaysTakenThisYear: c.DaysTaken.InexactFloat64(),
		}
		return nil
	})

	// 4. Latest leave requests
	g.Go(func() error {
		leaves, err := s.GetRecentLeaves(gCtx, recentLeaveLimit)
		if err != nil {
			return err
		}
		recent = make([]dashboard.RecentLeaveResponse, 0, len(leaves))
		for _, l := range leaves {
			recent = append(recent, dashboard.RecentLeaveResponse{
				ID:           l.ID,
				EmployeeName: l.EmployeeName,
				LeaveType:    l.LeaveType,
				FromDate:     l.FromDate.Format(validator.DateLayout),
				EndDate:      l.EndDate.Format(validator.DateLayout),
				TotalDays:    l.TotalDays.InexactFloat64(),
				Status:       l.Status,
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.DashboardResponse{
		Headcount:       headcount,
		TodayAttendance: attendance,
		Leave:           leaveSummary,
		RecentLeaves:    recent,
		Date:            today.Format(validator.DateLayout),
	}, nil
}

// GetEmployeeDetail implements dashboard.DashboardService. Everyone not on
// leave counts as working.
func (s *DashboardServiceImpl) GetEmployeeDetail(ctx context.Context, date string) (*dashboard.EmployeeDetailResponse, error) {
	day, err := s.day(date)
	if err != nil {
		return nil, err
	}

	var (
		headcount dashboard.Headcount
		onLeave   []dashboard.EmployeeOnLeave
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		headcount, err = s.GetHeadcount(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		onLeave, err = s.GetEmployeesOnLeave(gCtx, day)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(onLeave, func(i, j int) bool { return onLeave[i].Name < onLeave[j].Name })

	resp := &dashboard.EmployeeDetailResponse{
		EmployeesOnLeave: make([]dashboard.EmployeeOnLeaveResponse, 0, len(onLeave)),
		Date:             day.Format(validator.DateLayout),
	}
	for _, e := range onLeave {
		switch e.LeaveType {
		case "casual":
			resp.Summary.LeaveBreakdown.Casual++
		case "sick":
			resp.Summary.LeaveBreakdown.Sick++
		}
		resp.EmployeesOnLeave = append(resp.EmployeesOnLeave, toEmployeeOnLeave(e, s.loc))
	}

	onLeaveCount := int64(len(onLeave))
	working := headcount.Employees - onLeaveCount
	if working < 0 {
		working = 0
	}
	resp.Summary.TotalEmployees = headcount.Employees
	resp.Summary.EmployeesOnLeaveToday = onLeaveCount
	resp.Summary.EmployeesWorkingToday = working
	return resp, nil
}

// day parses an optional YYYY-MM-DD value, defaulting to today in the
// business timezone.
func (s *DashboardServiceImpl) day(date string) (time.Time, error) {
	if date == "" {
		local := s.now().In(s.loc)
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, ok := validator.IsValidDate(date)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return d, nil
}

func toEmployeeOnLeave(e dashboard.EmployeeOnLeave, loc *time.Location) dashboard.EmployeeOnLeaveResponse {
	return dashboard.EmployeeOnLeaveResponse{
		ID:          e.EmployeeID,
		EmployeeID:  e.EmployeeCode,
		Name:        e.Name,
		Email:       e.Email,
		Department:  e.Department,
		PhoneNumber: e.PhoneNumber,
		LeaveDetails: dashboard.LeaveDetails{
			LeaveType:     e.LeaveType,
			FromDate:      e.FromDate.Format(validator.DateLayout),
			EndDate:       e.EndDate.Format(validator.DateLayout),
			TotalDays:     e.TotalDays.InexactFloat64(),
			IsHalfDay:     e.IsHalfDay,
			HalfDayPeriod: e.HalfDayPeriod,
			Reason:        e.Reason,
			AppliedDate:   e.AppliedDate.In(loc).Format(time.RFC3339),
		},
	}
}

func toTodayAttendance(c dashboard.AttendanceCounts) dashboard.TodayAttendanceResponse {
	absent := c.Employees - c.Present - c.HalfDay - c.Leave
	if absent < 0 {
		absent = 0
	}
	var presentPercent float64
	if c.Employees > 0 {
		presentPercent = math.Round(float64(c.Present)/float64(c.Employees)*10000) / 100
	}
	return dashboard.TodayAttendanceResponse{
		Present:        c.Present,
		Absent:         absent,
		HalfDay:        c.HalfDay,
		Leave:          c.Leave,
		Late:           c.Late,
		PresentPercent: presentPercent,
	}
}
