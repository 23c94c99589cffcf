package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/shopspring/decimal"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	leave.LeaveBalanceRepository
	employee.EmployeeRepository
	cache      leave.BalanceCache
	calculator *BalanceCalculator
	cfg        config.LeaveConfig
	loc        *time.Location
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveRequestRepository leave.LeaveRequestRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	employeeRepository employee.EmployeeRepository,
	cache leave.BalanceCache,
	cfg config.LeaveConfig,
	loc *time.Location,
	m *metrics.Metrics,
) leave.LeaveService {
	if loc == nil {
		loc = time.UTC
	}
	s := &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepository,
		LeaveBalanceRepository: leaveBalanceRepository,
		EmployeeRepository:     employeeRepository,
		cache:                  cache,
		cfg:                    cfg,
		loc:                    loc,
		metrics:                m,
		now:                    time.Now,
	}
	s.calculator = NewBalanceCalculator(func() time.Time { return s.now() }, loc)
	return s
}

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

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, p auth.Principal, employeeID string, year int) (leave.BalanceResponse, error) {
	employeeID, err := resolveEmployee(p, employeeID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if year == 0 {
		year = s.now().In(s.loc).Year()
	}

	// The generation is read before the database so a write racing this
	// read lands under a generation that is already stale.
	gen, err := s.cache.Generation(ctx, employeeID)
	if err != nil {
		slog.Warn("Leave balance cache read failed", "employee_id", employeeID, "year", year, "error", err)
		s.metrics.RecordCacheLookup(false)
		balance, err := s.balance(ctx, employeeID, year)
		if err != nil {
			return leave.BalanceResponse{}, err
		}
		return leave.ToBalanceResponse(balance), nil
	}

	cached, ok, err := s.cache.Get(ctx, employeeID, year, gen)
	if err != nil {
		slog.Warn("Leave balance cache read failed", "employee_id", employeeID, "year", year, "error", err)
	}
	s.metrics.RecordCacheLookup(ok)
	if ok {
		return leave.ToBalanceResponse(cached), nil
	}

	balance, err := s.balance(ctx, employeeID, year)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	if err := s.cache.Set(ctx, balance, gen); err != nil {
		slog.Warn("Leave balance cache write failed", "employee_id", employeeID, "year", year, "error", err)
	}
	return leave.ToBalanceResponse(balance), nil
}

// balance computes the balance from the database, bypassing the cache.
func (s *LeaveServiceImpl) balance(ctx context.Context, employeeID string, year int) (leave.Balance, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return leave.Balance{}, err
	}
	if emp.DateOfJoining.IsZero() {
		return leave.Balance{}, employee.ErrJoiningDateUnknown
	}

	used, err := s.LeaveBalanceRepository.GetUsed(ctx, employeeID, year)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to load used leave: %w", err)
	}
	return s.calculator.Calculate(employeeID, emp.DateOfJoining, year, used), nil
}

func insufficient(t leave.LeaveType, remaining, requested decimal.Decimal) error {
	return apperror.WithMessage(leave.ErrInsufficientBalance, fmt.Sprintf(
		"insufficient %s leave balance: %s day(s) remaining, %s requested",
		t, remaining.String(), requested.String(),
	))
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, p auth.Principal, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	employeeID, err := resolveEmployee(p, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	from, _ := time.Parse("2006-01-02", req.FromDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	leaveType := leave.LeaveType(req.LeaveType)
	totalDays := leave.CalculateTotalDays(from, end, req.IsHalfDay)

	if s.cfg.EnforceBalance {
		balance, err := s.balance(ctx, employeeID, from.Year())
		if err != nil {
			return leave.LeaveRequestResponse{}, err
		}
		if remaining := balance.For(leaveType).Remaining; remaining.LessThan(totalDays) {
			return leave.LeaveRequestResponse{}, insufficient(leaveType, remaining, totalDays)
		}
	} else if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var period *leave.HalfDayPeriod
	if req.HalfDayPeriod != nil {
		hp := leave.HalfDayPeriod(*req.HalfDayPeriod)
		period = &hp
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID:    employeeID,
		LeaveType:     leaveType,
		FromDate:      from,
		EndDate:       end,
		IsHalfDay:     req.IsHalfDay,
		HalfDayPeriod: period,
		Reason:        req.Reason,
		Status:        leave.RequestStatusPending,
		TotalDays:     totalDays,
		AppliedDate:   s.now().In(s.loc),
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("Leave request submitted",
		"leave_request_id", created.ID,
		"employee_id", employeeID,
		"leave_type", leaveType,
		"total_days", totalDays.String(),
	)
	return leave.ToResponse(created), nil
}

// Decide implements leave.LeaveService. The status change and the balance
// increment commit together; the cached balance is dropped afterwards.
func (s *LeaveServiceImpl) Decide(ctx context.Context, p auth.Principal, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if !p.IsAdmin() {
		return leave.LeaveRequestResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	status := leave.RequestStatus(req.Status)
	var decided leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		decided, err = s.LeaveRequestRepository.Decide(ctx, req.ID, status, req.Comments, p.UserID, s.now().UTC())
		if err != nil {
			return err
		}
		if status != leave.RequestStatusApproved {
			return nil
		}

		// Concurrent approvals for the same counter queue here until this
		// transaction ends, so the check below sees every committed approval.
		used, err := s.LeaveBalanceRepository.LockUsed(ctx, decided.EmployeeID, decided.Year(), decided.LeaveType)
		if err != nil {
			return err
		}

		if s.cfg.EnforceBalance {
			emp, err := s.EmployeeRepository.GetByID(ctx, decided.EmployeeID)
			if err != nil {
				return err
			}
			if emp.DateOfJoining.IsZero() {
				return employee.ErrJoiningDateUnknown
			}
			balance := s.calculator.Calculate(decided.EmployeeID, emp.DateOfJoining, decided.Year(),
				map[leave.LeaveType]decimal.Decimal{decided.LeaveType: used})
			if remaining := balance.For(decided.LeaveType).Remaining; remaining.LessThan(decided.TotalDays) {
				return insufficient(decided.LeaveType, remaining, decided.TotalDays)
			}
		}

		return s.LeaveBalanceRepository.IncrementUsed(ctx, decided.EmployeeID, decided.Year(), decided.LeaveType, decided.TotalDays)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if status == leave.RequestStatusApproved {
		if err := s.cache.Invalidate(ctx, decided.EmployeeID); err != nil {
			slog.Warn("Leave balance cache invalidation failed",
				"employee_id", decided.EmployeeID,
				"year", decided.Year(),
				"error", err,
			)
		}
	}

	s.metrics.RecordLeaveDecision(string(status))
	slog.Info("Leave request decided",
		"leave_request_id", decided.ID,
		"status", status,
		"admin_user_id", p.UserID,
	)
	return leave.ToResponse(decided), nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, p auth.Principal, id string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !p.CanAccessEmployee(request.EmployeeID) {
		return leave.LeaveRequestResponse{}, auth.ErrForbidden
	}
	return leave.ToResponse(request), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, total, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	resp := leave.ListLeaveRequestResponse{
		Leaves:     make([]leave.LeaveRequestResponse, 0, len(requests)),
		Pagination: pagination.New(filter.Page, filter.Limit, total),
	}
	for _, r := range requests {
		resp.Leaves = append(resp.Leaves, leave.ToResponse(r))
	}
	return resp, nil
}

// ListByEmployee implements leave.LeaveService.
func (s *LeaveServiceImpl) ListByEmployee(ctx context.Context, p auth.Principal, employeeID string) ([]leave.LeaveRequestResponse, error) {
	employeeID, err := resolveEmployee(p, employeeID)
	if err != nil {
		return nil, err
	}

	requests, err := s.LeaveRequestRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, leave.ToResponse(r))
	}
	return resp, nil
}
