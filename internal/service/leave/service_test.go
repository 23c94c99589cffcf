package leave

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passThroughTx struct{ calls int }

func (p *passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type fakeLeaveRequestRepo struct {
	requests map[string]leave.LeaveRequest
}

func (f *fakeLeaveRequestRepo) Create(_ context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.ID = uuid.NewString()
	f.requests[r.ID] = r
	return r, nil
}

func (f *fakeLeaveRequestRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeLeaveRequestRepo) List(_ context.Context, _ leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	out := make([]leave.LeaveRequest, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLeaveRequestRepo) ListByEmployee(_ context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRequestRepo) Decide(_ context.Context, id string, status leave.RequestStatus, comments *string, decidedBy string, decidedAt time.Time) (leave.LeaveRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if r.Status != leave.RequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveAlreadyDecided
	}
	r.Status = status
	r.Comments = comments
	r.DecidedBy = &decidedBy
	r.DecidedAt = &decidedAt
	f.requests[id] = r
	return r, nil
}

func (f *fakeLeaveRequestRepo) CountPending(_ context.Context) (int64, error) {
	var n int64
	for _, r := range f.requests {
		if r.Status == leave.RequestStatusPending {
			n++
		}
	}
	return n, nil
}

type fakeLeaveBalanceRepo struct {
	used      map[string]decimal.Decimal
	locked    []string
	afterRead func()
}

func balanceKey(employeeID string, year int, t leave.LeaveType) string {
	return fmt.Sprintf("%s|%d|%s", employeeID, year, t)
}

func (f *fakeLeaveBalanceRepo) GetUsed(_ context.Context, employeeID string, year int) (map[leave.LeaveType]decimal.Decimal, error) {
	out := map[leave.LeaveType]decimal.Decimal{}
	for _, t := range leave.LeaveTypes {
		out[t] = f.used[balanceKey(employeeID, year, t)]
	}
	if f.afterRead != nil {
		f.afterRead()
	}
	return out, nil
}

func (f *fakeLeaveBalanceRepo) LockUsed(_ context.Context, employeeID string, year int, t leave.LeaveType) (decimal.Decimal, error) {
	key := balanceKey(employeeID, year, t)
	f.locked = append(f.locked, key)
	return f.used[key], nil
}

func (f *fakeLeaveBalanceRepo) IncrementUsed(_ context.Context, employeeID string, year int, t leave.LeaveType, days decimal.Decimal) error {
	key := balanceKey(employeeID, year, t)
	f.used[key] = f.used[key].Add(days)
	return nil
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

func (f *fakeEmployeeRepo) GetByUserID(_ context.Context, _ string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) List(_ context.Context, _ employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (f *fakeEmployeeRepo) SoftDelete(_ context.Context, _ string) error { return nil }

func (f *fakeEmployeeRepo) CountActive(_ context.Context, _ *string) (int64, error) {
	return int64(len(f.employees)), nil
}

type fakeBalanceCache struct {
	entries     map[string]leave.Balance
	generations map[string]int64
	gets        int
	invalidated int
	failReads   bool
}

func cacheKey(employeeID string, year int, gen int64) string {
	return fmt.Sprintf("%s|%d|%d", employeeID, year, gen)
}

func (f *fakeBalanceCache) Generation(_ context.Context, employeeID string) (int64, error) {
	if f.failReads {
		return 0, errors.New("connection refused")
	}
	return f.generations[employeeID], nil
}

func (f *fakeBalanceCache) Get(_ context.Context, employeeID string, year int, gen int64) (leave.Balance, bool, error) {
	f.gets++
	if f.failReads {
		return leave.Balance{}, false, errors.New("connection refused")
	}
	b, ok := f.entries[cacheKey(employeeID, year, gen)]
	return b, ok, nil
}

func (f *fakeBalanceCache) Set(_ context.Context, b leave.Balance, gen int64) error {
	f.entries[cacheKey(b.EmployeeID, b.Year, gen)] = b
	return nil
}

func (f *fakeBalanceCache) Invalidate(_ context.Context, employeeID string) error {
	f.invalidated++
	f.generations[employeeID]++
	return nil
}

type fixture struct {
	svc      *LeaveServiceImpl
	requests *fakeLeaveRequestRepo
	balances *fakeLeaveBalanceRepo
	cache    *fakeBalanceCache
	tx       *passThroughTx
	emp      employee.Employee
	self     auth.Principal
	admin    auth.Principal
}

func newFixture(enforce bool) *fixture {
	emp := employee.Employee{
		ID:            uuid.NewString(),
		UserID:        uuid.NewString(),
		Name:          "Sari",
		DateOfJoining: date(2025, time.March, 1),
		IsActive:      true,
	}
	f := &fixture{
		requests: &fakeLeaveRequestRepo{requests: map[string]leave.LeaveRequest{}},
		balances: &fakeLeaveBalanceRepo{used: map[string]decimal.Decimal{}},
		cache:    &fakeBalanceCache{entries: map[string]leave.Balance{}, generations: map[string]int64{}},
		tx:       &passThroughTx{},
		emp:      emp,
		self:     auth.Principal{UserID: emp.UserID, Role: user.RoleEmployee, EmployeeID: emp.ID},
		admin:    auth.Principal{UserID: uuid.NewString(), Role: user.RoleAdmin},
	}
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{emp.ID: emp}}

	svc := NewLeaveService(f.tx, f.requests, f.balances, employees, f.cache, config.LeaveConfig{EnforceBalance: enforce}, time.UTC, nil).(*LeaveServiceImpl)
	svc.now = fixedNow(2025, time.June, 5)
	f.svc = svc
	return f
}

func TestLeaveService_GetBalance_ScenarioD(t *testing.T) {
	f := newFixture(true)

	resp, err := f.svc.GetBalance(context.Background(), f.self, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 2025, resp.CurrentYear)
	assert.Equal(t, 4, resp.MonthsWorked)
	assert.Equal(t, 4.0, resp.Casual.Available)
	assert.Equal(t, 4.0, resp.Sick.Available)
	assert.Equal(t, 1.0, resp.Casual.MonthlyAllocation)
	assert.Equal(t, "2025-03-01", resp.DOJ)
}

func TestLeaveService_GetBalance_UsesCache(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	_, err := f.svc.GetBalance(ctx, f.self, "", 2025)
	require.NoError(t, err)
	require.Len(t, f.cache.entries, 1)

	f.balances.used[balanceKey(f.emp.ID, 2025, leave.LeaveTypeCasual)] = decimal.NewFromInt(1)
	resp, err := f.svc.GetBalance(ctx, f.self, "", 2025)
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.Casual.Used, "served from cache")
	assert.Equal(t, 2, f.cache.gets)
}

func TestLeaveService_GetBalance_CacheFailureFallsThrough(t *testing.T) {
	f := newFixture(true)
	f.cache.failReads = true

	resp, err := f.svc.GetBalance(context.Background(), f.self, "", 2025)
	require.NoError(t, err)
	assert.Equal(t, 4.0, resp.Casual.Remaining)
	assert.Empty(t, f.cache.entries, "nothing is written without a known generation")
}

func TestLeaveService_GetBalance_ApprovalDuringReadIsNotMasked(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	// An approval commits and invalidates between the database read and the
	// cache write of a concurrent balance lookup.
	f.balances.afterRead = func() {
		f.balances.afterRead = nil
		f.balances.used[balanceKey(f.emp.ID, 2025, leave.LeaveTypeCasual)] = decimal.NewFromInt(2)
		require.NoError(t, f.cache.Invalidate(ctx, f.emp.ID))
	}

	stale, err := f.svc.GetBalance(ctx, f.self, "", 2025)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stale.Casual.Used)

	fresh, err := f.svc.GetBalance(ctx, f.self, "", 2025)
	require.NoError(t, err)
	assert.Equal(t, 2.0, fresh.Casual.Used)
	assert.Equal(t, 2.0, fresh.Casual.Remaining)
}

func TestLeaveService_GetBalance_DefaultYearInBusinessTimezone(t *testing.T) {
	f := newFixture(true)
	jakarta := time.FixedZone("WIB", 7*60*60)
	svc := NewLeaveService(f.tx, f.requests, f.balances, f.svc.EmployeeRepository, f.cache, config.LeaveConfig{EnforceBalance: true}, jakarta, nil).(*LeaveServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, time.December, 31, 20, 0, 0, 0, time.UTC) }

	resp, err := svc.GetBalance(context.Background(), f.self, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 2026, resp.CurrentYear)
	assert.Equal(t, 1, resp.MonthsWorked)

	submitted, err := svc.Submit(context.Background(), f.self, leave.SubmitLeaveRequest{
		LeaveType: "sick", FromDate: "2026-01-02", Reason: "flu",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01T03:00:00+07:00", submitted.AppliedDate)
}

func TestLeaveService_GetBalance_Forbidden(t *testing.T) {
	f := newFixture(true)

	_, err := f.svc.GetBalance(context.Background(), f.self, uuid.NewString(), 2025)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.svc.GetBalance(context.Background(), f.admin, uuid.NewString(), 2025)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestLeaveService_ScenarioE_HalfDayApprovedOnce(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	morning := "morning"

	submitted, err := f.svc.Submit(ctx, f.self, leave.SubmitLeaveRequest{
		LeaveType:     "casual",
		FromDate:      "2025-06-10",
		Reason:        "dentist",
		IsHalfDay:     true,
		HalfDayPeriod: &morning,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", submitted.Status)
	assert.Equal(t, 0.5, submitted.TotalDays)
	assert.Equal(t, "2025-06-10", submitted.EndDate)

	decided, err := f.svc.Decide(ctx, f.admin, leave.DecideLeaveRequest{ID: submitted.ID, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "approved", decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, f.admin.UserID, *decided.DecidedBy)

	_, err = f.svc.Decide(ctx, f.admin, leave.DecideLeaveRequest{ID: submitted.ID, Status: "approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyDecided)

	used := f.balances.used[balanceKey(f.emp.ID, 2025, leave.LeaveTypeCasual)]
	assert.True(t, used.Equal(decimal.RequireFromString("0.5")), "used is %s", used)
	assert.Equal(t, 1, f.cache.invalidated)

	balance, err := f.svc.GetBalance(ctx, f.self, "", 2025)
	require.NoError(t, err)
	assert.Equal(t, 3.5, balance.Casual.Remaining)
	assert.Equal(t, 4.0, balance.Sick.Remaining)
}

func TestLeaveService_RejectDoesNotConsumeBalance(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, f.self, leave.SubmitLeaveRequest{
		LeaveType: "sick", FromDate: "2025-06-10", EndDate: "2025-06-11", Reason: "flu",
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, submitted.TotalDays)

	comments := "please provide a doctor's note"
	decided, err := f.svc.Decide(ctx, f.admin, leave.DecideLeaveRequest{ID: submitted.ID, Status: "rejected", Comments: &comments})
	require.NoError(t, err)
	assert.Equal(t, "rejected", decided.Status)
	assert.Empty(t, f.balances.used)
	assert.Zero(t, f.cache.invalidated)

	_, err = f.svc.Decide(ctx, f.admin, leave.DecideLeaveRequest{ID: submitted.ID, Status: "approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyDecided)
}

func TestLeaveService_Submit_InsufficientBalance(t *testing.T) {
	req := leave.SubmitLeaveRequest{LeaveType: "casual", FromDate: "2025-06-10", EndDate: "2025-06-14", Reason: "holiday"}

	t.Run("enforced", func(t *testing.T) {
		f := newFixture(true)
		r := req
		_, err := f.svc.Submit(context.Background(), f.self, r)
		assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
		assert.Empty(t, f.requests.requests)
	})

	t.Run("not enforced", func(t *testing.T) {
		f := newFixture(false)
		r := req
		resp, err := f.svc.Submit(context.Background(), f.self, r)
		require.NoError(t, err)
		assert.Equal(t, 5.0, resp.TotalDays)
	})
}

func TestLeaveService_CrossYearRequestChargedToStartYear(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	f.svc.now = fixedNow(2025, time.December, 1)

	submitted, err := f.svc.Submit(ctx, f.self, leave.SubmitLeaveRequest{
		LeaveType: "casual", FromDate: "2025-12-30", EndDate: "2026-01-02", Reason: "new year trip",
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, submitted.TotalDays)

	_, err = f.svc.Decide(ctx, f.admin, leave.DecideLeaveRequest{ID: submitted.ID, Status: "approved"})
	require.NoError(t, err)

	assert.True(t, f.balances.used[balanceKey(f.emp.ID, 2025, leave.LeaveTypeCasual)].Equal(decimal.NewFromInt(4)))
	assert.True(t, f.balances.used[balanceKey(f.emp.ID, 2026, leave.LeaveTypeCasual)].IsZero())
}

func TestLeaveService_Decide_RechecksLockedCounter(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	var ids []string
	for _, from := range []string{"2025-06-10", "2025-06-20"} {
		end, _ := time.Parse("2006-01-02", from)
		r, err := f.svc.Submit(ctx, f.self, leave.SubmitLeaveRequest{
			LeaveType: "casual", FromDate: from, EndDate: end.AddDate(0, 0, 2).Format("2006-01-02"), Reason: "trip",
		})
		require.NoError(t, err, "each request fits the balance on its own")
		ids = append(ids, r.ID)
	}

	_, err := f.svc.Decide(ctx, f.admin, leave.DecideLeaveRequest{ID: ids[0], Status: "approved"})
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, f.admin, leave.DecideLeaveRequest{ID: ids[1], Status: "approved"})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	key := balanceKey(f.emp.ID, 2025, leave.LeaveTypeCasual)
	assert.Equal(t, []string{key, key}, f.balances.locked)
	assert.True(t, f.balances.used[key].Equal(decimal.NewFromInt(3)), "used is %s", f.balances.used[key])
}

func TestLeaveService_Submit_Validation(t *testing.T) {
	f := newFixture(true)

	_, err := f.svc.Submit(context.Background(), f.self, leave.SubmitLeaveRequest{
		LeaveType: "annual", FromDate: "2025-06-10", Reason: "x",
	})
	require.Error(t, err)
	assert.Empty(t, f.requests.requests)
}

func TestLeaveService_Decide_Rules(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	_, err := f.svc.Decide(ctx, f.self, leave.DecideLeaveRequest{ID: uuid.NewString(), Status: "approved"})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.svc.Decide(ctx, f.admin, leave.DecideLeaveRequest{ID: uuid.NewString(), Status: "approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveService_Get_AccessControl(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	other := leave.LeaveRequest{ID: uuid.NewString(), EmployeeID: uuid.NewString(), LeaveType: leave.LeaveTypeSick, Status: leave.RequestStatusPending}
	f.requests.requests[other.ID] = other

	_, err := f.svc.Get(ctx, f.self, other.ID)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	resp, err := f.svc.Get(ctx, f.admin, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, resp.ID)
}
