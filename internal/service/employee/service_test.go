package employee

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type passThroughTx struct{ calls int }

func (p *passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	users     *fakeUserRepo
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	for _, existing := range f.employees {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	f.employees[e.ID] = e
	return e, nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok || e.DeletedAt != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.Role = string(f.users.users[e.UserID].Role)
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

func (f *fakeEmployeeRepo) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.DeletedAt != nil {
			continue
		}
		if filter.DepartmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *filter.DepartmentID) {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, e employee.Employee) (employee.Employee, error) {
	f.employees[e.ID] = e
	return e, nil
}

func (f *fakeEmployeeRepo) SoftDelete(_ context.Context, id string) error {
	e, ok := f.employees[id]
	if !ok || e.DeletedAt != nil {
		return employee.ErrEmployeeNotFound
	}
	now := time.Now()
	e.DeletedAt = &now
	f.employees[id] = e
	return nil
}

func (f *fakeEmployeeRepo) CountActive(_ context.Context, _ *string) (int64, error) {
	return int64(len(f.employees)), nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	u.ID = uuid.NewString()
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u user.User) error {
	existing, ok := f.users[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	existing.Name = u.Name
	existing.Role = u.Role
	f.users[u.ID] = existing
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, _, _ string) error { return nil }

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(f.users, id)
	return nil
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func (f *fakeShiftRepo) Create(_ context.Context, s shift.Shift) (shift.Shift, error) { return s, nil }

func (f *fakeShiftRepo) GetByID(_ context.Context, id string) (shift.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) List(_ context.Context, _ bool) ([]shift.Shift, error) { return nil, nil }

func (f *fakeShiftRepo) Update(_ context.Context, s shift.Shift) (shift.Shift, error) { return s, nil }

func (f *fakeShiftRepo) Deactivate(_ context.Context, _ string) error { return nil }

func (f *fakeShiftRepo) CountAssignedEmployees(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (f *fakeShiftRepo) ReassignEmployees(_ context.Context, _, _ string) (int64, error) {
	return 0, nil
}

type fakeDepartmentRepo struct {
	departments map[string]department.Department
}

func (f *fakeDepartmentRepo) Create(_ context.Context, d department.Department) (department.Department, error) {
	return d, nil
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (department.Department, error) {
	d, ok := f.departments[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return d, nil
}

func (f *fakeDepartmentRepo) List(_ context.Context) ([]department.Department, error) {
	return nil, nil
}

func (f *fakeDepartmentRepo) Update(_ context.Context, d department.Department) (department.Department, error) {
	return d, nil
}

func (f *fakeDepartmentRepo) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeDepartmentRepo) CountEmployees(_ context.Context, _ string) (int, error) {
	return 0, nil
}

type fakeBalanceCache struct {
	invalidated []string
}

func (f *fakeBalanceCache) Generation(context.Context, string) (int64, error) { return 0, nil }

func (f *fakeBalanceCache) Get(context.Context, string, int, int64) (leave.Balance, bool, error) {
	return leave.Balance{}, false, nil
}

func (f *fakeBalanceCache) Set(context.Context, leave.Balance, int64) error { return nil }

func (f *fakeBalanceCache) Invalidate(_ context.Context, employeeID string) error {
	f.invalidated = append(f.invalidated, employeeID)
	return nil
}

type fixture struct {
	svc          employee.EmployeeService
	cache        *fakeBalanceCache
	employees    *fakeEmployeeRepo
	users        *fakeUserRepo
	tx           *passThroughTx
	activeShift  shift.Shift
	retiredShift shift.Shift
	engineering  department.Department
}

func newFixture() *fixture {
	active := shift.Shift{ID: uuid.NewString(), Name: "Office", StartTime: "09:00", EndTime: "18:00", IsActive: true}
	retired := shift.Shift{ID: uuid.NewString(), Name: "Legacy", StartTime: "07:00", EndTime: "15:00"}
	eng := department.Department{ID: uuid.NewString(), Name: "Engineering"}

	users := &fakeUserRepo{users: map[string]user.User{}}
	f := &fixture{
		employees:    &fakeEmployeeRepo{employees: map[string]employee.Employee{}, users: users},
		users:        users,
		tx:           &passThroughTx{},
		cache:        &fakeBalanceCache{},
		activeShift:  active,
		retiredShift: retired,
		engineering:  eng,
	}
	f.svc = NewEmployeeService(
		f.tx,
		f.employees,
		users,
		&fakeShiftRepo{shifts: map[string]shift.Shift{active.ID: active, retired.ID: retired}},
		&fakeDepartmentRepo{departments: map[string]department.Department{eng.ID: eng}},
		f.cache,
	)
	return f
}

func (f *fixture) createRequest() employee.CreateEmployeeRequest {
	dept := f.engineering.ID
	gender := "Female"
	return employee.CreateEmployeeRequest{
		Name:         "Ayu Lestari",
		Email:        "Ayu@Example.com",
		Password:     "password123",
		EmployeeCode: "EMP-100",
		DateOfJoin:   "2025-03-01",
		Gender:       &gender,
		DepartmentID: &dept,
		ShiftID:      f.activeShift.ID,
	}
}

func TestEmployeeService_Create(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)
	assert.Equal(t, "EMP-100", resp.EmployeeCode)
	assert.Equal(t, "ayu@example.com", resp.Email)
	assert.Equal(t, "2025-03-01", resp.DateOfJoining)
	assert.Equal(t, "employee", resp.Role)
	require.NotNil(t, resp.Gender)
	assert.Equal(t, "female", *resp.Gender)
	assert.Equal(t, 1, f.tx.calls)

	u, err := f.users.GetByID(context.Background(), resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
}

func TestEmployeeService_Create_Rules(t *testing.T) {
	t.Run("inactive shift", func(t *testing.T) {
		f := newFixture()
		req := f.createRequest()
		req.ShiftID = f.retiredShift.ID
		_, err := f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, shift.ErrShiftInactive)
		assert.Empty(t, f.users.users)
	})

	t.Run("unknown department", func(t *testing.T) {
		f := newFixture()
		req := f.createRequest()
		missing := uuid.NewString()
		req.DepartmentID = &missing
		_, err := f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Create(context.Background(), f.createRequest())
		require.NoError(t, err)

		req := f.createRequest()
		req.EmployeeCode = "EMP-101"
		_, err = f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})

	t.Run("invalid payload", func(t *testing.T) {
		f := newFixture()
		req := f.createRequest()
		req.Password = "short"
		_, err := f.svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Zero(t, f.tx.calls)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	name := "Ayu L."
	designation := "Engineer"
	updated, err := f.svc.Update(ctx, employee.UpdateEmployeeRequest{ID: created.ID, Name: &name, Designation: &designation})
	require.NoError(t, err)
	assert.Equal(t, "Ayu L.", updated.Name)
	require.NotNil(t, updated.Designation)
	assert.Equal(t, "Engineer", *updated.Designation)
	assert.Equal(t, "Ayu L.", f.users.users[created.UserID].Name)

	retired := f.retiredShift.ID
	_, err = f.svc.Update(ctx, employee.UpdateEmployeeRequest{ID: created.ID, ShiftID: &retired})
	assert.ErrorIs(t, err, shift.ErrShiftInactive)

	empty := ""
	updated, err = f.svc.Update(ctx, employee.UpdateEmployeeRequest{ID: created.ID, DepartmentID: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.DepartmentID)
	assert.Empty(t, f.cache.invalidated, "leave balances are untouched by these fields")
}

func TestEmployeeService_PayrollDetails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := f.createRequest()
	monthly := decimal.RequireFromString("52000.50")
	account := "0012345678"
	ifsc := "sbin0001234"
	req.Salary = &monthly
	req.AccountNumber = &account
	req.BankIFSC = &ifsc

	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, created.Salary)
	assert.Equal(t, 52000.5, *created.Salary)
	require.NotNil(t, created.BankIFSC)
	assert.Equal(t, "SBIN0001234", *created.BankIFSC)
	assert.Nil(t, created.BankBranch)

	branch := " Jakarta Selatan "
	updated, err := f.svc.Update(ctx, employee.UpdateEmployeeRequest{
		ID:             created.ID,
		PayrollDetails: employee.PayrollDetails{BankBranch: &branch},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.BankBranch)
	assert.Equal(t, "Jakarta Selatan", *updated.BankBranch)
	require.NotNil(t, updated.AccountNumber)
	assert.Equal(t, "0012345678", *updated.AccountNumber)

	negative := decimal.NewFromInt(-1)
	badAccount := "12AB"
	badIFSC := "SBIN1001234"
	_, err = f.svc.Update(ctx, employee.UpdateEmployeeRequest{
		ID: created.ID,
		PayrollDetails: employee.PayrollDetails{
			Salary:        &negative,
			AccountNumber: &badAccount,
			BankIFSC:      &badIFSC,
		},
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "salary")
	assert.Contains(t, fields, "accountNumber")
	assert.Contains(t, fields, "bankIfsc")
}

func TestEmployeeService_Update_JoiningDateDropsCachedBalance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	same := "2025-03-01"
	_, err = f.svc.Update(ctx, employee.UpdateEmployeeRequest{ID: created.ID, DateOfJoin: &same})
	require.NoError(t, err)
	assert.Empty(t, f.cache.invalidated)

	earlier := "2024-11-15"
	updated, err := f.svc.Update(ctx, employee.UpdateEmployeeRequest{ID: created.ID, DateOfJoin: &earlier})
	require.NoError(t, err)
	assert.Equal(t, "2024-11-15", updated.DateOfJoining)
	assert.Equal(t, []string{created.ID}, f.cache.invalidated)
}

func TestEmployeeService_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	err = f.svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_ListByDepartment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	other := f.createRequest()
	other.Email = "other@example.com"
	other.EmployeeCode = "EMP-200"
	other.DepartmentID = nil
	_, err = f.svc.Create(ctx, other)
	require.NoError(t, err)

	dept := f.engineering.ID
	resp, err := f.svc.List(ctx, employee.EmployeeFilter{DepartmentID: &dept})
	require.NoError(t, err)
	require.Len(t, resp.Employees, 1)
	assert.Equal(t, "EMP-100", resp.Employees[0].EmployeeCode)
	assert.Equal(t, int64(1), resp.Pagination.TotalCount)
}
