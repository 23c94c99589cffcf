package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	authservice "github.com/cmlabs-hris/ems-backend-go/internal/service/auth"
)

type EmployeeServiceImpl struct {
	tx             database.Transactor
	employeeRepo   employee.EmployeeRepository
	userRepo       user.UserRepository
	shiftRepo      shift.ShiftRepository
	departmentRepo department.DepartmentRepository
	balanceCache   leave.BalanceCache
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	shiftRepo shift.ShiftRepository,
	departmentRepo department.DepartmentRepository,
	balanceCache leave.BalanceCache,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		userRepo:       userRepo,
		shiftRepo:      shiftRepo,
		departmentRepo: departmentRepo,
		balanceCache:   balanceCache,
	}
}

func optionalDate(v *string) *time.Time {
	if v == nil || *v == "" {
		return nil
	}
	d, ok := validator.IsValidDate(*v)
	if !ok {
		return nil
	}
	return &d
}

func optionalGender(v *string) *employee.Gender {
	if v == nil || *v == "" {
		return nil
	}
	g := employee.Gender(strings.ToLower(*v))
	return &g
}

func optionalString(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}

func upperString(v *string) *string {
	s := optionalString(v)
	if s == nil {
		return nil
	}
	u := strings.ToUpper(*s)
	return &u
}

func (s *EmployeeServiceImpl) checkShift(ctx context.Context, id string) error {
	sh, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !sh.IsActive {
		return shift.ErrShiftInactive
	}
	return nil
}

func (s *EmployeeServiceImpl) checkDepartment(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	_, err := s.departmentRepo.GetByID(ctx, *id)
	return err
}

// Create implements employee.EmployeeService. The login user and the
// employee record are written in one transaction.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hash, err := authservice.HashPassword(req.Password)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role := user.RoleEmployee
	if req.Role != "" {
		role = user.Role(req.Role)
	}
	departmentID := optionalString(req.DepartmentID)
	doj, _ := validator.IsValidDate(req.DateOfJoin)

	var created employee.Employee
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkShift(ctx, req.ShiftID); err != nil {
			return err
		}
		if err := s.checkDepartment(ctx, departmentID); err != nil {
			return err
		}

		newUser, err := s.userRepo.Create(ctx, user.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: hash,
			Role:         role,
		})
		if err != nil {
			return err
		}

		created, err = s.employeeRepo.Create(ctx, employee.Employee{
			UserID:        newUser.ID,
			EmployeeCode:  strings.TrimSpace(req.EmployeeCode),
			Name:          newUser.Name,
			Email:         newUser.Email,
			DepartmentID:  departmentID,
			ShiftID:       req.ShiftID,
			DateOfJoining: doj,
			DateOfBirth:   optionalDate(req.DateOfBirth),
			Gender:        optionalGender(req.Gender),
			Designation:   optionalString(req.Designation),
			PhoneNumber:   optionalString(req.PhoneNumber),
			Salary:        req.Salary,
			AccountNumber: optionalString(req.AccountNumber),
			BankBranch:    optionalString(req.BankBranch),
			BankIFSC:      upperString(req.BankIFSC),
			IsActive:      true,
		})
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created",
		"employee_id", created.ID,
		"employee_code", created.EmployeeCode,
		"user_id", created.UserID,
	)
	return s.Get(ctx, created.ID)
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := employee.ListEmployeeResponse{
		Employees:  make([]employee.EmployeeResponse, 0, len(employees)),
		Pagination: pagination.New(filter.Page, filter.Limit, total),
	}
	for _, e := range employees {
		resp.Employees = append(resp.Employees, employee.ToResponse(e))
	}
	return resp, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	joiningChanged := false
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.employeeRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.ShiftID != nil && *req.ShiftID != existing.ShiftID {
			if err := s.checkShift(ctx, *req.ShiftID); err != nil {
				return err
			}
			existing.ShiftID = *req.ShiftID
		}
		if req.DepartmentID != nil {
			existing.DepartmentID = optionalString(req.DepartmentID)
			if err := s.checkDepartment(ctx, existing.DepartmentID); err != nil {
				return err
			}
		}
		if req.DateOfJoin != nil {
			doj, _ := validator.IsValidDate(*req.DateOfJoin)
			joiningChanged = !doj.Equal(existing.DateOfJoining)
			existing.DateOfJoining = doj
		}
		if req.DateOfBirth != nil {
			existing.DateOfBirth = optionalDate(req.DateOfBirth)
		}
		if req.Gender != nil {
			existing.Gender = optionalGender(req.Gender)
		}
		if req.Designation != nil {
			existing.Designation = optionalString(req.Designation)
		}
		if req.PhoneNumber != nil {
			existing.PhoneNumber = optionalString(req.PhoneNumber)
		}
		if req.Salary != nil {
			existing.Salary = req.Salary
		}
		if req.AccountNumber != nil {
			existing.AccountNumber = optionalString(req.AccountNumber)
		}
		if req.BankBranch != nil {
			existing.BankBranch = optionalString(req.BankBranch)
		}
		if req.BankIFSC != nil {
			existing.BankIFSC = upperString(req.BankIFSC)
		}

		if req.Name != nil {
			existing.Name = strings.TrimSpace(*req.Name)
			role := user.Role(existing.Role)
			if !role.IsValid() {
				role = user.RoleEmployee
			}
			if err := s.userRepo.Update(ctx, user.User{
				ID:   existing.UserID,
				Name: existing.Name,
				Role: role,
			}); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		_, err = s.employeeRepo.Update(ctx, existing)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// Accrual depends on the joining date.
	if joiningChanged {
		if err := s.balanceCache.Invalidate(ctx, req.ID); err != nil {
			slog.Warn("Leave balance cache invalidation failed", "employee_id", req.ID, "error", err)
		}
	}

	slog.Info("Employee updated", "employee_id", req.ID)
	return s.Get(ctx, req.ID)
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.employeeRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	slog.Info("Employee deleted", "employee_id", id)
	return nil
}
