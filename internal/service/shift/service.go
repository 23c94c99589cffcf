package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

type ShiftServiceImpl struct {
	tx database.Transactor
	shift.ShiftRepository
}

func NewShiftService(tx database.Transactor, shiftRepository shift.ShiftRepository) shift.ShiftService {
	return &ShiftServiceImpl{
		tx:              tx,
		ShiftRepository: shiftRepository,
	}
}

// Create implements shift.ShiftService.
func (s *ShiftServiceImpl) Create(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	created, err := s.ShiftRepository.Create(ctx, shift.Shift{
		Name:            req.Name,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		IsCrossMidnight: req.IsCrossMidnight,
		GraceMinutes:    shift.ClampGraceMinutes(req.GraceMinutes),
		MinimumHours:    shift.ClampMinimumHours(req.MinimumHours),
	})
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	slog.Info("Shift created", "shift_id", created.ID, "name", created.Name)
	return shift.ToResponse(created), nil
}

// Update implements shift.ShiftService.
func (s *ShiftServiceImpl) Update(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	existing, err := s.ShiftRepository.GetByID(ctx, req.ID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	merged, err := req.Apply(existing)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	updated, err := s.ShiftRepository.Update(ctx, merged)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}
	return shift.ToResponse(updated), nil
}

// Deactivate implements shift.ShiftService. Assigned employees move to the
// replacement shift in the same transaction.
func (s *ShiftServiceImpl) Deactivate(ctx context.Context, req shift.DeactivateShiftRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	var moved int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.ShiftRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !current.IsActive {
			return nil
		}

		assigned, err := s.ShiftRepository.CountAssignedEmployees(ctx, req.ID)
		if err != nil {
			return fmt.Errorf("failed to count assigned employees: %w", err)
		}

		if assigned > 0 {
			if req.ReplacementShiftID == nil {
				return shift.ErrShiftInUse
			}
			if *req.ReplacementShiftID == req.ID {
				return shift.ErrInvalidReplacement
			}
			replacement, err := s.ShiftRepository.GetByID(ctx, *req.ReplacementShiftID)
			if err != nil {
				if errors.Is(err, shift.ErrShiftNotFound) {
					return shift.ErrReplacementNotFound
				}
				return err
			}
			if !replacement.IsActive {
				return shift.ErrInvalidReplacement
			}

			moved, err = s.ShiftRepository.ReassignEmployees(ctx, req.ID, replacement.ID)
			if err != nil {
				return fmt.Errorf("failed to reassign employees: %w", err)
			}
		}

		return s.ShiftRepository.Deactivate(ctx, req.ID)
	})
	if err != nil {
		return err
	}

	slog.Info("Shift deactivated", "shift_id", req.ID, "reassigned_employees", moved)
	return nil
}

// Get implements shift.ShiftService.
func (s *ShiftServiceImpl) Get(ctx context.Context, id string) (shift.ShiftResponse, error) {
	found, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.ToResponse(found), nil
}

// List implements shift.ShiftService.
func (s *ShiftServiceImpl) List(ctx context.Context, activeOnly bool) ([]shift.ShiftResponse, error) {
	shifts, err := s.ShiftRepository.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	resp := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		resp = append(resp, shift.ToResponse(sh))
	}
	return resp, nil
}
