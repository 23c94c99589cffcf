package shift

import "context"

type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context, activeOnly bool) ([]Shift, error)
	Update(ctx context.Context, s Shift) (Shift, error)
	Deactivate(ctx context.Context, id string) error
	CountAssignedEmployees(ctx context.Context, id string) (int, error)
	ReassignEmployees(ctx context.Context, fromShiftID, toShiftID string) (int64, error)
}
