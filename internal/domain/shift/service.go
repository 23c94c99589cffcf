package shift

import "context"

type ShiftService interface {
	Create(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	Update(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	Deactivate(ctx context.Context, req DeactivateShiftRequest) error
	Get(ctx context.Context, id string) (ShiftResponse, error)
	List(ctx context.Context, activeOnly bool) ([]ShiftResponse, error)
}
