package salary

import "context"

type SalaryRepository interface {
	// Create returns ErrSalaryAlreadyPaid when the employee already has a
	// salary on the same pay date.
	Create(ctx context.Context, s Salary) (Salary, error)
	GetByID(ctx context.Context, id string) (Salary, error)
	List(ctx context.Context, filter SalaryFilter) ([]Salary, int64, error)
}
