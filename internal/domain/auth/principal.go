package auth

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID     string
	Email      string
	Role       user.Role
	EmployeeID string
}

func (p Principal) IsAdmin() bool {
	return p.Role == user.RoleAdmin
}

// CanAccessEmployee allows admins everywhere and employees only on their own records.
func (p Principal) CanAccessEmployee(employeeID string) bool {
	if p.IsAdmin() {
		return true
	}
	return p.EmployeeID != "" && p.EmployeeID == employeeID
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
