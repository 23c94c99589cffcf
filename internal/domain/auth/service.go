package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Verify(ctx context.Context, p Principal) (UserResponse, error)
	ChangePassword(ctx context.Context, p Principal, req ChangePasswordRequest) error
}
