package auth

import "context"

// Usecase defines the interface for account and session operations.
type Usecase interface {
	SignUp(ctx context.Context, in SignUpRequest) (*AuthResponse, error)
	Login(ctx context.Context, in LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, sessionID string) (*User, error)
}

var _ Usecase = (*Service)(nil)
