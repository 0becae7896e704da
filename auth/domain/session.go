package domain

import (
	"context"
	"time"
)

// Session is the identity attached to an authenticated request.
type Session struct {
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
	// Token is the raw bearer token, needed to revoke it on logout.
	Token string `json:"-"`
}

// IAuthService defines the business logic for authentication
type IAuthService interface {
	Login(ctx context.Context, username, password string) (string, *Session, error)
	Authenticate(ctx context.Context, token string) (*Session, error)
	Logout(ctx context.Context, token string) error
}
