package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("username or email already exists")
)

// Role defines the access level of a blog account
type Role string

const (
	RoleAdmin  Role = "admin"  // Moderation and cache maintenance
	RoleAuthor Role = "author" // Writes articles
	RoleReader Role = "reader" // Comments and likes
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleAuthor || r == RoleReader
}

// User is a blog account. PasswordHash never leaves the process: it is
// excluded from JSON and therefore from cached snapshots.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	Bio          string     `json:"bio,omitempty"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
	Bio         *string `json:"bio"`
	Active      *bool   `json:"active"`
}

func (u ProfileUpdate) Apply(user *User) {
	if u.DisplayName != nil {
		user.DisplayName = *u.DisplayName
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Bio != nil {
		user.Bio = *u.Bio
	}
	if u.Active != nil {
		user.Active = *u.Active
	}
}

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}
