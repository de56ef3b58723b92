package user

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"
)

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*User, error)
	List(ctx context.Context, skip, limit int) ([]*User, error)
	Update(ctx context.Context, userID int64, patch *Patch) (*User, error)
	Delete(ctx context.Context, userID int64) (*User, error)
}

// SessionRepository stores login sessions
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
}

// SessionCache is a best-effort token to user id lookup in front of
// SessionRepository.
type SessionCache interface {
	Get(ctx context.Context, token string) (userID int64, found bool, err error)
	Set(ctx context.Context, token string, userID int64) error
}
