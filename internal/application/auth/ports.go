package auth

import (
	"context"
	"time"

	"github.com/baechuer/france-explorer/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the auth service needs, not HOW it's stored.
Lookups return domain.ErrUserNotFound when no row matches.
*/
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

/*
PasswordHasher
--------------
Abstracts the salted one-way hash.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies access tokens (JWT).
Used by service + auth middleware.
*/
type TokenClaims struct {
	UserID string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
EventPublisher
--------------
Publishes account events to the broker. Delivery is best effort:
a failed publish never fails the request that triggered it.
*/
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
}

type UserRegisteredEvent struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	At       time.Time `json:"at"`
}
