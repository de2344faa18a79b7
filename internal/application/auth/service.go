package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/baechuer/france-explorer/internal/domain"
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	pub    EventPublisher

	accessTTL time.Duration
	audit     func(action string, fields map[string]string)
	now       func() time.Time
}

type Config struct {
	AccessTTL time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	pub EventPublisher,
	cfg Config,
) *Service {
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		signer:    signer,
		pub:       pub,
		accessTTL: ttl,
		audit:     func(string, map[string]string) {},
		now:       time.Now,
	}
}

// LoginResult carries the authenticated user and the access token that the
// transport layer delivers as a cookie.
type LoginResult struct {
	User        domain.User
	AccessToken string
	ExpiresIn   int64 // seconds
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// AccessTTL is the lifetime of issued access tokens.
func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

func (s *Service) issueAccessToken(u domain.User) (string, error) {
	tok, err := s.signer.SignAccessToken(strconv.FormatInt(u.ID, 10), s.accessTTL)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return tok, nil
}

// VerifyToken validates signature and expiry of an access token.
func (s *Service) VerifyToken(_ context.Context, token string) (TokenClaims, error) {
	if token == "" {
		return TokenClaims{}, domain.ErrTokenMissing()
	}
	return s.signer.VerifyAccessToken(token)
}
