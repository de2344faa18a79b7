package auth

import (
	"context"
	"strings"

	"github.com/baechuer/france-explorer/internal/domain"
)

// Login authenticates a user and issues an access token.
// IMPORTANT: unknown usernames and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return LoginResult{}, domain.ErrMissingField("username")
	}
	if password == "" {
		return LoginResult{}, domain.ErrMissingField("password")
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			s.audit("login_rejected", map[string]string{"reason": "unknown_user"})
			return LoginResult{}, domain.ErrInvalidCredentials()
		}
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		s.audit("login_rejected", map[string]string{"reason": "password_mismatch"})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	tok, err := s.issueAccessToken(u)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		User:        u,
		AccessToken: tok,
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}
