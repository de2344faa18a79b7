package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/baechuer/france-explorer/internal/domain"
)

// Register creates a user after checking that neither the email nor the
// username is taken. The unique constraints in the store still guard the race
// between the checks and the insert.
func (s *Service) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	switch {
	case username == "":
		return domain.User{}, domain.ErrMissingField("username")
	case email == "":
		return domain.User{}, domain.ErrMissingField("email")
	case password == "":
		return domain.User{}, domain.ErrMissingField("password")
	}

	if err := s.ensureFree(ctx, s.users.GetByEmail, email, domain.ErrEmailAlreadyExists()); err != nil {
		return domain.User{}, err
	}
	if err := s.ensureFree(ctx, s.users.GetByUsername, username, domain.ErrUsernameAlreadyExists()); err != nil {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	created, err := s.users.Create(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.audit("user_registered", map[string]string{
		"user_id":  strconv.FormatInt(created.ID, 10),
		"username": created.Username,
	})

	if s.pub != nil {
		evt := UserRegisteredEvent{
			UserID:   created.ID,
			Username: created.Username,
			Email:    created.Email,
			At:       s.now().UTC(),
		}
		if err := s.pub.PublishUserRegistered(ctx, evt); err != nil {
			s.audit("publish_failed", map[string]string{
				"event": "user_registered",
				"error": err.Error(),
			})
		}
	}

	return created, nil
}

func (s *Service) ensureFree(
	ctx context.Context,
	lookup func(context.Context, string) (domain.User, error),
	value string,
	conflict *domain.Error,
) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return conflict
	case domain.Is(err, "user_not_found"):
		return nil
	default:
		return err
	}
}
