package postgres

import "github.com/baechuer/france-explorer/internal/domain"

type userRow struct {
	ID       int64
	Username string
	Email    string
	Password string
}

func (ur userRow) toDomain() domain.User {
	return domain.User{
		ID:           ur.ID,
		Username:     ur.Username,
		Email:        ur.Email,
		PasswordHash: ur.Password,
	}
}
