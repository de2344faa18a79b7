package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/baechuer/france-explorer/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `user_id, username, email, password`

func scanUser(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(&ur.ID, &ur.Username, &ur.Email, &ur.Password)
	return ur, err
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}

	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1;`

	return r.getOne(ctx, q, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`

	return r.getOne(ctx, q, email)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg string) (domain.User, error) {
	ur, err := scanUser(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return ur.toDomain(), nil
}

// Create inserts a user and returns it with the generated id. Unique
// violations surface as the matching conflict error.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	const q = `
INSERT INTO users (username, email, password)
VALUES ($1, $2, $3)
RETURNING ` + userColumns + `;
`
	ur, err := scanUser(r.db.QueryRowContext(ctx, q, u.Username, u.Email, u.PasswordHash))
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			if strings.Contains(constraint, "email") {
				return domain.User{}, domain.ErrEmailAlreadyExists()
			}
			return domain.User{}, domain.ErrUsernameAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return ur.toDomain(), nil
}
