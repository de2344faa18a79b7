package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/france-explorer/internal/domain"
)

// DescriptionRepo is the durable description cache. Rows never expire; they
// only go away through DeleteByTown.
type DescriptionRepo struct {
	db *sql.DB
}

func NewDescriptionRepo(db *sql.DB) *DescriptionRepo {
	return &DescriptionRepo{db: db}
}

func (r *DescriptionRepo) Get(ctx context.Context, key domain.DescriptionKey) (string, error) {
	const q = `
SELECT description FROM descriptions
WHERE town_code = $1 AND department = $2 AND language = $3
LIMIT 1;
`
	var d string
	err := r.db.QueryRowContext(ctx, q, key.TownCode, key.Department, key.Language).Scan(&d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrDescriptionNotFound()
		}
		return "", domain.ErrDBUnavailable(err)
	}
	return d, nil
}

// Save inserts the description unless one already exists for key.
// inserted is false when a concurrent writer stored it first.
func (r *DescriptionRepo) Save(ctx context.Context, key domain.DescriptionKey, description string) (bool, error) {
	const q = `
INSERT INTO descriptions (town_code, department, language, description)
VALUES ($1, $2, $3, $4)
ON CONFLICT (town_code, department, language) DO NOTHING;
`
	res, err := r.db.ExecContext(ctx, q, key.TownCode, key.Department, key.Language, description)
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return n == 1, nil
}

// DeleteByTown removes the descriptions of a town in every language.
func (r *DescriptionRepo) DeleteByTown(ctx context.Context, townCode, department string) (int64, error) {
	const q = `DELETE FROM descriptions WHERE town_code = $1 AND department = $2;`

	res, err := r.db.ExecContext(ctx, q, townCode, department)
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}
