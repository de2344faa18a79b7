package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/france-explorer/internal/domain"
)

type GeoRepo struct {
	db *sql.DB
}

func NewGeoRepo(db *sql.DB) *GeoRepo {
	return &GeoRepo{db: db}
}

// FindTown matches the town name case-insensitively inside one department.
func (r *GeoRepo) FindTown(ctx context.Context, name, departmentCode string) (domain.TownInfo, error) {
	const q = `
SELECT t.code, t.name, t.department,
       d.name AS department_name,
       r.code AS region_code,
       r.name AS region_name
FROM towns t
JOIN departments d ON t.department = d.code
JOIN regions r ON d.region = r.code
WHERE LOWER(t.name) = LOWER($1)
  AND t.department = $2
LIMIT 1;
`
	var ti domain.TownInfo
	err := r.db.QueryRowContext(ctx, q, name, departmentCode).Scan(
		&ti.Code,
		&ti.Name,
		&ti.Department,
		&ti.DepartmentName,
		&ti.RegionCode,
		&ti.RegionName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TownInfo{}, domain.ErrTownNotFound()
		}
		return domain.TownInfo{}, domain.ErrDBUnavailable(err)
	}
	return ti, nil
}
