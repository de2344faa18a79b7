package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/baechuer/france-explorer/internal/domain"
)

// Reference rows loaded into an empty dev database.
var (
	seedRegions = []domain.Region{
		{Code: "11", Name: "Île-de-France"},
		{Code: "84", Name: "Auvergne-Rhône-Alpes"},
		{Code: "93", Name: "Provence-Alpes-Côte d'Azur"},
	}
	seedDepartments = []domain.Department{
		{Code: "13", Name: "Bouches-du-Rhône", Region: "93"},
		{Code: "42", Name: "Loire", Region: "84"},
		{Code: "69", Name: "Rhône", Region: "84"},
		{Code: "75", Name: "Paris", Region: "11"},
	}
	seedTowns = []domain.Town{
		{Code: "13055", Name: "Marseille", Department: "13"},
		{Code: "42218", Name: "Saint-Étienne", Department: "42"},
		{Code: "69123", Name: "Lyon", Department: "69"},
		{Code: "75056", Name: "Paris", Department: "75"},
	}
)

// SeedReference inserts the sample regions, departments and towns. Existing
// rows are left alone so it is restart safe.
func SeedReference(ctx context.Context, db *sql.DB) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, r := range seedRegions {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO regions (code, name) VALUES ($1, $2) ON CONFLICT DO NOTHING;`,
			r.Code, r.Name,
		); err != nil {
			return fmt.Errorf("seed region %s: %w", r.Code, err)
		}
	}
	for _, d := range seedDepartments {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO departments (code, name, region) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING;`,
			d.Code, d.Name, d.Region,
		); err != nil {
			return fmt.Errorf("seed department %s: %w", d.Code, err)
		}
	}
	for _, t := range seedTowns {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO towns (code, name, department) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING;`,
			t.Code, t.Name, t.Department,
		); err != nil {
			return fmt.Errorf("seed town %s: %w", t.Code, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	return nil
}
