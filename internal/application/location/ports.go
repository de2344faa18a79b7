package location

import (
	"context"
	"time"

	"github.com/baechuer/france-explorer/internal/domain"
)

/*
GeoRepo
-------
Read-only access to the town / department / region reference data.
FindTown matches the name case-insensitively within one department and
returns domain.ErrTownNotFound when nothing matches.
*/
type GeoRepo interface {
	FindTown(ctx context.Context, name, departmentCode string) (domain.TownInfo, error)
}

/*
DescriptionStore
----------------
The description cache. Get returns domain.ErrDescriptionNotFound on a miss.
Save never overwrites: inserted=false means another writer got there first.
*/
type DescriptionStore interface {
	Get(ctx context.Context, key domain.DescriptionKey) (string, error)
	Save(ctx context.Context, key domain.DescriptionKey, description string) (inserted bool, err error)
	DeleteByTown(ctx context.Context, townCode, department string) (int64, error)
}

/*
Generator
---------
The expensive external text-generation call.
*/
type GenerateInput struct {
	TownName       string
	DepartmentName string
	RegionName     string
	Language       string
}

type Generator interface {
	Generate(ctx context.Context, in GenerateInput) (string, error)
}

/*
ImageFetcher
------------
External image lookup. Callers treat failures like an empty result.
*/
type ImageFetcher interface {
	FetchImages(ctx context.Context, townName, departmentName string) ([]domain.Image, error)
}

/*
EventPublisher
--------------
Best-effort notifications about cache population and invalidation.
*/
type EventPublisher interface {
	PublishDescriptionGenerated(ctx context.Context, evt DescriptionGeneratedEvent) error
	PublishDescriptionsInvalidated(ctx context.Context, evt DescriptionsInvalidatedEvent) error
}

type DescriptionGeneratedEvent struct {
	TownCode   string    `json:"town_code"`
	Department string    `json:"department"`
	Language   string    `json:"language"`
	Stored     bool      `json:"stored"`
	At         time.Time `json:"at"`
}

type DescriptionsInvalidatedEvent struct {
	TownCode   string    `json:"town_code"`
	Department string    `json:"department"`
	Deleted    int64     `json:"deleted"`
	At         time.Time `json:"at"`
}
