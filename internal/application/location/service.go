package location

import (
	"time"

	"github.com/baechuer/france-explorer/internal/domain"
)

// Where a returned description came from.
const (
	SourceCache     = "cache"
	SourceGenerated = "generated"
)

type Service struct {
	geo          GeoRepo
	descriptions DescriptionStore
	generator    Generator
	images       ImageFetcher
	pub          EventPublisher

	audit func(action string, fields map[string]string)
	now   func() time.Time
}

func NewService(
	geo GeoRepo,
	descriptions DescriptionStore,
	generator Generator,
	images ImageFetcher,
	pub EventPublisher,
) *Service {
	return &Service{
		geo:          geo,
		descriptions: descriptions,
		generator:    generator,
		images:       images,
		pub:          pub,
		audit:        func(string, map[string]string) {},
		now:          time.Now,
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

type LookupInput struct {
	Name           string
	Language       string
	DepartmentCode string
}

type LookupResult struct {
	Town           domain.TownInfo
	DepartmentCode string
	Language       string
	Description    string
	Images         []domain.Image
	Source         string
}
