package location

import (
	"context"
	"strings"

	"github.com/baechuer/france-explorer/internal/domain"
)

// Lookup resolves a town and returns its description, reading through the
// description cache and generating on a miss. Two concurrent misses for the
// same key may both generate; only one insert is kept.
func (s *Service) Lookup(ctx context.Context, in LookupInput) (LookupResult, error) {
	name := domain.NormalizeTownName(in.Name)
	if name == "" {
		return LookupResult{}, domain.ErrMissingField("name")
	}
	lang, err := domain.NormalizeLanguage(in.Language)
	if err != nil {
		return LookupResult{}, err
	}
	deptCode := strings.TrimSpace(in.DepartmentCode)

	town, err := s.geo.FindTown(ctx, name, deptCode)
	if err != nil {
		return LookupResult{}, err
	}

	res := LookupResult{
		Town:           town,
		DepartmentCode: deptCode,
		Language:       lang,
		Images:         s.fetchImages(ctx, town),
	}

	key := domain.DescriptionKey{TownCode: town.Code, Department: deptCode, Language: lang}

	cached, err := s.descriptions.Get(ctx, key)
	switch {
	case err == nil:
		res.Description = cached
		res.Source = SourceCache
		return res, nil
	case !domain.Is(err, "description_not_found"):
		return LookupResult{}, err
	}

	generated, err := s.generator.Generate(ctx, GenerateInput{
		TownName:       town.Name,
		DepartmentName: town.DepartmentName,
		RegionName:     town.RegionName,
		Language:       lang,
	})
	if err != nil {
		return LookupResult{}, domain.ErrGenerationFailed(err)
	}
	generated = strings.TrimSpace(generated)
	if generated == "" {
		return LookupResult{}, domain.ErrGenerationFailed(nil)
	}

	inserted, err := s.descriptions.Save(ctx, key, generated)
	if err != nil {
		return LookupResult{}, err
	}

	res.Description = generated
	res.Source = SourceGenerated
	if !inserted {
		// Lost the insert race; serve the stored winner so every caller agrees.
		if stored, gerr := s.descriptions.Get(WithRaceResolution(ctx), key); gerr == nil {
			res.Description = stored
		}
	}

	s.audit("description_generated", map[string]string{
		"town_code":  key.TownCode,
		"department": key.Department,
		"language":   key.Language,
	})
	s.publishGenerated(ctx, key, inserted)

	return res, nil
}

func (s *Service) fetchImages(ctx context.Context, town domain.TownInfo) []domain.Image {
	if s.images == nil {
		return []domain.Image{}
	}
	imgs, err := s.images.FetchImages(ctx, town.Name, town.DepartmentName)
	if err != nil {
		s.audit("images_unavailable", map[string]string{
			"town_code": town.Code,
			"error":     err.Error(),
		})
		return []domain.Image{}
	}
	if imgs == nil {
		return []domain.Image{}
	}
	return imgs
}

func (s *Service) publishGenerated(ctx context.Context, key domain.DescriptionKey, stored bool) {
	if s.pub == nil {
		return
	}
	err := s.pub.PublishDescriptionGenerated(ctx, DescriptionGeneratedEvent{
		TownCode:   key.TownCode,
		Department: key.Department,
		Language:   key.Language,
		Stored:     stored,
		At:         s.now().UTC(),
	})
	if err != nil {
		s.audit("publish_failed", map[string]string{
			"event": "description_generated",
			"error": err.Error(),
		})
	}
}
