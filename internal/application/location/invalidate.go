package location

import (
	"context"
	"strconv"
	"strings"

	"github.com/baechuer/france-explorer/internal/domain"
)

// InvalidateDescriptions drops every cached description of a town, in all
// languages, and reports how many were removed.
func (s *Service) InvalidateDescriptions(ctx context.Context, townCode, department string) (int64, error) {
	townCode = strings.TrimSpace(townCode)
	department = strings.TrimSpace(department)

	if townCode == "" {
		return 0, domain.ErrMissingField("town_code")
	}
	if department == "" {
		return 0, domain.ErrMissingField("department")
	}

	n, err := s.descriptions.DeleteByTown(ctx, townCode, department)
	if err != nil {
		return 0, domain.ErrCacheClearFailed(err)
	}

	s.audit("descriptions_invalidated", map[string]string{
		"town_code":  townCode,
		"department": department,
		"deleted":    strconv.FormatInt(n, 10),
	})

	if s.pub != nil {
		err := s.pub.PublishDescriptionsInvalidated(ctx, DescriptionsInvalidatedEvent{
			TownCode:   townCode,
			Department: department,
			Deleted:    n,
			At:         s.now().UTC(),
		})
		if err != nil {
			s.audit("publish_failed", map[string]string{
				"event": "descriptions_invalidated",
				"error": err.Error(),
			})
		}
	}

	return n, nil
}
