package memory

import (
	"context"
	"strconv"

	"github.com/baechuer/france-explorer/internal/application/auth"
	"github.com/baechuer/france-explorer/internal/application/location"
	"github.com/baechuer/france-explorer/internal/logger"
)

// NoopPublisher logs events instead of sending them. Used when no broker is
// configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("event", "user_registered").
		Str("user_id", strconv.FormatInt(evt.UserID, 10)).
		Msg("noop publish")
	return nil
}

func (p *NoopPublisher) PublishDescriptionGenerated(ctx context.Context, evt location.DescriptionGeneratedEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("event", "description_generated").
		Str("town_code", evt.TownCode).
		Str("language", evt.Language).
		Bool("stored", evt.Stored).
		Msg("noop publish")
	return nil
}

func (p *NoopPublisher) PublishDescriptionsInvalidated(ctx context.Context, evt location.DescriptionsInvalidatedEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("event", "descriptions_invalidated").
		Str("town_code", evt.TownCode).
		Int64("deleted", evt.Deleted).
		Msg("noop publish")
	return nil
}
