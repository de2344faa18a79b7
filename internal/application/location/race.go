package location

import "context"

type raceKey struct{}

// WithRaceResolution marks ctx as the re-read that follows a lost insert.
// Stores use ResolvingRace to avoid counting that read as a cache lookup.
func WithRaceResolution(ctx context.Context) context.Context {
	return context.WithValue(ctx, raceKey{}, true)
}

// ResolvingRace reports whether ctx belongs to a lost-insert re-read.
func ResolvingRace(ctx context.Context) bool {
	v, _ := ctx.Value(raceKey{}).(bool)
	return v
}
