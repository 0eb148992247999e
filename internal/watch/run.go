package watch

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/observability"
)

// Func performs one regeneration.
type Func func(ctx context.Context) error

func execute(ctx context.Context, trigger string, run Func) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	ctx = observability.WithStage(ctx, trigger)
	err := run(ctx)
	ms := float64(time.Since(start).Milliseconds())
	switch {
	case err == nil:
		observability.InfoContext(ctx, "Regeneration finished", logfields.DurationMS(ms))
	case errors.Is(err, context.Canceled):
		observability.InfoContext(ctx, "Regeneration canceled", logfields.DurationMS(ms))
	default:
		observability.ErrorContext(ctx, "Regeneration failed", logfields.DurationMS(ms), logfields.Error(err))
	}
}
