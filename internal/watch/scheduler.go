package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
)

// Scheduler regenerates on a fixed interval, starting immediately.
type Scheduler struct {
	interval time.Duration
	run      Func
}

// NewScheduler returns a Scheduler running run every interval.
func NewScheduler(interval time.Duration, run Func) *Scheduler {
	return &Scheduler{interval: interval, run: run}
}

// Run blocks until ctx is canceled. A run still in progress when the next
// tick fires delays that tick instead of overlapping.
func (s *Scheduler) Run(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create scheduler").Build()
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { execute(ctx, "schedule", s.run) }),
		gocron.WithName("generate"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to schedule regeneration").
			WithContext("interval", s.interval.String()).Build()
	}

	slog.Info("Starting scheduler", slog.Duration("interval", s.interval))
	sched.Start()
	<-ctx.Done()
	slog.Info("Stopping scheduler")
	if err := sched.Shutdown(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to stop scheduler").Build()
	}
	return nil
}
