package generator

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitefreeze/internal/metrics"
)

// Stage names reported to observers and logs.
const (
	StageGuard   = "guard"
	StageClear   = "clear"
	StagePages   = "pages"
	StageRoutes  = "routes"
	StageMedia   = "media"
	StagePlugins = "plugins"
	StageCopy    = "copy"
)

// RunInfo describes a run when it starts.
type RunInfo struct {
	ID           string
	OutputFolder string
	BaseURL      string
	RenderBase   string
	Languages    []string
	Started      time.Time
}

// RunSummary describes a finished run.
type RunSummary struct {
	RunInfo
	Files    []string
	Duration time.Duration
	Err      error
}

// Outcome maps the summary to a metrics outcome label.
func (s RunSummary) Outcome() metrics.Outcome {
	switch {
	case s.Err == nil:
		return metrics.OutcomeSuccess
	case isCanceled(s.Err):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}

// PageEvent is reported for every written page.
type PageEvent struct {
	Key      string
	Language string
	Path     string
	Duration time.Duration
}

// CopyEvent is reported for every copied file.
type CopyEvent struct {
	Kind   string
	Source string
	Target string
}

// Observer receives run lifecycle callbacks. Callbacks run synchronously on
// the generating goroutine.
type Observer interface {
	RunStarted(ctx context.Context, info RunInfo)
	StageCompleted(ctx context.Context, stage string, d time.Duration)
	PageGenerated(ctx context.Context, ev PageEvent)
	FileCopied(ctx context.Context, ev CopyEvent)
	CopyFailed(ctx context.Context, ev CopyEvent, err error)
	RunFinished(ctx context.Context, summary RunSummary)
}

// NoopObserver ignores every callback.
type NoopObserver struct{}

func (NoopObserver) RunStarted(context.Context, RunInfo)                   {}
func (NoopObserver) StageCompleted(context.Context, string, time.Duration) {}
func (NoopObserver) PageGenerated(context.Context, PageEvent)              {}
func (NoopObserver) FileCopied(context.Context, CopyEvent)                 {}
func (NoopObserver) CopyFailed(context.Context, CopyEvent, error)          {}
func (NoopObserver) RunFinished(context.Context, RunSummary)               {}

// MultiObserver fans callbacks out in order.
type MultiObserver []Observer

func (m MultiObserver) RunStarted(ctx context.Context, info RunInfo) {
	for _, o := range m {
		o.RunStarted(ctx, info)
	}
}

func (m MultiObserver) StageCompleted(ctx context.Context, stage string, d time.Duration) {
	for _, o := range m {
		o.StageCompleted(ctx, stage, d)
	}
}

func (m MultiObserver) PageGenerated(ctx context.Context, ev PageEvent) {
	for _, o := range m {
		o.PageGenerated(ctx, ev)
	}
}

func (m MultiObserver) FileCopied(ctx context.Context, ev CopyEvent) {
	for _, o := range m {
		o.FileCopied(ctx, ev)
	}
}

func (m MultiObserver) CopyFailed(ctx context.Context, ev CopyEvent, err error) {
	for _, o := range m {
		o.CopyFailed(ctx, ev, err)
	}
}

func (m MultiObserver) RunFinished(ctx context.Context, s RunSummary) {
	for _, o := range m {
		o.RunFinished(ctx, s)
	}
}

// recorderObserver adapts a metrics.Recorder.
type recorderObserver struct{ rec metrics.Recorder }

// MetricsObserver returns an Observer feeding rec.
func MetricsObserver(rec metrics.Recorder) Observer {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return recorderObserver{rec: rec}
}

func (r recorderObserver) RunStarted(context.Context, RunInfo) {}

func (r recorderObserver) StageCompleted(_ context.Context, stage string, d time.Duration) {
	r.rec.ObserveStageDuration(stage, d)
}

func (r recorderObserver) PageGenerated(_ context.Context, ev PageEvent) {
	r.rec.IncPagesRendered(ev.Language)
	r.rec.ObserveRenderDuration(ev.Duration)
}

func (r recorderObserver) FileCopied(_ context.Context, ev CopyEvent) {
	r.rec.IncFilesCopied(ev.Kind)
}

func (r recorderObserver) CopyFailed(_ context.Context, ev CopyEvent, _ error) {
	r.rec.IncCopyFailures(ev.Kind)
}

func (r recorderObserver) RunFinished(_ context.Context, s RunSummary) {
	r.rec.ObserveRunDuration(s.Duration)
	r.rec.IncRunOutcome(s.Outcome())
	r.rec.SetGeneratedFiles(len(s.Files))
}
