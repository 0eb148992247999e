package eventstore

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitefreeze/internal/generator"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/observability"
)

// Appender is the write side of a Store.
type Appender interface {
	Append(ctx context.Context, runID, eventType string, payload []byte, metadata map[string]string) error
}

// Recorder is a generator.Observer persisting run events. Store failures are
// logged and never fail the run.
type Recorder struct {
	store Appender
	runID string
}

var _ generator.Observer = (*Recorder)(nil)

// NewRecorder returns a Recorder writing to store.
func NewRecorder(store Appender) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) record(ctx context.Context, eventType string, data any) {
	ev, err := NewEvent(r.runID, eventType, data)
	if err == nil {
		// Run events are written even when the run itself was canceled.
		err = r.store.Append(context.WithoutCancel(ctx), ev.RunID(), ev.Type(), ev.Payload(), nil)
	}
	if err != nil {
		observability.WarnContext(ctx, "Failed to record event", logfields.Stage(eventType), logfields.Error(err))
	}
}

func (r *Recorder) RunStarted(ctx context.Context, info generator.RunInfo) {
	r.runID = info.ID
	r.record(ctx, TypeRunStarted, RunStartedData{
		OutputFolder: info.OutputFolder,
		BaseURL:      info.BaseURL,
		Languages:    info.Languages,
	})
}

func (r *Recorder) StageCompleted(context.Context, string, time.Duration) {}

func (r *Recorder) PageGenerated(ctx context.Context, ev generator.PageEvent) {
	r.record(ctx, TypePageGenerated, PageGeneratedData{
		Key:        ev.Key,
		Language:   ev.Language,
		Path:       ev.Path,
		DurationMS: ev.Duration.Milliseconds(),
	})
}

func (r *Recorder) FileCopied(ctx context.Context, ev generator.CopyEvent) {
	r.record(ctx, TypeFileCopied, CopyData{Kind: ev.Kind, Source: ev.Source, Target: ev.Target})
}

func (r *Recorder) CopyFailed(ctx context.Context, ev generator.CopyEvent, err error) {
	r.record(ctx, TypeCopyFailed, CopyData{Kind: ev.Kind, Source: ev.Source, Target: ev.Target, Error: err.Error()})
}

func (r *Recorder) RunFinished(ctx context.Context, s generator.RunSummary) {
	d := RunFinishedData{
		Status:     string(s.Outcome()),
		Files:      len(s.Files),
		DurationMS: s.Duration.Milliseconds(),
		RenderBase: s.RenderBase,
	}
	if s.Err != nil {
		d.Error = s.Err.Error()
	}
	r.record(ctx, TypeRunFinished, d)
}
