package metrics

import "time"

// Outcome labels a finished generation run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Copy kinds label copied files by origin.
const (
	CopyKindMedia  = "media"
	CopyKindPath   = "path"
	CopyKindPlugin = "plugin"
)

// Recorder receives generation metrics. Implementations must tolerate being
// called from one run at a time only.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome Outcome)
	IncPagesRendered(language string)
	ObserveRenderDuration(d time.Duration)
	IncFilesCopied(kind string)
	IncCopyFailures(kind string)
	SetGeneratedFiles(n int)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncRunOutcome(Outcome)                      {}
func (NoopRecorder) IncPagesRendered(string)                    {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)        {}
func (NoopRecorder) IncFilesCopied(string)                      {}
func (NoopRecorder) IncCopyFailures(string)                     {}
func (NoopRecorder) SetGeneratedFiles(int)                      {}
