package manifest

import (
	"context"

	"git.home.luguber.info/inful/sitefreeze/internal/generator"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/observability"
)

// Source supplies the inputs and plan of a record. Fingerprints runs when
// the run finishes so it sees the content that was rendered.
type Source struct {
	ConfigHash   string
	ProjectRoot  string
	Plan         Plan
	Fingerprints func() (map[string]map[string]string, error)
}

// Writer is a generator.Observer that writes a BuildRecord to Path after
// every run. Failures are logged; they never fail the run.
type Writer struct {
	generator.NoopObserver
	Path   string
	Source Source

	last *BuildRecord
}

var _ generator.Observer = (*Writer)(nil)

// NewWriter returns a Writer storing records at path.
func NewWriter(path string, src Source) *Writer {
	return &Writer{Path: path, Source: src}
}

// Last returns the most recent record, nil before the first run.
func (w *Writer) Last() *BuildRecord { return w.last }

func (w *Writer) RunFinished(ctx context.Context, s generator.RunSummary) {
	rec, err := w.Build(s)
	if err != nil {
		observability.WarnContext(ctx, "Build record incomplete", logfields.Error(err))
	}
	w.last = rec
	if w.Path == "" {
		return
	}
	if err := rec.Write(w.Path); err != nil {
		observability.WarnContext(ctx, "Failed to write build record", logfields.Path(w.Path), logfields.Error(err))
		return
	}
	observability.DebugContext(ctx, "Build record written", logfields.Path(w.Path))
}

// Build assembles the record for s. The returned record is usable even when
// an error is reported for one of the optional inputs.
func (w *Writer) Build(s generator.RunSummary) (*BuildRecord, error) {
	rec := New()
	rec.RunID = s.ID
	rec.Timestamp = s.Started.UTC()
	rec.Status = string(s.Outcome())
	rec.Duration = s.Duration.Milliseconds()
	if s.Err != nil {
		rec.Error = s.Err.Error()
	}

	rec.Inputs.ConfigHash = w.Source.ConfigHash
	rec.Inputs.Languages = s.Languages
	rec.Plan = w.Source.Plan
	rec.Plan.RenderBase = s.RenderBase
	rec.Plan.BaseURL = s.BaseURL

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if w.Source.ProjectRoot != "" {
		commit, err := HeadCommit(w.Source.ProjectRoot)
		keep(err)
		rec.Inputs.Commit = commit
	}
	if w.Source.Fingerprints != nil {
		fps, err := w.Source.Fingerprints()
		keep(err)
		rec.SetNodes(fps)
	}
	outputs, err := HashOutputs(s.OutputFolder, s.Files)
	keep(err)
	if err == nil {
		rec.Outputs = outputs
	}
	return rec, firstErr
}
