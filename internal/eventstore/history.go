package eventstore

import (
	"sort"
	"time"
)

// Run statuses. Finished runs carry the generator outcome instead.
const StatusRunning = "running"

// RunSummary is a read model of one run folded from its events.
type RunSummary struct {
	RunID        string        `json:"run_id"`
	Status       string        `json:"status"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   *time.Time    `json:"finished_at,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	OutputFolder string        `json:"output_folder,omitempty"`
	BaseURL      string        `json:"base_url,omitempty"`
	Pages        int           `json:"pages"`
	Copied       int           `json:"copied"`
	CopyFailures int           `json:"copy_failures"`
	Files        int           `json:"files"`
	Error        string        `json:"error,omitempty"`
}

// Summarize folds events (in insertion order) into one summary per run,
// newest first. Undecodable payloads are ignored.
func Summarize(events []Event) []RunSummary {
	byRun := map[string]*RunSummary{}
	var order []string
	for _, e := range events {
		id := e.RunID()
		if id == "" {
			continue
		}
		s, ok := byRun[id]
		if !ok {
			s = &RunSummary{RunID: id, Status: StatusRunning, StartedAt: e.Timestamp()}
			byRun[id] = s
			order = append(order, id)
		}
		apply(s, e)
	}

	out := make([]RunSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byRun[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

func apply(s *RunSummary, e Event) {
	switch e.Type() {
	case TypeRunStarted:
		var d RunStartedData
		if Decode(e, &d) == nil {
			s.StartedAt = e.Timestamp()
			s.OutputFolder = d.OutputFolder
			s.BaseURL = d.BaseURL
		}
	case TypePageGenerated:
		s.Pages++
	case TypeFileCopied:
		s.Copied++
	case TypeCopyFailed:
		s.CopyFailures++
	case TypeRunFinished:
		var d RunFinishedData
		if Decode(e, &d) == nil {
			t := e.Timestamp()
			s.FinishedAt = &t
			s.Status = d.Status
			s.Files = d.Files
			s.Duration = time.Duration(d.DurationMS) * time.Millisecond
			s.Error = d.Error
		}
	}
}
