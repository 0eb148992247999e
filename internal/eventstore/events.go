package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
)

// RunStartedData is the payload of run.started.
type RunStartedData struct {
	OutputFolder string   `json:"output_folder"`
	BaseURL      string   `json:"base_url"`
	Languages    []string `json:"languages,omitempty"`
}

// PageGeneratedData is the payload of page.generated.
type PageGeneratedData struct {
	Key        string `json:"key"`
	Language   string `json:"language,omitempty"`
	Path       string `json:"path"`
	DurationMS int64  `json:"duration_ms"`
}

// CopyData is the payload of file.copied and copy.failed.
type CopyData struct {
	Kind   string `json:"kind"`
	Source string `json:"source"`
	Target string `json:"target"`
	Error  string `json:"error,omitempty"`
}

// RunFinishedData is the payload of run.finished.
type RunFinishedData struct {
	Status     string `json:"status"`
	Files      int    `json:"files"`
	DurationMS int64  `json:"duration_ms"`
	RenderBase string `json:"render_base,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewEvent marshals data into an event of eventType for runID.
func NewEvent(runID, eventType string, data any) (*BaseEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, errors.EventStoreError("failed to marshal "+eventType+" payload").
			WithCause(err).
			WithContext("run_id", runID).
			Build()
	}
	return &BaseEvent{
		EventRunID:     runID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   payload,
	}, nil
}

// Decode unmarshals an event payload into v.
func Decode(e Event, v any) error {
	if err := json.Unmarshal(e.Payload(), v); err != nil {
		return errors.EventStoreError("failed to unmarshal "+e.Type()+" payload").
			WithCause(err).
			WithContext("run_id", e.RunID()).
			Build()
	}
	return nil
}
