// Package notify publishes a message to NATS when a generation run finishes.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/generator"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/observability"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "sitefreeze.builds"

const (
	connectTimeout = 5 * time.Second
	flushTimeout   = 5 * time.Second
)

// Message is the JSON body published for every finished run.
type Message struct {
	RunID      string `json:"run_id"`
	Status     string `json:"status"`
	Files      int    `json:"files"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Publisher is the subset of *nats.Conn used by the Notifier.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Notifier is a generator.Observer that publishes run results. Publish
// failures are logged and never fail the run.
type Notifier struct {
	generator.NoopObserver

	pub     Publisher
	subject string
	conn    *nats.Conn
}

var _ generator.Observer = (*Notifier)(nil)

// New returns a Notifier publishing through pub.
func New(pub Publisher, subject string) *Notifier {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Notifier{pub: pub, subject: subject}
}

// Connect dials the comma-separated NATS server list in url.
func Connect(url, subject string) (*Notifier, error) {
	conn, err := nats.Connect(url,
		nats.Name("sitefreeze"),
		nats.Timeout(connectTimeout),
	)
	if err != nil {
		return nil, ferrors.NotifyError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	n := New(conn, subject)
	n.conn = conn
	return n, nil
}

// Subject returns the subject messages are published on.
func (n *Notifier) Subject() string { return n.subject }

func (n *Notifier) RunFinished(ctx context.Context, s generator.RunSummary) {
	msg := Message{
		RunID:      s.ID,
		Status:     string(s.Outcome()),
		Files:      len(s.Files),
		DurationMS: s.Duration.Milliseconds(),
	}
	if s.Err != nil {
		msg.Error = s.Err.Error()
	}
	if err := n.Publish(msg); err != nil {
		observability.WarnContext(ctx, "Failed to publish run notification",
			logfields.RunID(s.ID), logfields.Error(err))
		return
	}
	observability.DebugContext(ctx, "Published run notification",
		logfields.RunID(s.ID), logfields.Status(msg.Status))
}

// Publish marshals msg and publishes it on the configured subject.
func (n *Notifier) Publish(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return ferrors.NotifyError("failed to marshal notification").WithCause(err).Build()
	}
	if err := n.pub.Publish(n.subject, data); err != nil {
		return ferrors.NotifyError("failed to publish notification").
			WithCause(err).
			WithContext("subject", n.subject).
			Retryable().
			Build()
	}
	if n.conn != nil {
		if err := n.conn.FlushTimeout(flushTimeout); err != nil {
			return ferrors.NotifyError("failed to flush notification").
				WithCause(err).
				WithContext("subject", n.subject).
				Retryable().
				Build()
		}
	}
	return nil
}

// Close drains and closes an owned connection.
func (n *Notifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}
