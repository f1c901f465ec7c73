// Package events publishes completed dashboard actions on a NATS subject.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const DefaultSubject = "jade.events"

// Event types.
const (
	TypeScanCompleted    = "scan.completed"
	TypeVideoProcessed   = "video.processed"
	TypeStrategyExecuted = "strategy.executed"
	TypeMemoryStored     = "memory.stored"
)

// Event is the envelope written to the subject.
type Event struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Source  string         `json:"source"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(typ, source string, payload map[string]any) Event {
	return Event{ID: uuid.NewString(), Type: typ, Source: source, At: time.Now().UTC(), Payload: payload}
}

func (e Event) Validate() error {
	if e.ID == "" || e.Type == "" || e.Source == "" || e.At.IsZero() {
		return fmt.Errorf("events: incomplete event %q", e.Type)
	}
	return nil
}

// Publisher is the events capability contract.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NATSPublisher publishes on a core NATS subject.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

// Connect dials url; an unreachable server fails construction.
func Connect(url, subject string) (*NATSPublisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	if subject == "" {
		subject = DefaultSubject
	}
	nc, err := nats.Connect(url,
		nats.Name("jade-dashboard"),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("events: connect %s: %w", url, err)
	}
	return &NATSPublisher{nc: nc, subject: subject}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := evt.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, data)
}

func (p *NATSPublisher) Subject() string { return p.subject }

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
