package powerbi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultEventSubject is the NATS subject prefix used when none is configured.
const DefaultEventSubject = "powerbi.requests"

// ErrNATSConnRequired is returned when a NATS publisher is built without a connection.
var ErrNATSConnRequired = errors.New("NATS connection is required")

// RequestEvent describes one completed API call.
type RequestEvent struct {
	RequestID  string        `json:"request_id"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	StatusCode int           `json:"status_code,omitempty"`
	Kind       string        `json:"kind,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	Error      string        `json:"error,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// EventPublisher receives request events. Implementations must be safe for
// concurrent use. A publishing failure never fails the API call.
type EventPublisher interface {
	PublishRequestEvent(ctx context.Context, event RequestEvent) error
}

// natsConn is the subset of *nats.Conn used by NATSEventPublisher.
type natsConn interface {
	Publish(subject string, data []byte) error
}

// NATSEventPublisher publishes request events as JSON on a NATS subject.
// Events are sent to "<subject>.<method>", e.g. "powerbi.requests.GET".
type NATSEventPublisher struct {
	conn    natsConn
	subject string
}

// NewNATSEventPublisher creates a publisher on an existing connection.
func NewNATSEventPublisher(conn *nats.Conn, subject string) (*NATSEventPublisher, error) {
	if conn == nil {
		return nil, ErrNATSConnRequired
	}

	return newNATSEventPublisher(conn, subject), nil
}

func newNATSEventPublisher(conn natsConn, subject string) *NATSEventPublisher {
	if subject == "" {
		subject = DefaultEventSubject
	}

	return &NATSEventPublisher{conn: conn, subject: subject}
}

// ConnectNATSEventPublisher dials url and returns a publisher together with
// the connection so the caller can drain it on shutdown.
func ConnectNATSEventPublisher(url, subject string, opts ...nats.Option) (*NATSEventPublisher, *nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return newNATSEventPublisher(conn, subject), conn, nil
}

// PublishRequestEvent implements EventPublisher.
func (p *NATSEventPublisher) PublishRequestEvent(_ context.Context, event RequestEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding request event: %w", err)
	}

	err = p.conn.Publish(p.subject+"."+event.Method, data)
	if err != nil {
		return fmt.Errorf("publishing request event: %w", err)
	}

	return nil
}
