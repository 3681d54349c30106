package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// SubjectPipelineResolved is the default subject for PipelineResolved messages.
const SubjectPipelineResolved = "nlu.pipeline.resolved"

// Publisher announces resolved pipelines.
type Publisher interface {
	PublishResolved(ctx context.Context, p *PipelineResolved) error
}

// Conn is the subset of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes events on a NATS connection.
type NATSPublisher struct {
	conn    Conn
	subject string
	logger  *slog.Logger
}

// NewNATSPublisher creates a publisher on conn. An empty subject uses
// SubjectPipelineResolved.
func NewNATSPublisher(conn Conn, subject string, logger *slog.Logger) *NATSPublisher {
	if subject == "" {
		subject = SubjectPipelineResolved
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger,
	}
}

// Connect dials the NATS server at url and returns a publisher on it.
func Connect(url, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("nlu"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return NewNATSPublisher(conn, subject, logger), nil
}

// Subject returns the subject messages are published on.
func (p *NATSPublisher) Subject() string {
	return p.subject
}

// PublishResolved encodes and publishes a PipelineResolved message.
// NATS Publish does not take a context, so the context is checked before publishing.
func (p *NATSPublisher) PublishResolved(ctx context.Context, msg *PipelineResolved) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
	p.logger.Debug("Published pipeline",
		"subject", p.subject,
		"pipeline_id", msg.ID,
		"ref", msg.Ref)
	return nil
}

// JetStream returns a JetStream context on the publisher's connection.
func (p *NATSPublisher) JetStream() (jetstream.JetStream, error) {
	nc, ok := p.conn.(*nats.Conn)
	if !ok {
		return nil, errors.New("publisher is not backed by a NATS connection")
	}
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	return js, nil
}

// Fanout publishes to every publisher in order. All publishers are attempted;
// their errors are joined.
type Fanout []Publisher

// PublishResolved implements Publisher.
func (f Fanout) PublishResolved(ctx context.Context, msg *PipelineResolved) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.PublishResolved(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close drains the underlying connection when it is a *nats.Conn.
func (p *NATSPublisher) Close() error {
	if nc, ok := p.conn.(*nats.Conn); ok {
		return nc.Drain()
	}
	return nil
}
