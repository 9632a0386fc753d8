package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/forestgeo/internal/core/domain"
)

// Stream and subject layout for geocoding events.
const (
	StreamGeoEvents = "GEO_EVENTS"

	SubjectPlacesAll = "geo.places.>"
	SubjectBatchAll  = "geo.batch.>"

	subjectPlaceResolved  = "geo.places.resolved."
	subjectBatchRequested = "geo.batch.requested."
	subjectBatchCompleted = "geo.batch.completed."

	// BatchRunnerDurable is the durable consumer that starts batch workflows.
	BatchRunnerDurable = "batch-runner"
)

// PlaceResolvedSubject is the subject a resolved place is published on.
func PlaceResolvedSubject(geohash string) string { return subjectPlaceResolved + geohash }

// BatchRequestedSubject is the subject a batch request is published on.
func BatchRequestedSubject(id string) string { return subjectBatchRequested + id }

// BatchCompletedSubject is the subject a batch result is published on.
func BatchCompletedSubject(id string) string { return subjectBatchCompleted + id }

// StreamConfig returns the JetStream stream holding all geocoding events.
func StreamConfig() *nats.StreamConfig {
	return &nats.StreamConfig{
		Name:      StreamGeoEvents,
		Subjects:  []string{SubjectPlacesAll, SubjectBatchAll},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,

		// Window in which a repeated batch request ID is discarded.
		Duplicates: 10 * time.Minute,
	}
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the stream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureStream(js); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, js: js}, nil
}

// ensureStream creates the geocoding stream or updates it in place.
func ensureStream(js nats.JetStreamContext) error {
	cfg := StreamConfig()
	if _, err := js.AddStream(cfg); err != nil {
		if _, err := js.UpdateStream(cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

func (p *Publisher) PublishPlaceResolved(ctx context.Context, place *domain.Place) error {
	return p.publish(ctx, PlaceResolvedSubject(place.Geohash), place)
}

// PublishBatchRequested publishes req with its ID as the JetStream message
// ID, so a client retry inside the stream's duplicate window is dropped.
func (p *Publisher) PublishBatchRequested(ctx context.Context, req *domain.BatchRequest) error {
	return p.publish(ctx, BatchRequestedSubject(req.ID), req, nats.MsgId("batch-"+req.ID))
}

func (p *Publisher) PublishBatchCompleted(ctx context.Context, res *domain.BatchResult) error {
	return p.publish(ctx, BatchCompletedSubject(res.ID), res)
}

func (p *Publisher) publish(ctx context.Context, subject string, v any, opts ...nats.PubOpt) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	if _, err := p.js.Publish(subject, data, append(opts, nats.Context(ctx))...); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Conn exposes the underlying connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("forestgeo"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
