package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/forestgeo/internal/core/domain"
	"github.com/samirrijal/forestgeo/internal/pkg/metrics"
)

// batchMaxDeliver bounds redelivery of a batch request whose handler fails.
const batchMaxDeliver = 3

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
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
	return &Subscriber{conn: conn, js: js}, nil
}

// BatchHandler starts work for one batch request.
type BatchHandler func(ctx context.Context, req *domain.BatchRequest) error

// ackAction is what to do with a consumed message.
type ackAction int

const (
	ackDone ackAction = iota
	ackRetry
	ackDrop
)

// SubscribeBatchRequests delivers each batch request to handler on the
// durable batch-runner consumer. A message is acked when handler succeeds,
// redelivered when it fails, and terminated when it cannot be decoded.
func (s *Subscriber) SubscribeBatchRequests(ctx context.Context, handler func(ctx context.Context, req *domain.BatchRequest) error) error {
	sub, err := s.js.Subscribe(subjectBatchRequested+">", func(msg *nats.Msg) {
		switch handleBatchRequest(ctx, msg.Subject, msg.Data, handler) {
		case ackDone:
			_ = msg.Ack()
		case ackRetry:
			_ = msg.NakWithDelay(5 * time.Second)
		case ackDrop:
			_ = msg.Term()
		}
	},
		nats.Durable(BatchRunnerDurable),
		nats.ManualAck(),
		nats.AckWait(time.Minute),
		nats.MaxDeliver(batchMaxDeliver),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", BatchRunnerDurable, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

func handleBatchRequest(ctx context.Context, subject string, data []byte, handler BatchHandler) ackAction {
	var req domain.BatchRequest
	if err := json.Unmarshal(data, &req); err != nil || req.ID == "" {
		slog.Warn("dropping malformed batch request", "subject", subject, "error", err)
		metrics.BatchRequestsConsumed.WithLabelValues("dropped").Inc()
		return ackDrop
	}
	if err := handler(ctx, &req); err != nil {
		slog.Warn("batch request handler failed", "batch_id", req.ID, "points", len(req.Points), "error", err)
		metrics.BatchRequestsConsumed.WithLabelValues("retried").Inc()
		return ackRetry
	}
	metrics.BatchRequestsConsumed.WithLabelValues("started").Inc()
	return ackDone
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
