package dlq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/driftline-systems/s3pulse/internal/metrics"
	"github.com/driftline-systems/s3pulse/internal/models"
)

const (
	streamName    = "S3PULSE_DLQ"
	subjectPrefix = "s3pulse.dlq."
)

// JetStreamQueue writes failed batches to NATS JetStream. Safe for use
// across multiple service instances.
type JetStreamQueue struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	written uint64
}

// NewJetStreamQueue connects to NATS and ensures the DLQ stream exists.
func NewJetStreamQueue(ctx context.Context, url string) (*JetStreamQueue, error) {
	nc, err := nats.Connect(url,
		nats.Name("s3pulse-dlq"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + ">"},
		MaxAge:   7 * 24 * time.Hour,
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create dlq stream: %w", err)
	}

	return &JetStreamQueue{nc: nc, js: js}, nil
}

// Write publishes the failed batch under s3pulse.dlq.<reason>.
func (q *JetStreamQueue) Write(ctx context.Context, events []models.StoredEvent, cause error, reason string) error {
	if q == nil {
		return nil
	}

	failed := FailedBatch{
		Timestamp: time.Now().UTC(),
		Events:    events,
		Error:     cause.Error(),
		Reason:    reason,
	}

	data, err := json.Marshal(failed)
	if err != nil {
		return fmt.Errorf("marshal dlq entry: %w", err)
	}

	if _, err := q.js.Publish(ctx, subjectPrefix+reason, data); err != nil {
		return fmt.Errorf("publish dlq entry: %w", err)
	}

	atomic.AddUint64(&q.written, 1)
	metrics.DLQWritesTotal.Inc()
	slog.Info("captured failed batch to DLQ",
		slog.String("reason", reason),
		slog.Int("events", len(events)),
	)
	return nil
}

// Written returns the number of batches this instance has captured.
func (q *JetStreamQueue) Written() uint64 {
	if q == nil {
		return 0
	}
	return atomic.LoadUint64(&q.written)
}

// Close drains the NATS connection.
func (q *JetStreamQueue) Close() {
	if q != nil && q.nc != nil {
		q.nc.Close()
	}
}
