package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/driftline-systems/s3pulse/internal/dlq"
	"github.com/driftline-systems/s3pulse/internal/metrics"
	"github.com/driftline-systems/s3pulse/internal/models"
	"github.com/driftline-systems/s3pulse/internal/normalizer"
	"github.com/driftline-systems/s3pulse/internal/store"
)

// IngestService runs the ingestion pipeline: extract records, normalize each
// in input order, persist the set as one batch. One call is one invocation;
// no state is shared across invocations beyond the normalizer's monotonic
// ingestion clock.
type IngestService struct {
	normalizer *normalizer.Normalizer
	writer     store.BatchWriter
	dlq        dlq.Writer
}

// NewIngestService wires the pipeline. dlqWriter may be nil when dead-letter
// capture is disabled.
func NewIngestService(n *normalizer.Normalizer, writer store.BatchWriter, dlqWriter dlq.Writer) *IngestService {
	return &IngestService{
		normalizer: n,
		writer:     writer,
		dlq:        dlqWriter,
	}
}

// IngestBatch processes one notification payload. An absent or empty Records
// list yields a zero-item write outcome, not an error. A store failure is
// terminal for the invocation: the batch is captured to the DLQ (when
// enabled) and the error returned; nothing is retried or split.
func (s *IngestService) IngestBatch(ctx context.Context, payload *models.NotificationPayload) (*store.WriteResult, error) {
	var records []models.NotificationRecord
	if payload != nil {
		records = payload.Records
	}

	events := s.normalizer.NormalizeBatch(records)

	start := time.Now()
	result, err := s.writer.BatchWrite(ctx, events)
	metrics.BatchWriteDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.BatchesTotal.WithLabelValues("error").Inc()
		metrics.NotificationsTotal.WithLabelValues("failed").Add(float64(len(events)))
		if s.dlq != nil {
			if dlqErr := s.dlq.Write(ctx, events, err, "batch_write"); dlqErr != nil {
				slog.ErrorContext(ctx, "DLQ capture failed", slog.String("error", dlqErr.Error()))
			}
		}
		return nil, fmt.Errorf("persist batch: %w", err)
	}

	metrics.BatchesTotal.WithLabelValues("ok").Inc()
	metrics.NotificationsTotal.WithLabelValues("ok").Add(float64(len(events)))
	metrics.EventsWrittenTotal.Add(float64(result.Written))
	metrics.EventsUnprocessedTotal.Add(float64(result.Unprocessed))

	if result.Unprocessed > 0 {
		slog.WarnContext(ctx, "store left items unprocessed",
			slog.Int("unprocessed", result.Unprocessed),
			slog.Int("batch_size", len(events)),
		)
	}

	return result, nil
}
