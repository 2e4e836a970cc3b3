// Package dlq captures batches the store refused, so a failed invocation's
// payload survives for inspection or replay. Capture only: the no-retry
// policy of the pipelines stands.
package dlq

import (
	"context"
	"time"

	"github.com/driftline-systems/s3pulse/internal/models"
)

// Writer records a failed batch along with its terminal error.
type Writer interface {
	Write(ctx context.Context, events []models.StoredEvent, cause error, reason string) error
}

// FailedBatch is the envelope persisted per capture.
type FailedBatch struct {
	Timestamp time.Time            `json:"timestamp"`
	Events    []models.StoredEvent `json:"events"`
	Error     string               `json:"error"`
	Reason    string               `json:"reason"`
}
