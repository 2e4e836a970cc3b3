// Package store persists stored events and serves the date-scoped secondary
// access path.
package store

import (
	"context"

	"github.com/driftline-systems/s3pulse/internal/models"
)

// WriteResult reports the outcome of one batch write.
type WriteResult struct {
	// Written is the number of items the store accepted.
	Written int `json:"written"`
	// Unprocessed is the number of items the store returned unapplied.
	// They are reported, not retried.
	Unprocessed int `json:"unprocessed"`
}

// BatchWriter persists a sequence of events as a single batch operation.
type BatchWriter interface {
	BatchWrite(ctx context.Context, events []models.StoredEvent) (*WriteResult, error)
}

// DateQuerier retrieves all events whose derived calendar date equals the
// given key, via the date-keyed index rather than a scan.
type DateQuerier interface {
	QueryByDate(ctx context.Context, date string) ([]models.StoredEvent, error)
}
