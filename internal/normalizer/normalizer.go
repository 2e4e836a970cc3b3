// Package normalizer converts raw storage-change notifications into stored
// events with derived identity and date keys.
package normalizer

import (
	"fmt"
	"sync"
	"time"

	"github.com/driftline-systems/s3pulse/internal/models"
)

// DateLayout is the calendar-date key format shared by the write path and
// the date-scoped query path. Any mismatch between the two breaks the index
// lookup silently, so every date key in the system goes through FormatDate.
const DateLayout = "02/01/2006"

// FormatDate renders t as a day-granularity key, anchored to UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Normalizer derives StoredEvents from notifications. Ingestion timestamps
// are strictly increasing per instance, so the same object notified twice in
// one batch still yields two distinct event IDs.
type Normalizer struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// New constructs a Normalizer using the wall clock.
func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewWithClock constructs a Normalizer with an injected clock, for tests.
func NewWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// stamp returns a millisecond ingestion timestamp, bumped past the previous
// one when the clock has not advanced.
func (n *Normalizer) stamp() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	ms := n.now().UTC().UnixMilli()
	if ms <= n.last {
		ms = n.last + 1
	}
	n.last = ms
	return ms
}

// Normalize produces one StoredEvent from one notification. It never fails:
// missing nested fields resolve to empty-string components and a missing or
// unparseable event timestamp falls back to the ingestion time, so a
// malformed record cannot abort its batch.
func (n *Normalizer) Normalize(rec models.NotificationRecord) models.StoredEvent {
	ingestionMillis := n.stamp()
	ingestedAt := time.UnixMilli(ingestionMillis).UTC()

	eventTime, ok := rec.EventTime()
	if !ok {
		eventTime = ingestedAt
	}

	ev := models.StoredEvent{
		EventID:     fmt.Sprintf("%s/%s-%d", rec.BucketName(), rec.ObjectKey(), ingestionMillis),
		CreatedDate: FormatDate(eventTime),
		EventName:   rec.EventName(),
		CreatedAt:   eventTime.UTC().Format(time.RFC3339),
		ModifiedAt:  ingestedAt.Format(time.RFC3339),
	}

	// Pass-through merge: carry every original payload field, but never let
	// the payload shadow a derived field (a crafted notification could
	// otherwise spoof another record's keys).
	if len(rec) > 0 {
		ev.Extra = make(map[string]interface{}, len(rec))
		for k, v := range rec {
			switch k {
			case "eventId", "createdDate", "eventName", "createdAt", "modifiedAt":
				continue
			}
			ev.Extra[k] = v
		}
	}

	return ev
}

// NormalizeBatch normalizes records in input order.
func (n *Normalizer) NormalizeBatch(records []models.NotificationRecord) []models.StoredEvent {
	events := make([]models.StoredEvent, 0, len(records))
	for _, rec := range records {
		events = append(events, n.Normalize(rec))
	}
	return events
}
