package models

import (
	"time"
)

// NotificationPayload is the invocation payload delivered by the storage
// notification mechanism. An absent Records list is treated as an empty
// batch, not an error.
type NotificationPayload struct {
	Records []NotificationRecord `json:"Records"`
}

// NotificationRecord is one raw storage-change notification. The payload is
// externally defined and only loosely trusted, so it is kept as a generic
// document with tolerant accessors: a missing or mistyped field resolves to
// its zero value rather than failing the batch.
type NotificationRecord map[string]interface{}

// BucketName returns s3.bucket.name, or "" when absent.
func (r NotificationRecord) BucketName() string {
	return r.stringAt("s3", "bucket", "name")
}

// ObjectKey returns s3.object.key, or "" when absent.
func (r NotificationRecord) ObjectKey() string {
	return r.stringAt("s3", "object", "key")
}

// EventName returns the event-type label, or "" when absent.
func (r NotificationRecord) EventName() string {
	return r.stringAt("eventName")
}

// EventTime parses the notification's eventTime field. The second return
// value reports whether a usable timestamp was present.
func (r NotificationRecord) EventTime() (time.Time, bool) {
	raw := r.stringAt("eventTime")
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// stringAt walks a nested map path and returns the string leaf, or "" if any
// step is missing or not the expected shape.
func (r NotificationRecord) stringAt(path ...string) string {
	var cur interface{} = map[string]interface{}(r)
	for _, key := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return ""
		}
		cur, ok = m[key]
		if !ok {
			return ""
		}
	}
	s, _ := cur.(string)
	return s
}

// StoredEvent is the normalized, persisted unit. The three derived fields
// (EventID, CreatedDate, EventName) are always computed at normalization time
// and never trusted from the raw input. Everything else the notification
// carried travels in Extra so the stored row is a superset of the payload.
type StoredEvent struct {
	EventID     string `json:"eventId" dynamodbav:"eventId"`
	CreatedDate string `json:"createdDate" dynamodbav:"createdDate"`
	EventName   string `json:"eventName" dynamodbav:"eventName"`
	CreatedAt   string `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
	ModifiedAt  string `json:"modifiedAt,omitempty" dynamodbav:"modifiedAt,omitempty"`

	// Extra holds pass-through payload fields. It is flattened into the
	// stored item alongside the fixed schema, with the fixed fields winning
	// on key collision.
	Extra map[string]interface{} `json:"extra,omitempty" dynamodbav:"-"`
}
