package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/driftline-systems/s3pulse/internal/models"
	"github.com/driftline-systems/s3pulse/internal/normalizer"
	"github.com/driftline-systems/s3pulse/internal/store"
)

// Mock implementations

type mockBatchWriter struct {
	batchWriteFunc func(ctx context.Context, events []models.StoredEvent) (*store.WriteResult, error)
	calls          int
	lastBatch      []models.StoredEvent
}

func (m *mockBatchWriter) BatchWrite(ctx context.Context, events []models.StoredEvent) (*store.WriteResult, error) {
	m.calls++
	m.lastBatch = events
	if m.batchWriteFunc != nil {
		return m.batchWriteFunc(ctx, events)
	}
	return &store.WriteResult{Written: len(events)}, nil
}

type mockDLQ struct {
	calls  int
	events []models.StoredEvent
	reason string
}

func (m *mockDLQ) Write(ctx context.Context, events []models.StoredEvent, cause error, reason string) error {
	m.calls++
	m.events = events
	m.reason = reason
	return nil
}

func notification(bucket, key, eventName, eventTime string) models.NotificationRecord {
	return models.NotificationRecord{
		"eventName": eventName,
		"eventTime": eventTime,
		"s3": map[string]interface{}{
			"bucket": map[string]interface{}{"name": bucket},
			"object": map[string]interface{}{"key": key},
		},
	}
}

func TestIngestBatch_SingleNotification(t *testing.T) {
	writer := &mockBatchWriter{}
	svc := NewIngestService(normalizer.New(), writer, nil)

	payload := &models.NotificationPayload{
		Records: []models.NotificationRecord{
			notification("b", "k.txt", "ObjectCreated", "2024-01-05T10:00:00Z"),
		},
	}

	result, err := svc.IngestBatch(context.Background(), payload)
	if err != nil {
		t.Fatalf("IngestBatch() error = %v", err)
	}
	if result.Written != 1 {
		t.Errorf("Written = %d, want 1", result.Written)
	}

	if len(writer.lastBatch) != 1 {
		t.Fatalf("persisted batch size = %d, want 1", len(writer.lastBatch))
	}
	ev := writer.lastBatch[0]
	if !strings.HasPrefix(ev.EventID, "b/k.txt-") {
		t.Errorf("eventId = %q, want prefix %q", ev.EventID, "b/k.txt-")
	}
	if ev.CreatedDate != "05/01/2024" {
		t.Errorf("createdDate = %q, want %q", ev.CreatedDate, "05/01/2024")
	}
	if ev.EventName != "ObjectCreated" {
		t.Errorf("eventName = %q, want %q", ev.EventName, "ObjectCreated")
	}
}

func TestIngestBatch_DuplicateNotificationsGetDistinctIDs(t *testing.T) {
	writer := &mockBatchWriter{}
	svc := NewIngestService(normalizer.New(), writer, nil)

	rec := notification("b", "k.txt", "ObjectCreated", "2024-01-05T10:00:00Z")
	payload := &models.NotificationPayload{
		Records: []models.NotificationRecord{rec, rec},
	}

	if _, err := svc.IngestBatch(context.Background(), payload); err != nil {
		t.Fatalf("IngestBatch() error = %v", err)
	}

	if len(writer.lastBatch) != 2 {
		t.Fatalf("persisted batch size = %d, want 2", len(writer.lastBatch))
	}
	if writer.lastBatch[0].EventID == writer.lastBatch[1].EventID {
		t.Errorf("duplicate notifications produced identical eventId %q", writer.lastBatch[0].EventID)
	}
}

func TestIngestBatch_EmptyPayload(t *testing.T) {
	writer := &mockBatchWriter{}
	svc := NewIngestService(normalizer.New(), writer, nil)

	tests := []struct {
		name    string
		payload *models.NotificationPayload
	}{
		{name: "nil payload", payload: nil},
		{name: "absent records", payload: &models.NotificationPayload{}},
		{name: "empty records", payload: &models.NotificationPayload{Records: []models.NotificationRecord{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.IngestBatch(context.Background(), tt.payload)
			if err != nil {
				t.Fatalf("IngestBatch() error = %v", err)
			}
			if result.Written != 0 {
				t.Errorf("Written = %d, want 0", result.Written)
			}
		})
	}
}

func TestIngestBatch_StoreFailureIsTerminalAndCaptured(t *testing.T) {
	storeErr := errors.New("throttled")
	writer := &mockBatchWriter{
		batchWriteFunc: func(ctx context.Context, events []models.StoredEvent) (*store.WriteResult, error) {
			return nil, storeErr
		},
	}
	capture := &mockDLQ{}
	svc := NewIngestService(normalizer.New(), writer, capture)

	payload := &models.NotificationPayload{
		Records: []models.NotificationRecord{
			notification("b", "k.txt", "ObjectCreated", "2024-01-05T10:00:00Z"),
		},
	}

	_, err := svc.IngestBatch(context.Background(), payload)
	if !errors.Is(err, storeErr) {
		t.Fatalf("IngestBatch() error = %v, want wrapped %v", err, storeErr)
	}

	if writer.calls != 1 {
		t.Errorf("BatchWrite calls = %d, want 1 (no retry)", writer.calls)
	}
	if capture.calls != 1 {
		t.Fatalf("DLQ calls = %d, want 1", capture.calls)
	}
	if capture.reason != "batch_write" {
		t.Errorf("DLQ reason = %q, want %q", capture.reason, "batch_write")
	}
	if len(capture.events) != 1 {
		t.Errorf("DLQ captured %d events, want 1", len(capture.events))
	}
}

func TestIngestBatch_MalformedRecordDoesNotAbortBatch(t *testing.T) {
	writer := &mockBatchWriter{}
	svc := NewIngestService(normalizer.New(), writer, nil)

	payload := &models.NotificationPayload{
		Records: []models.NotificationRecord{
			{}, // no s3, no eventTime, no eventName
			notification("b", "k.txt", "ObjectCreated", "2024-01-05T10:00:00Z"),
		},
	}

	result, err := svc.IngestBatch(context.Background(), payload)
	if err != nil {
		t.Fatalf("IngestBatch() error = %v", err)
	}
	if result.Written != 2 {
		t.Errorf("Written = %d, want 2", result.Written)
	}
	if !strings.HasPrefix(writer.lastBatch[0].EventID, "/-") {
		t.Errorf("malformed record eventId = %q, want empty components", writer.lastBatch[0].EventID)
	}
}
