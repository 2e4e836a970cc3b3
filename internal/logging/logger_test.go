package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/driftline-systems/s3pulse/internal/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-123")
	logger.InfoContext(ctx, "batch ingested", slog.Int("count", 3))

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if line["request_id"] != "req-123" {
		t.Errorf("expected request_id req-123, got %v", line["request_id"])
	}
	if line["count"] != float64(3) {
		t.Errorf("expected count 3, got %v", line["count"])
	}
}

func TestWithContext_BareContext(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	logger.InfoContext(context.Background(), "no request")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if _, ok := line["request_id"]; ok {
		t.Error("request_id should be absent without one in the context")
	}
}

func TestFieldHelpers(t *testing.T) {
	if attr := Service("s3pulse"); attr.Key != "service" || attr.Value.String() != "s3pulse" {
		t.Errorf("unexpected service attr: %v", attr)
	}
	if attr := EventID("b/k-1"); attr.Key != "event_id" || attr.Value.String() != "b/k-1" {
		t.Errorf("unexpected event_id attr: %v", attr)
	}
	if attr := Date("05/01/2024"); attr.Key != "date" {
		t.Errorf("unexpected date attr: %v", attr)
	}
}
