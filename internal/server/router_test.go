package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/driftline-systems/s3pulse/internal/handlers"
	"github.com/driftline-systems/s3pulse/internal/models"
	"github.com/driftline-systems/s3pulse/internal/normalizer"
	"github.com/driftline-systems/s3pulse/internal/service"
	"github.com/driftline-systems/s3pulse/internal/store"
)

type stubWriter struct{}

func (stubWriter) BatchWrite(ctx context.Context, events []models.StoredEvent) (*store.WriteResult, error) {
	return &store.WriteResult{Written: len(events)}, nil
}

type stubQuerier struct{}

func (stubQuerier) QueryByDate(ctx context.Context, date string) ([]models.StoredEvent, error) {
	return nil, nil
}

type stubChannel struct{}

func (stubChannel) Send(ctx context.Context, report *models.Report) error { return nil }
func (stubChannel) Type() string                                          { return "stub" }

func newTestRouter() http.Handler {
	ingest := service.NewIngestService(normalizer.New(), stubWriter{}, nil)
	reports := service.NewReportService(stubQuerier{}, stubChannel{})
	return NewRouter(handlers.New(ingest, reports, nil, nil))
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "notifications", method: http.MethodPost, path: "/v1/notifications", body: "{}", want: http.StatusOK},
		{name: "notifications wrong method", method: http.MethodGet, path: "/v1/notifications", want: http.StatusMethodNotAllowed},
		{name: "report run", method: http.MethodPost, path: "/v1/reports/run?date=05-01-2024", want: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/healthz", want: http.StatusOK},
		{name: "ready", method: http.MethodGet, path: "/readyz", want: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{name: "unknown", method: http.MethodGet, path: "/nope", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, tt.want, rr.Code)
			}
		})
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on every response")
	}
}
