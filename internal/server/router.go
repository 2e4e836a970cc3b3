package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/driftline-systems/s3pulse/internal/handlers"
	"github.com/driftline-systems/s3pulse/internal/middleware"
)

// NewRouter constructs a ServeMux with the service routes registered.
func NewRouter(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Pipeline endpoints
	mux.HandleFunc("/v1/notifications", h.HandleNotifications)
	mux.HandleFunc("/v1/reports/run", h.HandleRunReport)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
