package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/driftline-systems/s3pulse/internal/logging"
	"github.com/driftline-systems/s3pulse/internal/models"
	"github.com/driftline-systems/s3pulse/internal/normalizer"
	"github.com/driftline-systems/s3pulse/internal/ratelimit"
	"github.com/driftline-systems/s3pulse/internal/service"
)

// queryDateLayout is the dashed form accepted on the wire; slashes do not
// travel well in query strings.
const queryDateLayout = "02-01-2006"

// Handler exposes the two pipelines over HTTP.
type Handler struct {
	ingest  *service.IngestService
	reports *service.ReportService
	limiter ratelimit.RateLimiter
	logger  *logging.Logger
}

// New constructs the HTTP handler set.
func New(ingest *service.IngestService, reports *service.ReportService, limiter ratelimit.RateLimiter, logger *logging.Logger) *Handler {
	if limiter == nil {
		limiter = &ratelimit.NoOpRateLimiter{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		ingest:  ingest,
		reports: reports,
		limiter: limiter,
		logger:  logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleNotifications accepts one storage-notification payload per request
// and runs the ingestion pipeline over it.
func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	sourceIP := clientIP(r)
	allowed, err := h.limiter.Allow(r.Context(), sourceIP)
	if err != nil {
		// Admission control must not take ingestion down with it.
		h.logger.WarnContext(r.Context(), "rate limiter unavailable", logging.Error(err))
		allowed = true
	}
	if !allowed {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		return
	}

	var payload models.NotificationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid notification payload"})
		return
	}
	defer r.Body.Close()

	result, err := h.ingest.IngestBatch(r.Context(), &payload)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "ingestion failed",
			logging.Error(err),
			logging.Count(len(payload.Records)),
			logging.IP(sourceIP),
		)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "batch persistence failed"})
		return
	}

	h.logger.InfoContext(r.Context(), "batch ingested",
		logging.Count(result.Written),
		logging.IP(sourceIP),
	)
	writeJSON(w, http.StatusOK, result)
}

// HandleRunReport triggers the reporting pipeline, for today by default or
// for an explicit ?date=DD-MM-YYYY.
func (h *Handler) HandleRunReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var (
		report *models.Report
		err    error
	)

	if raw := r.URL.Query().Get("date"); raw != "" {
		t, parseErr := time.Parse(queryDateLayout, raw)
		if parseErr != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date must be DD-MM-YYYY"})
			return
		}
		report, err = h.reports.RunFor(r.Context(), normalizer.FormatDate(t))
	} else {
		report, err = h.reports.RunDaily(r.Context())
	}

	if err != nil {
		h.logger.ErrorContext(r.Context(), "report run failed", logging.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "report run failed"})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// clientIP prefers proxy headers, falling back to the socket peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
