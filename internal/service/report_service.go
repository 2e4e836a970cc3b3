package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/driftline-systems/s3pulse/internal/aggregator"
	"github.com/driftline-systems/s3pulse/internal/metrics"
	"github.com/driftline-systems/s3pulse/internal/models"
	"github.com/driftline-systems/s3pulse/internal/normalizer"
	"github.com/driftline-systems/s3pulse/internal/notifier"
	"github.com/driftline-systems/s3pulse/internal/store"
)

// ReportService runs the reporting pipeline: query the date index, aggregate
// into groups, dispatch one message. Stages run strictly in order and any
// failure short-circuits the rest.
type ReportService struct {
	querier store.DateQuerier
	channel notifier.Channel
	now     func() time.Time
}

// NewReportService wires the pipeline against a date-keyed store and an
// outbound channel.
func NewReportService(querier store.DateQuerier, channel notifier.Channel) *ReportService {
	return &ReportService{
		querier: querier,
		channel: channel,
		now:     time.Now,
	}
}

// NewReportServiceWithClock injects the clock that defines "today", for
// tests.
func NewReportServiceWithClock(querier store.DateQuerier, channel notifier.Channel, now func() time.Time) *ReportService {
	return &ReportService{querier: querier, channel: channel, now: now}
}

// RunDaily runs the pipeline for today, UTC.
func (s *ReportService) RunDaily(ctx context.Context) (*models.Report, error) {
	return s.RunFor(ctx, normalizer.FormatDate(s.now()))
}

// RunFor runs the pipeline for an explicit date key. A day with zero rows
// still dispatches one message with an empty report body.
func (s *ReportService) RunFor(ctx context.Context, date string) (*models.Report, error) {
	start := time.Now()

	rows, err := s.querier.QueryByDate(ctx, date)
	if err != nil {
		metrics.ReportsTotal.WithLabelValues("query_error").Inc()
		return nil, fmt.Errorf("query events for %s: %w", date, err)
	}

	report := aggregator.Summarize(rows)

	if err := s.channel.Send(ctx, report); err != nil {
		metrics.ReportsTotal.WithLabelValues("dispatch_error").Inc()
		return nil, fmt.Errorf("dispatch report for %s: %w", date, err)
	}

	metrics.ReportsTotal.WithLabelValues("ok").Inc()
	metrics.ReportGroups.Observe(float64(report.Len()))
	metrics.ReportDuration.Observe(time.Since(start).Seconds())

	slog.InfoContext(ctx, "report dispatched",
		slog.String("date", date),
		slog.Int("rows", len(rows)),
		slog.Int("groups", report.Len()),
		slog.String("channel", s.channel.Type()),
	)

	return report, nil
}
