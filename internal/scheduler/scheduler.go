// Package scheduler fires the daily reporting pipeline.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/driftline-systems/s3pulse/internal/models"
	"github.com/driftline-systems/s3pulse/internal/normalizer"
)

// ReportRunner is the reporting pipeline entry point the scheduler drives.
type ReportRunner interface {
	RunDaily(ctx context.Context) (*models.Report, error)
}

// Config configures the daily report scheduler.
type Config struct {
	// CheckInterval is how often the clock is inspected.
	CheckInterval time.Duration
	// HourUTC is the earliest UTC hour at which today's report fires.
	HourUTC int
}

// Metrics tracks scheduler runs.
type Metrics struct {
	mu            sync.RWMutex
	RunsTotal     int64
	RunErrors     int64
	LastRunDate   string
	LastCheckTime time.Time
}

// Scheduler fires the reporting pipeline once per UTC day, after the
// configured hour. Two instances running concurrently may both fire; that
// duplicate-report risk is accepted rather than coordinated away.
type Scheduler struct {
	mu       sync.Mutex
	runner   ReportRunner
	interval time.Duration
	hourUTC  int
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
	lastRun  string
	metrics  Metrics
	now      func() time.Time
}

// New creates a report scheduler.
func New(runner ReportRunner, cfg Config) *Scheduler {
	if cfg.CheckInterval == 0 {
		cfg.CheckInterval = time.Minute
	}
	return &Scheduler{
		runner:   runner,
		interval: cfg.CheckInterval,
		hourUTC:  cfg.HourUTC,
		now:      time.Now,
	}
}

// Start begins the scheduling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	slog.Info("report scheduler starting",
		slog.Duration("check_interval", s.interval),
		slog.Int("hour_utc", s.hourUTC),
	)

	s.wg.Add(1)
	go s.run(ctx)

	return nil
}

// Stop halts the scheduling loop and waits for an in-flight run to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler not running")
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("report scheduler stopped")
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// tick fires at most one report per UTC day, once the clock has passed the
// configured hour.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now().UTC()

	s.metrics.mu.Lock()
	s.metrics.LastCheckTime = now
	s.metrics.mu.Unlock()

	if now.Hour() < s.hourUTC {
		return
	}

	today := normalizer.FormatDate(now)
	if s.lastRun == today {
		return
	}

	report, err := s.runner.RunDaily(ctx)

	s.metrics.mu.Lock()
	s.metrics.RunsTotal++
	if err != nil {
		s.metrics.RunErrors++
	} else {
		s.metrics.LastRunDate = today
	}
	s.metrics.mu.Unlock()

	if err != nil {
		// Terminal for this attempt; the next tick retries the day.
		slog.Error("scheduled report failed", slog.String("error", err.Error()))
		return
	}

	s.lastRun = today
	slog.Info("scheduled report completed",
		slog.String("date", today),
		slog.Int("groups", report.Len()),
	)
}

// Snapshot returns a copy of the scheduler's run counters.
func (s *Scheduler) Snapshot() (runs, errors int64, lastRunDate string) {
	s.metrics.mu.RLock()
	defer s.metrics.mu.RUnlock()
	return s.metrics.RunsTotal, s.metrics.RunErrors, s.metrics.LastRunDate
}
