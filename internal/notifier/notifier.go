// Package notifier delivers serialized summary reports to an outbound
// notification channel.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/driftline-systems/s3pulse/internal/models"
)

// Channel is the outbound delivery abstraction. One report, one message; a
// send error is reported to the caller and never retried here.
type Channel interface {
	Send(ctx context.Context, report *models.Report) error
	Type() string
}

// LogChannel writes reports through a printf-style log function instead of a
// real transport. Used in development and as the fallback when no topic is
// configured.
type LogChannel struct {
	logf func(format string, v ...interface{})
}

// NewLogChannel creates a log-backed channel.
func NewLogChannel(logf func(format string, v ...interface{})) *LogChannel {
	return &LogChannel{logf: logf}
}

func (l *LogChannel) Type() string {
	return "log"
}

func (l *LogChannel) Send(ctx context.Context, report *models.Report) error {
	body, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if l.logf != nil {
		l.logf("daily report (%d groups): %s", report.Len(), body)
	}
	return nil
}
