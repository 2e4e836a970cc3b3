// Package aggregator reduces a day's stored events into a grouped summary
// report.
package aggregator

import (
	"github.com/driftline-systems/s3pulse/internal/models"
)

// GroupKey builds the report grouping key for a row.
func GroupKey(createdDate, eventName string) string {
	return createdDate + "-" + eventName
}

// Summarize groups events by (createdDate, eventName) and reduces each group
// to the event IDs it contains. Pure function: group order follows first
// occurrence, ID order follows row order.
func Summarize(events []models.StoredEvent) *models.Report {
	report := models.NewReport()
	for _, ev := range events {
		report.Add(GroupKey(ev.CreatedDate, ev.EventName), ev.EventID)
	}
	return report
}
