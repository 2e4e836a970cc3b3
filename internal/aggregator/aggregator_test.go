package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline-systems/s3pulse/internal/models"
)

func event(id, date, name string) models.StoredEvent {
	return models.StoredEvent{EventID: id, CreatedDate: date, EventName: name}
}

func TestSummarize_GroupsByDateAndEventName(t *testing.T) {
	events := []models.StoredEvent{
		event("A", "05/01/2024", "create"),
		event("B", "05/01/2024", "create"),
		event("C", "05/01/2024", "delete"),
	}

	report := Summarize(events)

	require.Equal(t, 2, report.Len())
	assert.Equal(t, []string{"A", "B"}, report.Group("05/01/2024-create"))
	assert.Equal(t, []string{"C"}, report.Group("05/01/2024-delete"))
}

func TestSummarize_OrderInvariantAcrossGroupPermutations(t *testing.T) {
	// Permute rows of different groups; intra-group relative order is kept,
	// so the groups come out identical.
	permutations := [][]models.StoredEvent{
		{
			event("A", "05/01/2024", "create"),
			event("B", "05/01/2024", "create"),
			event("C", "05/01/2024", "delete"),
		},
		{
			event("A", "05/01/2024", "create"),
			event("C", "05/01/2024", "delete"),
			event("B", "05/01/2024", "create"),
		},
		{
			event("C", "05/01/2024", "delete"),
			event("A", "05/01/2024", "create"),
			event("B", "05/01/2024", "create"),
		},
	}

	for _, events := range permutations {
		report := Summarize(events)
		assert.Equal(t, []string{"A", "B"}, report.Group("05/01/2024-create"))
		assert.Equal(t, []string{"C"}, report.Group("05/01/2024-delete"))
	}
}

func TestSummarize_GroupKeysFollowFirstOccurrence(t *testing.T) {
	events := []models.StoredEvent{
		event("C", "05/01/2024", "delete"),
		event("A", "05/01/2024", "create"),
	}

	report := Summarize(events)
	assert.Equal(t, []string{"05/01/2024-delete", "05/01/2024-create"}, report.Keys())
}

func TestSummarize_Empty(t *testing.T) {
	report := Summarize(nil)
	assert.Equal(t, 0, report.Len())
}

func TestGroupKey(t *testing.T) {
	assert.Equal(t, "05/01/2024-ObjectCreated", GroupKey("05/01/2024", "ObjectCreated"))
	assert.Equal(t, "05/01/2024-", GroupKey("05/01/2024", ""))
}
