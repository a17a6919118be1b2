package reporting

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"evctl/internal/journal"
)

func TestRenderHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderHistory(&buf, nil)

	assert.Contains(t, buf.String(), "no runs recorded yet")
}

func TestRenderHistory_Rows(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []journal.RunRecord{
		{
			ID:          7,
			StartedAt:   start.Add(time.Hour),
			FinishedAt:  start.Add(time.Hour + 50*time.Second),
			Outcome:     "degraded",
			WorkerCount: 2,
			Provisioned: 2,
			Failed:      1,
			Total:       3,
		},
		{
			ID:         6,
			StartedAt:  start,
			FinishedAt: start.Add(40 * time.Second),
			Outcome:    "ok",
		},
	}

	var buf bytes.Buffer
	RenderHistory(&buf, records)
	out := buf.String()

	assert.Contains(t, out, "2024-03-01 11:00:00")
	assert.Contains(t, out, "degraded")
	assert.Contains(t, out, "2/1/3")
	assert.Contains(t, out, "ok")
}
