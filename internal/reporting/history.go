package reporting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"evctl/internal/journal"
)

// RenderHistory prints past runs from the journal, newest first.
func RenderHistory(w io.Writer, records []journal.RunRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, text.FgYellow.Sprint("no runs recorded yet"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("RUN"),
		text.FgHiCyan.Sprint("STARTED"),
		text.FgHiCyan.Sprint("DURATION"),
		text.FgHiCyan.Sprint("OUTCOME"),
		text.FgHiCyan.Sprint("WORKERS"),
		text.FgHiCyan.Sprint("RECONCILED"),
	})
	for _, rec := range records {
		t.AppendRow(table.Row{
			rec.ID,
			rec.StartedAt.Format("2006-01-02 15:04:05"),
			durationCell(rec.FinishedAt.Sub(rec.StartedAt)),
			historyOutcomeCell(rec.Outcome),
			rec.WorkerCount,
			reconcileCell(rec),
		})
	}
	t.Render()
}

func historyOutcomeCell(outcome string) string {
	switch outcome {
	case "ok":
		return text.FgGreen.Sprint("✅ ok")
	case "degraded":
		return text.FgYellow.Sprint("⚠️  degraded")
	case "cancelled":
		return text.FgYellow.Sprint("⏹️  cancelled")
	case "fatal":
		return text.FgRed.Sprint("❌ fatal")
	default:
		return outcome
	}
}

// reconcileCell compresses the reconcile aggregate to provisioned/failed/total.
func reconcileCell(rec journal.RunRecord) string {
	if rec.Total == 0 {
		return dimDash()
	}
	return fmt.Sprintf("%d/%d/%d", rec.Provisioned, rec.Failed, rec.Total)
}
