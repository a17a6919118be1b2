package reporting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"evctl/internal/fleet"
)

// RenderStatus prints the fleet snapshot as two tables: platform services
// and charge-point workers.
func RenderStatus(w io.Writer, snap fleet.Snapshot) {
	fmt.Fprintln(w, text.FgHiCyan.Sprintf("Project %s", snap.Project))

	if len(snap.Services) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{
			text.FgHiCyan.Sprint("SERVICE"),
			text.FgHiCyan.Sprint("TIER"),
			text.FgHiCyan.Sprint("STATE"),
		})
		for _, s := range snap.Services {
			t.AppendRow(table.Row{s.Name, s.Tier, runningCell(s.Running)})
		}
		t.Render()
	}

	if len(snap.Workers) == 0 {
		fmt.Fprintln(w, text.FgYellow.Sprint("no charge points enrolled or running"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("WORKER"),
		text.FgHiCyan.Sprint("CONTAINER"),
		text.FgHiCyan.Sprint("PORT"),
		text.FgHiCyan.Sprint("STATE"),
	})
	for _, wk := range snap.Workers {
		t.AppendRow(table.Row{workerIDCell(wk), wk.Name, portCell(wk.Port), runningCell(wk.Running)})
	}
	t.Render()

	fmt.Fprintf(w, "%d of %d charge points running\n", snap.RunningWorkers(), len(snap.Workers))
}

func workerIDCell(wk fleet.WorkerState) string {
	if !wk.Enrolled {
		return text.FgHiBlack.Sprint("(not enrolled)")
	}
	return wk.ID
}

func portCell(port int) string {
	if port <= 0 {
		return dimDash()
	}
	return fmt.Sprintf("%d", port)
}
