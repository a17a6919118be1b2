package reporting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"evctl/internal/orchestrator"
	"evctl/internal/provisioner"
)

// RenderRunSummary prints the full end-of-run report: the per-phase table,
// image build details, the reconciliation aggregate and the final verdict.
func RenderRunSummary(w io.Writer, rep *orchestrator.RunReport) {
	renderPhaseTable(w, rep)

	if len(rep.Builds) > 0 {
		renderBuilds(w, rep.Builds)
	}
	renderWorkers(w, rep)

	fmt.Fprintln(w)
	fmt.Fprintln(w, verdict(rep))
}

func renderPhaseTable(w io.Writer, rep *orchestrator.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("PHASE"),
		text.FgHiCyan.Sprint("OUTCOME"),
		text.FgHiCyan.Sprint("DURATION"),
		text.FgHiCyan.Sprint("DETAIL"),
	})
	for _, res := range rep.Results {
		t.AppendRow(table.Row{
			res.Phase.String(),
			outcomeCell(res.Outcome),
			durationCell(res.Duration),
			detailCell(res.Message, res.Err),
		})
	}
	t.Render()
}

func renderBuilds(w io.Writer, builds []orchestrator.BuildOutcome) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, text.FgHiCyan.Sprint("Images"))
	for _, b := range builds {
		switch {
		case b.Err != nil:
			fmt.Fprintf(w, "  %s %s: %v\n", text.FgRed.Sprint("❌"), b.Service, b.Err)
		case b.Recovered:
			fmt.Fprintf(w, "  %s %s (built via fallback)\n", text.FgYellow.Sprint("🟡"), b.Service)
		default:
			fmt.Fprintf(w, "  %s %s\n", text.FgGreen.Sprint("✅"), b.Service)
		}
	}
}

func renderWorkers(w io.Writer, rep *orchestrator.RunReport) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, text.FgHiCyan.Sprint("Charge points"))

	if !rep.Reconcile.Empty() {
		fmt.Fprintf(w, "  reconciled: %s\n", rep.Reconcile.String())
		for _, out := range rep.Reconcile.Outcomes {
			if out.Err != nil {
				fmt.Fprintf(w, "  %s %s: %v\n", text.FgRed.Sprint("❌"), out.Name, out.Err)
			}
		}
	}

	if rep.WorkerCount == 0 {
		// Zero running workers has exactly two causes; spell both out so the
		// operator does not chase the wrong one.
		fmt.Fprintf(w, "  %s no charge points are running\n", text.FgYellow.Sprint("⚠️ "))
		fmt.Fprintln(w, "     1. the registry is empty (no charge points enrolled): expected, nothing to fix")
		fmt.Fprintln(w, "     2. the containers failed to start: inspect one with `docker logs <name>`")
		return
	}

	fmt.Fprintf(w, "  %s %d running\n", text.FgGreen.Sprint("▶️ "), rep.WorkerCount)
	for _, name := range rep.WorkerNames {
		fmt.Fprintf(w, "     %s\n", name)
	}
}

func verdict(rep *orchestrator.RunReport) string {
	elapsed := rep.FinishedAt.Sub(rep.StartedAt)
	switch {
	case rep.Fatal:
		return text.FgRed.Sprintf("❌ Deployment failed after %s", durationCell(elapsed))
	case rep.Cancelled:
		return text.FgYellow.Sprintf("⚠️  Deployment cancelled after %s; stack torn down", durationCell(elapsed))
	case rep.Degraded():
		return text.FgYellow.Sprintf("⚠️  Deployment finished with issues in %s", durationCell(elapsed))
	default:
		return text.FgGreen.Sprintf("✅ Deployment complete in %s", durationCell(elapsed))
	}
}

// RenderProvisionResult prints the standalone `provision` outcome: one line
// per descriptor plus the aggregate.
func RenderProvisionResult(w io.Writer, res provisioner.Result) {
	if res.Empty() {
		fmt.Fprintln(w, text.FgYellow.Sprint("registry is empty: zero charge points expected, nothing to provision"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("WORKER"),
		text.FgHiCyan.Sprint("CONTAINER"),
		text.FgHiCyan.Sprint("ACTION"),
		text.FgHiCyan.Sprint("DETAIL"),
	})
	for _, out := range res.Outcomes {
		t.AppendRow(table.Row{out.ID, out.Name, actionCell(out.Action), errCell(out.Err)})
	}
	t.Render()

	fmt.Fprintln(w, res.String())
}

func actionCell(a provisioner.Action) string {
	switch a {
	case provisioner.ActionNone:
		return text.FgGreen.Sprint("▶️  already running")
	case provisioner.ActionRestarted:
		return text.FgYellow.Sprint("🟡 restarted")
	case provisioner.ActionSpawned:
		return text.FgGreen.Sprint("✅ spawned")
	case provisioner.ActionFailed:
		return text.FgRed.Sprint("❌ failed")
	default:
		return string(a)
	}
}

func errCell(err error) string {
	if err == nil {
		return dimDash()
	}
	return err.Error()
}
