package reporting

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"

	"evctl/internal/orchestrator"
)

// outcomeCell renders a phase outcome with its icon and color.
func outcomeCell(o orchestrator.Outcome) string {
	switch o {
	case orchestrator.OutcomeSuccess:
		return text.FgGreen.Sprint("✅ Success")
	case orchestrator.OutcomeRecovered:
		return text.FgYellow.Sprint("🟡 Recovered")
	case orchestrator.OutcomeSkipped:
		return text.FgHiBlack.Sprint("⏸️  Skipped")
	case orchestrator.OutcomeDegraded:
		return text.FgYellow.Sprint("⚠️  Degraded")
	case orchestrator.OutcomeFailed:
		return text.FgRed.Sprint("❌ Failed")
	default:
		return o.String()
	}
}

// runningCell renders a container state.
func runningCell(running bool) string {
	if running {
		return text.FgGreen.Sprint("▶️  Running")
	}
	return text.FgRed.Sprint("⏹️  Stopped")
}

// durationCell keeps phase timings readable; sub-second noise is rounded away.
func durationCell(d time.Duration) string {
	if d <= 0 {
		return text.FgHiBlack.Sprint("-")
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

// detailCell prefers the human message and falls back to the error.
func detailCell(message string, err error) string {
	switch {
	case message != "" && err != nil:
		return fmt.Sprintf("%s (%v)", message, err)
	case message != "":
		return message
	case err != nil:
		return err.Error()
	default:
		return text.FgHiBlack.Sprint("-")
	}
}

func dimDash() string {
	return text.FgHiBlack.Sprint("-")
}
