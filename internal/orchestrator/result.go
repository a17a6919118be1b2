package orchestrator

import (
	"time"

	"evctl/internal/provisioner"
)

// Outcome classifies how a phase ended.
type Outcome int

const (
	OutcomeSuccess   Outcome = iota
	OutcomeRecovered         // succeeded, but only via a fallback or retry
	OutcomeSkipped           // nothing to do
	OutcomeDegraded          // failed in a way the run tolerates
	OutcomeFailed            // failed outright
)

// String makes Outcome satisfy the fmt.Stringer interface.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeRecovered:
		return "Recovered"
	case OutcomeSkipped:
		return "Skipped"
	case OutcomeDegraded:
		return "Degraded"
	case OutcomeFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// PhaseResult records how a single phase went. Fatal marks the two terminal
// failures (critical build, unrecovered launch); everything else degrades
// and the run continues.
type PhaseResult struct {
	Phase    Phase
	Outcome  Outcome
	Fatal    bool
	Message  string
	Err      error
	Duration time.Duration
}

// BuildOutcome is the per-service detail behind the Build phase result.
type BuildOutcome struct {
	Service   string
	Recovered bool // built via the fallback path
	Err       error
}

// RunReport accumulates everything one run produced. It is owned by the
// driver: phases append to it in sequence, never concurrently.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Results   []PhaseResult
	Builds    []BuildOutcome
	Reconcile provisioner.Result

	// WorkerCount and WorkerNames are the Report phase's snapshot of
	// running workers matching the configured name pattern.
	WorkerCount int
	WorkerNames []string

	Fatal     bool
	Cancelled bool
}

func (r *RunReport) add(res PhaseResult) {
	r.Results = append(r.Results, res)
}

// Degraded reports whether any phase ended degraded. A degraded run still
// completes and still exits zero; the summary is where it shows.
func (r *RunReport) Degraded() bool {
	for _, res := range r.Results {
		if res.Outcome == OutcomeDegraded {
			return true
		}
	}
	return false
}

// Result returns the recorded outcome for a phase, if it ran.
func (r *RunReport) Result(p Phase) (PhaseResult, bool) {
	for _, res := range r.Results {
		if res.Phase == p {
			return res, true
		}
	}
	return PhaseResult{}, false
}
