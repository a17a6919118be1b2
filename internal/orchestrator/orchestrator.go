package orchestrator

import (
	"context"
	"time"

	"evctl/internal/config"
	"evctl/internal/containerizer"
	"evctl/internal/provisioner"
	"evctl/pkg/logging"
)

// teardownTimeout bounds the cleanup teardown that runs after the run's own
// context has been cancelled.
const teardownTimeout = 60 * time.Second

// Options tunes a single run.
type Options struct {
	// SkipBuild skips the Build phase entirely; the images are assumed to
	// be present. Controlled by the rebuild prompt and the --build /
	// --no-build flags.
	SkipBuild bool
}

// Orchestrator executes the startup sequence against a container runtime.
// It holds no mutable state of its own: everything a run produces lives in
// the RunReport it returns.
type Orchestrator struct {
	runtime containerizer.Runtime
	cfg     config.EvctlConfig
	rec     *provisioner.Reconciler
	opts    Options
}

// New creates an Orchestrator for the given runtime and configuration.
func New(rt containerizer.Runtime, cfg config.EvctlConfig, opts Options) *Orchestrator {
	return &Orchestrator{
		runtime: rt,
		cfg:     cfg,
		rec:     provisioner.New(rt, cfg.ResolvedWorker()),
		opts:    opts,
	}
}

// Run executes the full startup sequence. It never returns an error: every
// outcome, fatal ones included, is carried in the report. Callers map
// report.Fatal to their exit status.
func (o *Orchestrator) Run(ctx context.Context) *RunReport {
	rep := &RunReport{StartedAt: time.Now()}

	for phase := PhaseTeardown; phase != PhaseDone; phase = nextPhase(phase) {
		if ctx.Err() != nil {
			o.cancelRun(rep)
			break
		}

		logging.Info("Orchestrator", "--- %s ---", phase)
		start := time.Now()
		res := o.runPhase(ctx, phase, rep)
		res.Phase = phase
		res.Duration = time.Since(start)
		rep.add(res)

		if ctx.Err() != nil {
			// The phase was interrupted mid-flight; whatever it reported
			// stands, but the run is over.
			o.cancelRun(rep)
			break
		}

		switch res.Outcome {
		case OutcomeFailed:
			if res.Fatal {
				rep.Fatal = true
				logging.Error("Orchestrator", res.Err, "%s failed: %s", phase, res.Message)
			}
		case OutcomeDegraded:
			logging.Warn("Orchestrator", "%s degraded: %s", phase, res.Message)
		default:
			logging.Info("Orchestrator", "%s: %s", phase, res.Message)
		}
		if res.Fatal {
			break
		}
	}

	rep.FinishedAt = time.Now()

	switch {
	case rep.Fatal:
		logging.Error("Orchestrator", nil, "run aborted after %s", rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond))
	case rep.Cancelled:
		logging.Warn("Orchestrator", "run cancelled after %s", rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond))
	case rep.Degraded():
		logging.Warn("Orchestrator", "run completed degraded in %s", rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond))
	default:
		logging.Info("Orchestrator", "run completed in %s", rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond))
	}
	return rep
}

// runPhase dispatches one phase of the state machine.
func (o *Orchestrator) runPhase(ctx context.Context, phase Phase, rep *RunReport) PhaseResult {
	switch phase {
	case PhaseTeardown:
		return o.teardown(ctx)
	case PhaseBuild:
		return o.buildImages(ctx, rep)
	case PhaseLaunch:
		return o.launchGroup(ctx)
	case PhaseInfraWait:
		return o.gate(ctx, o.cfg.Waits.Infrastructure, "infrastructure")
	case PhaseReconcile:
		return o.reconcileWorkers(ctx, rep)
	case PhaseWorkerWait:
		return o.gateWorkers(ctx, rep)
	case PhaseReport:
		return o.countWorkers(ctx, rep)
	default:
		return PhaseResult{Outcome: OutcomeSkipped, Message: "nothing to do"}
	}
}

// cancelRun marks the report cancelled and removes whatever the aborted run
// left behind, so a cancelled `up` does not strand a half-started fleet.
// The run's own context is already dead, so the teardown gets a fresh,
// bounded one.
func (o *Orchestrator) cancelRun(rep *RunReport) {
	if rep.Cancelled {
		return
	}
	rep.Cancelled = true

	logging.Warn("Orchestrator", "run cancelled: tearing down the partial deployment")
	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()
	if err := o.runtime.Teardown(ctx); err != nil {
		logging.Error("Orchestrator", err, "teardown after cancellation failed")
	}
}
