package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"evctl/internal/config"
	"evctl/internal/containerizer"
	"evctl/internal/registry"
	"evctl/pkg/logging"
)

// teardown removes any previous deployment. The runtime's teardown is
// idempotent, so "nothing was running" is a success. An actual failure
// degrades rather than aborts: compose up replaces leftover containers
// anyway, and a dead runtime fails the next phase with a clearer message.
func (o *Orchestrator) teardown(ctx context.Context) PhaseResult {
	if err := o.runtime.Teardown(ctx); err != nil {
		return PhaseResult{
			Outcome: OutcomeDegraded,
			Message: "could not remove the previous deployment; continuing",
			Err:     err,
		}
	}
	return PhaseResult{Outcome: OutcomeSuccess, Message: "previous deployment removed"}
}

// buildImages builds every configured service image. A critical spec whose
// build fails on both paths aborts the run before any launch is attempted;
// a non-critical double failure leaves that service unavailable and the run
// continues.
func (o *Orchestrator) buildImages(ctx context.Context, rep *RunReport) PhaseResult {
	if o.opts.SkipBuild {
		return PhaseResult{Outcome: OutcomeSkipped, Message: "image rebuild not requested"}
	}

	var recovered, failed int
	for _, spec := range o.cfg.Services {
		out := o.buildService(ctx, spec)
		rep.Builds = append(rep.Builds, out)

		if out.Err != nil {
			if spec.Critical {
				return PhaseResult{
					Outcome: OutcomeFailed,
					Fatal:   true,
					Message: fmt.Sprintf("critical service %s failed to build on both paths", spec.Name),
					Err:     out.Err,
				}
			}
			failed++
			logging.Warn("Orchestrator", "service %s failed to build and will be unavailable: %v", spec.Name, out.Err)
			continue
		}
		if out.Recovered {
			recovered++
		}
	}

	total := len(o.cfg.Services)
	switch {
	case failed > 0:
		return PhaseResult{
			Outcome: OutcomeDegraded,
			Message: fmt.Sprintf("%d of %d images built; %d unavailable", total-failed, total, failed),
		}
	case recovered > 0:
		return PhaseResult{
			Outcome: OutcomeRecovered,
			Message: fmt.Sprintf("%d images built, %d via the fallback path", total, recovered),
		}
	default:
		return PhaseResult{Outcome: OutcomeSuccess, Message: fmt.Sprintf("%d images built", total)}
	}
}

// buildService is the build-with-fallback helper shared by every spec:
// primary path first, fallback tried exactly once after a primary failure.
func (o *Orchestrator) buildService(ctx context.Context, spec config.ServiceSpec) BuildOutcome {
	logging.Info("Orchestrator", "building %s", spec.Name)

	primaryErr := o.buildFrom(ctx, spec.Build)
	if primaryErr == nil {
		return BuildOutcome{Service: spec.Name}
	}
	if spec.Fallback == nil {
		return BuildOutcome{Service: spec.Name, Err: primaryErr}
	}

	logging.Warn("Orchestrator", "primary build of %s failed, trying the fallback path: %v", spec.Name, primaryErr)
	if err := o.buildFrom(ctx, *spec.Fallback); err != nil {
		return BuildOutcome{
			Service: spec.Name,
			Err:     fmt.Errorf("primary build: %v; fallback build: %v", primaryErr, err),
		}
	}
	logging.Info("Orchestrator", "built %s via the fallback path", spec.Name)
	return BuildOutcome{Service: spec.Name, Recovered: true}
}

func (o *Orchestrator) buildFrom(ctx context.Context, src config.BuildSource) error {
	if src.IsComposeBuild() {
		return o.runtime.BuildComposeService(ctx, src.ComposeService)
	}
	return o.runtime.BuildImage(ctx, containerizer.BuildOptions{
		Context:    src.Context,
		Dockerfile: src.Dockerfile,
		Tag:        src.Tag,
	})
}

// launchGroup starts the full service group. On failure it makes exactly one
// recovery attempt: reset the runtime's networking, pause briefly, retry.
// Success means the launcher returned success; readiness is the gate's job.
func (o *Orchestrator) launchGroup(ctx context.Context) PhaseResult {
	firstErr := o.runtime.StartGroup(ctx)
	if firstErr == nil {
		return PhaseResult{Outcome: OutcomeSuccess, Message: "service group started"}
	}

	logging.Warn("Orchestrator", "group start failed, resetting networking and retrying once: %v", firstErr)
	if err := o.runtime.ResetNetworking(ctx); err != nil {
		logging.Warn("Orchestrator", "network reset failed: %v", err)
	}
	if err := pause(ctx, o.cfg.Waits.LaunchRetryPause); err != nil {
		return PhaseResult{Outcome: OutcomeFailed, Message: "cancelled before the launch retry", Err: err}
	}

	if err := o.runtime.StartGroup(ctx); err != nil {
		return PhaseResult{
			Outcome: OutcomeFailed,
			Fatal:   true,
			Message: "service group failed to start after the network-reset retry; inspect the compose configuration",
			Err:     err,
		}
	}
	return PhaseResult{Outcome: OutcomeRecovered, Message: "service group started after a network reset"}
}

// gate is the readiness gate: a blind, bounded pause, not a health check.
// The duration is a tunable expectation, not a guarantee; a worker that is
// still registering when the gate opens shows up as a reported condition,
// not an error.
func (o *Orchestrator) gate(ctx context.Context, d time.Duration, what string) PhaseResult {
	if d <= 0 {
		return PhaseResult{Outcome: OutcomeSkipped, Message: "wait disabled"}
	}
	logging.Info("Orchestrator", "waiting %s for %s", d, what)
	if err := pause(ctx, d); err != nil {
		return PhaseResult{Outcome: OutcomeFailed, Message: "wait cancelled", Err: err}
	}
	return PhaseResult{Outcome: OutcomeSuccess, Message: fmt.Sprintf("waited %s for %s", d, what)}
}

// gateWorkers runs the shorter post-reconcile gate, but only when the
// reconciler actually started something new.
func (o *Orchestrator) gateWorkers(ctx context.Context, rep *RunReport) PhaseResult {
	if rep.Reconcile.Provisioned == 0 {
		return PhaseResult{Outcome: OutcomeSkipped, Message: "no workers were provisioned; nothing to wait for"}
	}
	return o.gate(ctx, o.cfg.Waits.Workers, "workers to register with central")
}

// reconcileWorkers reads the registry and brings the running worker set
// into agreement with it. The reconciler is advisory by contract: it never
// aborts the run, whatever the registry or the runtime do.
func (o *Orchestrator) reconcileWorkers(ctx context.Context, rep *RunReport) PhaseResult {
	workers, err := registry.Load(o.cfg.Registry.Path)
	if err != nil {
		return PhaseResult{
			Outcome: OutcomeDegraded,
			Message: fmt.Sprintf("cannot read registry %s", o.cfg.Registry.Path),
			Err:     err,
		}
	}

	res := o.rec.Reconcile(ctx, workers)
	rep.Reconcile = res

	switch {
	case res.Empty():
		return PhaseResult{Outcome: OutcomeSkipped, Message: "registry is empty: zero workers expected"}
	case res.Degraded():
		return PhaseResult{Outcome: OutcomeDegraded, Message: res.String()}
	default:
		return PhaseResult{Outcome: OutcomeSuccess, Message: res.String()}
	}
}

// countWorkers takes the final snapshot of running workers for the summary.
// This phase reports, it never fails the run.
func (o *Orchestrator) countWorkers(ctx context.Context, rep *RunReport) PhaseResult {
	names, err := o.runtime.ListProcesses(ctx, o.cfg.Worker.Pattern())
	if err != nil {
		return PhaseResult{Outcome: OutcomeDegraded, Message: "could not count running workers", Err: err}
	}
	sort.Strings(names)
	rep.WorkerNames = names
	rep.WorkerCount = len(names)
	return PhaseResult{Outcome: OutcomeSuccess, Message: fmt.Sprintf("%d worker(s) running", len(names))}
}

// pause sleeps for d unless ctx ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
