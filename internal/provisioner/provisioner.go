// Package provisioner reconciles the worker registry against the running
// process set: every descriptor in the registry gets a live charge-point
// container, and descriptors that already have one are left alone.
package provisioner

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"evctl/internal/config"
	"evctl/internal/containerizer"
	"evctl/internal/registry"
	"evctl/pkg/logging"
)

const defaultConcurrency = 4

// Action is what the reconciler did for one descriptor.
type Action string

const (
	ActionNone      Action = "none"      // a running container already matched
	ActionRestarted Action = "restarted" // an existing stopped container was started
	ActionSpawned   Action = "spawned"   // a new container was created
	ActionFailed    Action = "failed"
)

// WorkerOutcome is the per-descriptor result.
type WorkerOutcome struct {
	ID     string
	Name   string
	Action Action
	Err    error
}

// Result aggregates one reconciliation pass. It is advisory: the reconciler
// reports, the caller decides what the numbers mean for the run.
type Result struct {
	Total          int
	Provisioned    int // spawned + restarted
	AlreadyRunning int
	Failed         int
	Outcomes       []WorkerOutcome
}

// Degraded reports whether any descriptor failed to provision.
func (r Result) Degraded() bool {
	return r.Failed > 0
}

// Empty reports whether there was nothing to reconcile.
func (r Result) Empty() bool {
	return r.Total == 0
}

// String renders the aggregate in the structured provisioned/failed/total
// form the operator-facing output uses.
func (r Result) String() string {
	return fmt.Sprintf("provisioned=%d failed=%d total=%d alreadyRunning=%d",
		r.Provisioned, r.Failed, r.Total, r.AlreadyRunning)
}

// Reconciler brings the running worker set into agreement with a descriptor
// list. It never mutates the registry and never aborts: every failure is
// isolated to its descriptor and carried in the Result.
type Reconciler struct {
	runtime containerizer.Runtime
	tpl     config.WorkerTemplate
}

// New creates a Reconciler for the given runtime and worker template.
func New(rt containerizer.Runtime, tpl config.WorkerTemplate) *Reconciler {
	return &Reconciler{runtime: rt, tpl: tpl}
}

// Reconcile ensures a running container exists for every descriptor.
// Spawn requests run through a bounded pool; one failure never blocks the
// others. Running it a second time against unchanged state provisions
// nothing.
func (r *Reconciler) Reconcile(ctx context.Context, workers []registry.WorkerDescriptor) Result {
	if len(workers) == 0 {
		logging.Info("Reconciler", "registry is empty: zero workers expected")
		return Result{}
	}

	// Without the worker image every spawn would fail the same way; check
	// once and report it per descriptor so the aggregate still adds up.
	exists, err := r.runtime.ImageExists(ctx, r.tpl.Image)
	if err == nil && !exists {
		err = fmt.Errorf("worker image %q not found: run the build stage first", r.tpl.Image)
	}
	if err != nil {
		logging.Error("Reconciler", err, "cannot provision workers")
		res := Result{Total: len(workers), Failed: len(workers)}
		for _, d := range workers {
			res.Outcomes = append(res.Outcomes, WorkerOutcome{
				ID:     d.ID,
				Name:   d.ContainerName(r.tpl.NamePrefix),
				Action: ActionFailed,
				Err:    err,
			})
		}
		return res
	}

	concurrency := r.tpl.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	outcomes := make([]WorkerOutcome, len(workers))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, d := range workers {
		wg.Add(1)
		go func(i int, d registry.WorkerDescriptor) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = r.reconcileOne(ctx, d)
		}(i, d)
	}
	wg.Wait()

	res := Result{Total: len(workers), Outcomes: outcomes}
	for _, out := range outcomes {
		switch out.Action {
		case ActionNone:
			res.AlreadyRunning++
		case ActionSpawned, ActionRestarted:
			res.Provisioned++
		case ActionFailed:
			res.Failed++
		}
	}

	logging.Info("Reconciler", "%s", res.String())
	return res
}

func (r *Reconciler) reconcileOne(ctx context.Context, d registry.WorkerDescriptor) WorkerOutcome {
	name := d.ContainerName(r.tpl.NamePrefix)
	out := WorkerOutcome{ID: d.ID, Name: name}

	running, err := r.runtime.ProcessRunning(ctx, name)
	if err != nil {
		out.Action = ActionFailed
		out.Err = fmt.Errorf("checking %s: %w", name, err)
		logging.Error("Reconciler", out.Err, "worker %s", d.ID)
		return out
	}
	if running {
		out.Action = ActionNone
		logging.Debug("Reconciler", "worker %s already running as %s", d.ID, name)
		return out
	}

	// A stopped container with the right name is restarted rather than
	// recreated, so any state it holds survives.
	exists, err := r.runtime.ProcessExists(ctx, name)
	if err != nil {
		out.Action = ActionFailed
		out.Err = fmt.Errorf("checking %s: %w", name, err)
		logging.Error("Reconciler", out.Err, "worker %s", d.ID)
		return out
	}
	if exists {
		if err := r.runtime.StartProcess(ctx, name); err != nil {
			out.Action = ActionFailed
			out.Err = fmt.Errorf("restarting %s: %w", name, err)
			logging.Error("Reconciler", out.Err, "worker %s", d.ID)
			return out
		}
		out.Action = ActionRestarted
		logging.Info("Reconciler", "restarted stopped worker %s", name)
		return out
	}

	if _, err := r.runtime.Spawn(ctx, r.containerConfig(d)); err != nil {
		out.Action = ActionFailed
		out.Err = fmt.Errorf("spawning %s: %w", name, err)
		logging.Error("Reconciler", out.Err, "worker %s", d.ID)
		return out
	}
	out.Action = ActionSpawned
	logging.Info("Reconciler", "spawned worker %s for descriptor %s", name, d.ID)
	return out
}

// containerConfig materializes the worker template for one descriptor.
func (r *Reconciler) containerConfig(d registry.WorkerDescriptor) containerizer.ContainerConfig {
	port := d.HostPort(r.tpl.BasePort)

	cfg := containerizer.ContainerConfig{
		Name:    d.ContainerName(r.tpl.NamePrefix),
		Image:   r.tpl.Image,
		Network: r.tpl.Network,
	}
	if port > 0 {
		cfg.Ports = []string{fmt.Sprintf("%d:%d", port, port)}
	}
	if len(r.tpl.Env) > 0 {
		cfg.Env = make(map[string]string, len(r.tpl.Env))
		for k, v := range r.tpl.Env {
			cfg.Env[k] = v
		}
	}
	for _, arg := range r.tpl.Args {
		cfg.Args = append(cfg.Args, expandArg(arg, d, port))
	}
	return cfg
}

func expandArg(arg string, d registry.WorkerDescriptor, port int) string {
	arg = strings.ReplaceAll(arg, "{id}", d.ID)
	arg = strings.ReplaceAll(arg, "{addr}", d.Addr)
	arg = strings.ReplaceAll(arg, "{port}", strconv.Itoa(port))
	return arg
}
