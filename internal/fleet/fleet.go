// Package fleet observes the deployed fleet: which platform services are up
// and which charge-point workers exist, enrolled or stray. Both the status
// command and the watch dashboard render from the same snapshot.
package fleet

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"evctl/internal/config"
	"evctl/internal/containerizer"
	"evctl/internal/registry"
	"evctl/pkg/logging"
)

// ServiceState is the observed state of one compose service.
type ServiceState struct {
	Name    string
	Tier    string
	Running bool
}

// WorkerState is the observed state of one charge-point worker. Enrolled
// distinguishes a registry descriptor from a stray container that matches
// the worker name pattern without being enrolled.
type WorkerState struct {
	ID       string
	Name     string
	Port     int
	Running  bool
	Enrolled bool
}

// Snapshot is a point-in-time view of the fleet.
type Snapshot struct {
	TakenAt  time.Time
	Project  string
	Services []ServiceState
	Workers  []WorkerState
}

// RunningWorkers counts workers observed running.
func (s Snapshot) RunningWorkers() int {
	n := 0
	for _, w := range s.Workers {
		if w.Running {
			n++
		}
	}
	return n
}

// EnrolledWorkers counts workers the registry expects.
func (s Snapshot) EnrolledWorkers() int {
	n := 0
	for _, w := range s.Workers {
		if w.Enrolled {
			n++
		}
	}
	return n
}

// Healthy reports whether everything expected is running: all configured
// services and one worker per registry descriptor.
func (s Snapshot) Healthy() bool {
	for _, svc := range s.Services {
		if !svc.Running {
			return false
		}
	}
	for _, w := range s.Workers {
		if w.Enrolled && !w.Running {
			return false
		}
	}
	return true
}

// Observe gathers a snapshot from the runtime and the registry. A registry
// read failure degrades the snapshot (workers show as not enrolled) instead
// of failing it; runtime failures fail it.
func Observe(ctx context.Context, rt containerizer.Runtime, cfg config.EvctlConfig) (Snapshot, error) {
	snap := Snapshot{TakenAt: time.Now(), Project: cfg.Compose.ProjectName}

	projectNames, err := rt.ListProcesses(ctx, cfg.Compose.ProjectName)
	if err != nil {
		return snap, fmt.Errorf("listing project containers: %w", err)
	}
	for _, spec := range cfg.Services {
		snap.Services = append(snap.Services, ServiceState{
			Name:    spec.Name,
			Tier:    string(spec.Tier),
			Running: anyContains(projectNames, spec.Name),
		})
	}

	tpl := cfg.ResolvedWorker()
	workerNames, err := rt.ListProcesses(ctx, tpl.Pattern())
	if err != nil {
		return snap, fmt.Errorf("listing worker containers: %w", err)
	}
	running := make(map[string]bool, len(workerNames))
	for _, name := range workerNames {
		running[name] = true
	}

	descriptors, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		logging.Warn("Fleet", "registry unreadable, reporting observed workers only: %v", err)
	}

	enrolled := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		name := d.ContainerName(tpl.NamePrefix)
		enrolled[name] = true
		snap.Workers = append(snap.Workers, WorkerState{
			ID:       d.ID,
			Name:     name,
			Port:     d.HostPort(tpl.BasePort),
			Running:  running[name],
			Enrolled: true,
		})
	}

	var strays []string
	for name := range running {
		if !enrolled[name] {
			strays = append(strays, name)
		}
	}
	sort.Strings(strays)
	for _, name := range strays {
		snap.Workers = append(snap.Workers, WorkerState{Name: name, Running: true})
	}

	return snap, nil
}

func anyContains(names []string, substr string) bool {
	for _, name := range names {
		if strings.Contains(name, substr) {
			return true
		}
	}
	return false
}
