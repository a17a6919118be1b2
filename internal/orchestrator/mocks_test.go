package orchestrator

import (
	"context"
	"io"
	"strings"
	"sync"

	"evctl/internal/containerizer"
)

// fakeRuntime scripts the container runtime for driver tests. It keeps the
// container state in memory so a reconcile in one phase is visible to the
// status snapshot in a later one, and it records the call sequence so tests
// can assert phase ordering.
type fakeRuntime struct {
	mu    sync.Mutex
	calls []string

	// Scripted failures. Nil funcs and empty slices mean "succeed".
	composeBuildErr func(service string) error
	imageBuildErr   func(tag string) error
	startGroupErrs  []error // consumed one per StartGroup call
	teardownErr     error
	spawnErr        func(name string) error
	listErr         error

	images  map[string]bool
	running map[string]bool
	stopped map[string]bool
}

var _ containerizer.Runtime = (*fakeRuntime)(nil)

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		images:  map[string]bool{"evcharging-cp": true},
		running: map[string]bool{},
		stopped: map[string]bool{},
	}
}

func (f *fakeRuntime) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

// callsMade returns a copy of the recorded call sequence.
func (f *fakeRuntime) callsMade() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRuntime) countCalls(prefix string) int {
	n := 0
	for _, c := range f.callsMade() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeRuntime) BuildComposeService(ctx context.Context, service string) error {
	f.record("build-compose " + service)
	if f.composeBuildErr != nil {
		return f.composeBuildErr(service)
	}
	return nil
}

func (f *fakeRuntime) BuildImage(ctx context.Context, opts containerizer.BuildOptions) error {
	f.record("build-image " + opts.Tag)
	if f.imageBuildErr != nil {
		if err := f.imageBuildErr(opts.Tag); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.images[opts.Tag] = true
	f.mu.Unlock()
	return nil
}

func (f *fakeRuntime) ImageExists(ctx context.Context, tag string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.images[tag], nil
}

func (f *fakeRuntime) Teardown(ctx context.Context) error {
	f.record("teardown")
	return f.teardownErr
}

func (f *fakeRuntime) StartGroup(ctx context.Context) error {
	f.record("start-group")
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.startGroupErrs) > 0 {
		err := f.startGroupErrs[0]
		f.startGroupErrs = f.startGroupErrs[1:]
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRuntime) ResetNetworking(ctx context.Context) error {
	f.record("reset-networking")
	return nil
}

func (f *fakeRuntime) ListProcesses(ctx context.Context, pattern string) ([]string, error) {
	f.record("list " + pattern)
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for name, up := range f.running {
		if up && strings.Contains(name, pattern) {
			names = append(names, name)
		}
	}
	return names, nil
}

func (f *fakeRuntime) ProcessExists(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running[name] || f.stopped[name], nil
}

func (f *fakeRuntime) ProcessRunning(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running[name], nil
}

func (f *fakeRuntime) StartProcess(ctx context.Context, name string) error {
	f.record("start " + name)
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stopped, name)
	f.running[name] = true
	return nil
}

func (f *fakeRuntime) Spawn(ctx context.Context, cfg containerizer.ContainerConfig) (string, error) {
	f.record("spawn " + cfg.Name)
	if f.spawnErr != nil {
		if err := f.spawnErr(cfg.Name); err != nil {
			return "", err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running[cfg.Name] = true
	return "id-" + cfg.Name, nil
}

func (f *fakeRuntime) RemoveProcess(ctx context.Context, name string) error {
	f.record("rm " + name)
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.running, name)
	delete(f.stopped, name)
	return nil
}

func (f *fakeRuntime) StreamLogs(ctx context.Context, out io.Writer) error {
	f.record("logs")
	return nil
}
