package containerizer

import (
	"context"
	"io"
)

// Runtime is the contract the orchestrator needs from a container runtime.
// The retry and fallback policy upstream depends only on the error results
// here, never on runtime-specific state.
type Runtime interface {
	// BuildComposeService builds the image for one service defined in the
	// compose file.
	BuildComposeService(ctx context.Context, service string) error

	// BuildImage builds an image directly from a context directory.
	BuildImage(ctx context.Context, opts BuildOptions) error

	// ImageExists reports whether an image with the given tag is present
	// locally.
	ImageExists(ctx context.Context, tag string) (bool, error)

	// Teardown removes the previous deployment. It is idempotent and
	// succeeds when nothing is running.
	Teardown(ctx context.Context) error

	// StartGroup starts the full service group detached.
	StartGroup(ctx context.Context) error

	// ResetNetworking clears unused runtime networks. Used as the single
	// recovery step between a failed group start and its retry.
	ResetNetworking(ctx context.Context) error

	// ListProcesses returns the names of running containers matching the
	// given name pattern. The result is a snapshot, not a subscription.
	ListProcesses(ctx context.Context, namePattern string) ([]string, error)

	// ProcessExists reports whether a container with exactly this name
	// exists, running or stopped.
	ProcessExists(ctx context.Context, name string) (bool, error)

	// ProcessRunning reports whether a container with exactly this name is
	// currently running.
	ProcessRunning(ctx context.Context, name string) (bool, error)

	// StartProcess starts an existing stopped container.
	StartProcess(ctx context.Context, name string) error

	// Spawn runs a new detached container and returns its ID.
	Spawn(ctx context.Context, cfg ContainerConfig) (string, error)

	// RemoveProcess force-removes a container by name.
	RemoveProcess(ctx context.Context, name string) error

	// StreamLogs follows the service group logs, writing them to out until
	// ctx is cancelled.
	StreamLogs(ctx context.Context, out io.Writer) error
}

// BuildOptions describes a direct image build.
type BuildOptions struct {
	Context    string // build context directory
	Dockerfile string // optional, relative to Context
	Tag        string
}

// ContainerConfig describes a single detached worker container.
type ContainerConfig struct {
	Name    string
	Image   string
	Network string
	Ports   []string // "host:container"
	Env     map[string]string
	Args    []string // passed to the image entrypoint
}
