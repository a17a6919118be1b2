package config

import (
	"time"
)

// EvctlConfig is the top-level configuration structure for evctl.
type EvctlConfig struct {
	Compose  ComposeSettings  `yaml:"compose"`
	Services []ServiceSpec    `yaml:"services,omitempty"`
	Worker   WorkerTemplate   `yaml:"worker"`
	Registry RegistrySettings `yaml:"registry"`
	Waits    WaitSettings     `yaml:"waits"`
	Journal  JournalSettings  `yaml:"journal"`
	LogLevel string           `yaml:"logLevel,omitempty"`
}

// ComposeSettings locates the multi-service deployment definition.
type ComposeSettings struct {
	ProjectName string `yaml:"projectName,omitempty"` // compose -p value; also used as the group label in output
	File        string `yaml:"file,omitempty"`        // compose -f value; empty means the runtime's default lookup
	Network     string `yaml:"network,omitempty"`     // shared network all services and workers attach to
}

// ServiceTier groups services by when they must be ready.
type ServiceTier string

const (
	TierInfra  ServiceTier = "infra"  // message bus, coordinator, registry service
	TierApp    ServiceTier = "app"    // driver simulator, weather feed, front-end, manager
	TierWorker ServiceTier = "worker" // the charge-point image workers are spawned from
)

// ServiceSpec describes one buildable service image. Specs are fixed
// configuration: loaded once per run and never mutated by orchestration.
type ServiceSpec struct {
	Name string      `yaml:"name"`
	Tier ServiceTier `yaml:"tier,omitempty"`

	// Critical marks a spec whose build failure must abort the whole run
	// because later phases structurally depend on the image (the
	// charge-point worker image is the canonical case).
	Critical bool `yaml:"critical,omitempty"`

	// Build is the primary build path. Fallback, when present, is tried
	// once after the primary path fails.
	Build    BuildSource  `yaml:"build"`
	Fallback *BuildSource `yaml:"fallback,omitempty"`
}

// BuildSource describes one way to produce an image: either through the
// compose service of that name, or a direct image build from a context
// directory. Exactly one of the two forms should be populated.
type BuildSource struct {
	ComposeService string `yaml:"composeService,omitempty"`

	Context    string `yaml:"context,omitempty"`
	Dockerfile string `yaml:"dockerfile,omitempty"` // relative to Context; empty means the default
	Tag        string `yaml:"tag,omitempty"`
}

// IsComposeBuild reports whether this source builds via the compose file.
func (b BuildSource) IsComposeBuild() bool {
	return b.ComposeService != ""
}

// WorkerTemplate describes how charge-point worker containers are spawned
// from registry descriptors.
type WorkerTemplate struct {
	Image      string `yaml:"image"`      // the critical worker image tag
	NamePrefix string `yaml:"namePrefix"` // container name = prefix + descriptor ordinal

	// NamePattern filters the running-process set when counting live
	// workers. Defaults to NamePrefix when empty.
	NamePattern string `yaml:"namePattern,omitempty"`

	Network  string `yaml:"network,omitempty"`  // defaults to Compose.Network
	BasePort int    `yaml:"basePort,omitempty"` // host/container port = BasePort + descriptor ordinal

	Env map[string]string `yaml:"env,omitempty"`

	// Args are passed to the worker entrypoint. The placeholders {id},
	// {addr} and {port} are expanded per descriptor.
	Args []string `yaml:"args,omitempty"`

	// Concurrency bounds how many spawn requests run in parallel during
	// reconciliation. Zero or negative means the built-in default.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// Pattern returns the process name filter used for status counting.
func (w WorkerTemplate) Pattern() string {
	if w.NamePattern != "" {
		return w.NamePattern
	}
	return w.NamePrefix
}

// ResolvedWorker returns the worker template with config-level defaults
// applied: a template without its own network joins the compose network.
func (c EvctlConfig) ResolvedWorker() WorkerTemplate {
	w := c.Worker
	if w.Network == "" {
		w.Network = c.Compose.Network
	}
	return w
}

// RegistrySettings locates the worker registry file.
type RegistrySettings struct {
	Path string `yaml:"path"`
}

// WaitSettings holds the readiness gate durations. These are blind timed
// waits, not health checks; they are tunable expectations, not guarantees.
type WaitSettings struct {
	Infrastructure   time.Duration `yaml:"infrastructure"`             // after launch: message bus + coordinator startup
	Workers          time.Duration `yaml:"workers"`                    // after reconcile: workers registering with the coordinator
	LaunchRetryPause time.Duration `yaml:"launchRetryPause,omitempty"` // between network reset and the single launch retry
}

// JournalSettings configures the local run-history store.
type JournalSettings struct {
	Path     string `yaml:"path,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}
