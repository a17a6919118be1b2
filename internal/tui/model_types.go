package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"

	"evctl/internal/color"
	"evctl/internal/config"
	"evctl/internal/containerizer"
	"evctl/internal/fleet"
	"evctl/internal/provisioner"
	"evctl/pkg/logging"
)

const (
	// pollInterval paces the fleet snapshot. The registry watcher reacts
	// faster; polling only catches container state drift.
	pollInterval = 2 * time.Second

	maxLogLines = 200
)

// tickMsg fires the next fleet poll.
type tickMsg time.Time

// snapshotMsg carries a completed fleet observation.
type snapshotMsg struct {
	Snap fleet.Snapshot
	Err  error
}

// registryChangedMsg signals that the registry file changed on disk.
type registryChangedMsg struct{}

// reconcileDoneMsg carries the outcome of one reconciliation pass.
type reconcileDoneMsg struct {
	Result provisioner.Result
	Err    error
}

// logEntryMsg forwards one structured log entry into the log panel.
type logEntryMsg logging.LogEntry

// logChannelClosedMsg stops the log reader loop on shutdown.
type logChannelClosedMsg struct{}

// Model is the dashboard state. It is mutated only inside Update.
type Model struct {
	runtime containerizer.Runtime
	cfg     config.EvctlConfig
	rec     *provisioner.Reconciler

	keys KeyMap

	snapshot fleet.Snapshot
	snapErr  error

	reconciling     bool
	lastReconcile   provisioner.Result
	lastReconcileAt time.Time
	reconcileErr    error

	logs       []logging.LogEntry
	logChannel <-chan logging.LogEntry
	regEvents  <-chan struct{}

	spinner spinner.Model
	logView viewport.Model

	width, height int
	ready         bool
	showHelp      bool
	darkMode      bool
	quitting      bool
}

// NewModel builds the dashboard model. logCh and regEvents may be nil; the
// corresponding panels then simply stay static.
func NewModel(rt containerizer.Runtime, cfg config.EvctlConfig, logCh <-chan logging.LogEntry, regEvents <-chan struct{}) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = color.DegradedStyle

	return &Model{
		runtime:    rt,
		cfg:        cfg,
		rec:        provisioner.New(rt, cfg.ResolvedWorker()),
		keys:       DefaultKeyMap(),
		logChannel: logCh,
		regEvents:  regEvents,
		spinner:    sp,
		darkMode:   true,
	}
}
