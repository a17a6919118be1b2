package cmd

import (
	"github.com/spf13/cobra"

	"evctl/internal/color"
	"evctl/internal/registry"
	"evctl/internal/tui"
	"evctl/pkg/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of the fleet with automatic reconciliation",
	Long: `Opens a terminal dashboard showing the platform services, the charge
points and the activity log. While it runs, changes to the registry file
trigger a reconciliation automatically; press r to force one.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logChannel := logging.InitForTUI(logging.ParseLevel(cfg.LogLevel))
	defer logging.CloseTUIChannel()

	color.Initialize(true)

	// The dashboard still works without the watcher; it just loses the
	// automatic reconcile on registry edits.
	var registryEvents <-chan struct{}
	if w, err := registry.Watch(cfg.Registry.Path); err != nil {
		logging.Warn("CLI", "registry watch disabled: %v", err)
	} else {
		registryEvents = w.Events()
		defer w.Close()
	}

	p := tui.NewProgram(newRuntime(cfg), cfg, logChannel, registryEvents)
	_, err = p.Run()
	return err
}
