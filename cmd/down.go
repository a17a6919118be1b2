package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"evctl/internal/registry"
	"evctl/pkg/logging"
)

var downKeepWorkers bool

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Tear down the charging platform",
	Long: `Removes the deployed service group and, unless --keep-workers is given,
every charge-point container: the ones named by the registry and any
running stray that matches the worker name pattern.`,
	Args: cobra.NoArgs,
	RunE: runDown,
}

func init() {
	rootCmd.AddCommand(downCmd)

	downCmd.Flags().BoolVar(&downKeepWorkers, "keep-workers", false, "Leave charge point containers in place")
}

func runDown(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.InitForCLI(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := newRuntime(cfg)
	if err := rt.Teardown(ctx); err != nil {
		return fmt.Errorf("removing service group: %w", err)
	}

	if downKeepWorkers {
		fmt.Fprintln(cmd.OutOrStdout(), "service group removed, charge points kept")
		return nil
	}

	// Worker containers are spawned outside the compose project, so the
	// group teardown does not touch them. Collect names from the registry
	// and from the live process list; removal is force and idempotent.
	tpl := cfg.ResolvedWorker()
	names := make(map[string]bool)

	if workers, err := registry.Load(cfg.Registry.Path); err == nil {
		for _, d := range workers {
			names[d.ContainerName(tpl.NamePrefix)] = true
		}
	} else {
		logging.Warn("CLI", "registry unreadable, removing observed charge points only: %v", err)
	}

	running, err := rt.ListProcesses(ctx, tpl.Pattern())
	if err != nil {
		return fmt.Errorf("listing charge points: %w", err)
	}
	for _, name := range running {
		names[name] = true
	}

	removed := 0
	for name := range names {
		if err := rt.RemoveProcess(ctx, name); err != nil {
			logging.Warn("CLI", "could not remove %s: %v", name, err)
			continue
		}
		removed++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "service group removed, %d charge point(s) removed\n", removed)
	return nil
}
