package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"evctl/internal/provisioner"
	"evctl/internal/registry"
	"evctl/internal/reporting"
	"evctl/pkg/logging"
)

var provisionRegistry string

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Reconcile charge points against the registry",
	Long: `Runs one reconciliation pass without redeploying the platform: every
registry entry gets a running charge-point container. Entries already
running are left alone, stopped containers are restarted, missing ones
are spawned.

An empty or missing registry means zero charge points and exits cleanly;
the command fails only when a charge point could not be provisioned.`,
	Args: cobra.NoArgs,
	RunE: runProvision,
}

func init() {
	rootCmd.AddCommand(provisionCmd)

	provisionCmd.Flags().StringVar(&provisionRegistry, "registry", "", "Override the charge point registry file")
}

func runProvision(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if provisionRegistry != "" {
		cfg.Registry.Path = provisionRegistry
	}
	logging.InitForCLI(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}

	rec := provisioner.New(newRuntime(cfg), cfg.ResolvedWorker())
	res := rec.Reconcile(ctx, workers)

	reporting.RenderProvisionResult(cmd.OutOrStdout(), res)

	return provisionOutcome(res)
}

// provisionOutcome maps the reconcile result to the command's exit status.
// Only real provisioning failures exit non-zero; an empty registry is a
// valid zero-worker state, not an error.
func provisionOutcome(res provisioner.Result) error {
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d charge points failed to provision", res.Failed, res.Total)
	}
	return nil
}
