package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"evctl/internal/fleet"
	"evctl/internal/reporting"
	"evctl/pkg/logging"
)

const statusTimeout = 30 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is deployed and which charge points are running",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.InitForCLI(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()

	snap, err := fleet.Observe(ctx, newRuntime(cfg), cfg)
	if err != nil {
		return err
	}

	reporting.RenderStatus(cmd.OutOrStdout(), snap)
	return nil
}
