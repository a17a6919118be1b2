package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"evctl/pkg/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Stream logs from the deployed services",
	Long: `Follows the service group logs until interrupted. Charge-point workers
run outside the service group; inspect one with docker logs <name>.`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.InitForCLI(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRuntime(cfg).StreamLogs(ctx, cmd.OutOrStdout())
}
