package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evctl/internal/reporting"
	"evctl/pkg/logging"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past deployment runs from the local journal",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.InitForCLI(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	if j == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "the run journal is disabled in the configuration")
		return nil
	}
	defer j.Close()

	records, err := j.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	reporting.RenderHistory(cmd.OutOrStdout(), records)
	return nil
}
