package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"evctl/internal/config"
	"evctl/internal/journal"
	"evctl/internal/orchestrator"
	"evctl/internal/reporting"
	"evctl/pkg/logging"
)

var (
	upBuild    bool
	upNoBuild  bool
	upNoInput  bool
	upFollow   bool
	upRegistry string
	upTimeout  time.Duration
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Deploy the charging platform and reconcile charge points",
	Long: `Deploys the full charging platform from a clean slate:

1. Tears down any previous deployment.
2. Rebuilds the service images (optional; asked interactively, forced with
   --build, skipped with --no-build). A failed non-critical image degrades
   the run; a failed charge-point image aborts it.
3. Launches the service group, retrying once after a network reset.
4. Waits for the infrastructure services to come up.
5. Starts one charge-point container per registry entry.
6. Reports what is running.

Interrupting the run tears the deployment back down before exiting.`,
	Args: cobra.NoArgs,
	RunE: runUp,
}

func init() {
	rootCmd.AddCommand(upCmd)

	upCmd.Flags().BoolVar(&upBuild, "build", false, "Rebuild service images without asking")
	upCmd.Flags().BoolVar(&upNoBuild, "no-build", false, "Skip the image rebuild stage")
	upCmd.Flags().BoolVar(&upNoInput, "no-input", false, "Never prompt; take the default answer")
	upCmd.Flags().BoolVar(&upFollow, "follow", false, "Stream service logs after a successful deployment")
	upCmd.Flags().StringVar(&upRegistry, "registry", "", "Override the charge point registry file")
	upCmd.Flags().DurationVar(&upTimeout, "timeout", 0, "Abort and tear down when the deployment exceeds this duration")
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if upRegistry != "" {
		cfg.Registry.Path = upRegistry
	}
	logging.InitForCLI(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	build, err := resolveBuildChoice(upBuild, upNoBuild, upNoInput, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The timeout bounds the deployment only; a follow stream afterwards
	// runs until interrupted.
	runCtx := ctx
	if upTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, upTimeout)
		defer cancel()
	}

	rt := newRuntime(cfg)
	orch := orchestrator.New(rt, cfg, orchestrator.Options{SkipBuild: !build})
	rep := orch.Run(runCtx)

	recordRun(cfg, rep)
	reporting.RenderRunSummary(cmd.OutOrStdout(), rep)

	switch {
	case rep.Fatal:
		return errors.New("deployment failed")
	case rep.Cancelled:
		return errors.New("deployment cancelled")
	}

	if upFollow {
		logging.Info("CLI", "following service logs, interrupt to stop")
		return rt.StreamLogs(ctx, cmd.OutOrStdout())
	}
	return nil
}

// stdinIsTerminal is a seam for tests.
var stdinIsTerminal = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// resolveBuildChoice decides whether this run rebuilds images. Explicit
// flags win; otherwise an interactive terminal is asked, defaulting to no.
func resolveBuildChoice(build, noBuild, noInput bool, in io.Reader, out io.Writer) (bool, error) {
	if build && noBuild {
		return false, errors.New("--build and --no-build are mutually exclusive")
	}
	if build {
		return true, nil
	}
	if noBuild {
		return false, nil
	}
	if noInput || !stdinIsTerminal() {
		return false, nil
	}

	fmt.Fprint(out, "Rebuild service images? [y/N]: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// recordRun appends the run to the journal. Best-effort: a broken journal
// is logged, never surfaced as a deployment failure.
func recordRun(cfg config.EvctlConfig, rep *orchestrator.RunReport) {
	j, err := openJournal(cfg)
	if err != nil {
		logging.Warn("Journal", "run not recorded: %v", err)
		return
	}
	if j == nil {
		return
	}
	defer j.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := j.Record(ctx, journal.NewRecord(rep)); err != nil {
		logging.Warn("Journal", "run not recorded: %v", err)
	}
}
