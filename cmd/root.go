package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"evctl/internal/config"
	"evctl/internal/containerizer"
	"evctl/internal/journal"
)

// Persistent flags shared by every subcommand.
var (
	cfgFile      string
	logLevelFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "evctl",
	Short: "Deploy and operate the simulated EV charging platform",
	Long: `evctl deploys the simulated EV charging platform on a local container
runtime: it rebuilds the service images, launches the platform services,
and keeps one charge-point container running per registry entry.

Configuration is layered from built-in defaults, ~/.config/evctl/config.yaml
and ./.evctl/config.yaml in the working directory (project wins).`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed deployments)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "evctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (replaces the user/project config lookup)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error")
}

// loadConfig resolves the effective configuration for one command run,
// honoring --config and --log-level.
func loadConfig() (config.EvctlConfig, error) {
	var (
		cfg config.EvctlConfig
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadConfigFromPath(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return config.EvctlConfig{}, err
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	return cfg, nil
}

// newRuntime builds the Docker runtime all commands deploy through.
func newRuntime(cfg config.EvctlConfig) *containerizer.DockerRuntime {
	return &containerizer.DockerRuntime{
		ComposeFile: cfg.Compose.File,
		ProjectName: cfg.Compose.ProjectName,
	}
}

// openJournal opens the run journal, or returns nil when it is disabled.
func openJournal(cfg config.EvctlConfig) (*journal.Journal, error) {
	if cfg.Journal.Disabled {
		return nil, nil
	}
	path := cfg.Journal.Path
	if path == "" {
		var err error
		path, err = config.DefaultJournalPath()
		if err != nil {
			return nil, err
		}
	}
	return journal.Open(path)
}
