package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/auth"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/config"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/repl"
)

var (
	version = "1.0.0"

	// Global flags
	configFile string
	verbose    bool

	// Populated by PersistentPreRunE for all commands.
	cfg         *config.Config
	credManager *auth.Manager
)

// rootCmd represents the base command. Invoked without a subcommand it
// starts the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "catgirl",
	Short: "Download themed anime images from public APIs",
	Long: `catgirl fetches catgirl, neko, kitsune and femboy images from a set of
public image APIs and sorts the downloads by safety, theme and rating.

Run without arguments for an interactive shell, or use the download
subcommand for one-shot runs.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		if err := logger.Initialize(level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}

		credManager = auth.NewManager()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := repl.New(cfg, credManager, logger.GetLogger())
		return shell.Run(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./catgirl.yaml or $HOME/.catgirl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.SetVersionTemplate(`catgirl {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
