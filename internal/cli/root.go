// Package cli provides the command-line interface for framesync.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/framesync/internal/cli/commands"
	"github.com/leapstack-labs/framesync/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "framesync",
		Short: "framesync - batch to table synchronization",
		Long: `framesync writes tabular batches to relational tables.

It infers the minimal column types a batch needs, reconciles the target
table's schema additively, then applies the rows with an insert, update,
upsert, or merge through a session-local staging table.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			commands.SetRuntime(cfg, logger)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./framesync.yaml)")
	rootCmd.PersistentFlags().String("type", "", "target database type")
	rootCmd.PersistentFlags().String("host", "", "target database host")
	rootCmd.PersistentFlags().Int("port", 0, "target database port")
	rootCmd.PersistentFlags().String("database", "", "target database name")
	rootCmd.PersistentFlags().String("user", "", "target database user")
	rootCmd.PersistentFlags().String("password", "", "target database password")
	rootCmd.PersistentFlags().String("schema", "", "target schema")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewLoadCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
