// Package cli provides the command-line interface for Conveyor.
package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/conveyor-ci/conveyor/internal/config"
)

var (
	// Version information set by main.
	versionInfo struct {
		Version string
		Commit  string
		Date    string
	}

	// Global flags
	cfgFile  string
	logLevel string

	// Global config
	cfg *config.Config

	// Logger
	logger *log.Logger
)

// SetVersionInfo sets the version information from main.
func SetVersionInfo(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "conveyor",
	Short: "CI/CD control plane for pipelines, builds, and agents",
	Long: `Conveyor is the control plane of a continuous integration system.

It owns the source of truth for projects, pipeline definitions, builds
and their stages and jobs, the agent fleet, and the domain events those
produce. Execution itself happens on external agents; Conveyor decides
what runs, numbers it, and tracks its lifecycle.

Start the control plane with 'conveyor serve'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context for graceful shutdown.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: conveyor.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// initConfig loads the configuration and applies it to the logger.
func initConfig() error {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.WithConfigPath(cfgFile)
	}

	loaded, err := loader.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Output.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if parsed, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
	if cfg.Output.LogFormat == "json" {
		logger.SetFormatter(log.JSONFormatter)
	}

	return nil
}
