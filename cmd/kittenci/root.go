package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hoffa/kittenci/internal/config"
)

// Version is set via -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "kittenci",
		Short: "A tiny CI matrix runner",
		Long: `kittenci runs a YAML pipeline across a matrix of interpreter
versions: one independent job per version, steps strictly in order,
first failure halts the job, and the run passes only if every job does.

Pipelines are triggered locally with 'kittenci run' or by a push
webhook with 'kittenci serve'.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/kittenci/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}

// Execute runs the CLI. Called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration for a command.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger builds the component logger used by all commands.
func newLogger(prefix string) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{Prefix: prefix, Level: level})
}
