package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoffa/kittenci/internal/history"
	"github.com/hoffa/kittenci/internal/runner"
	"github.com/hoffa/kittenci/internal/server"
	"github.com/hoffa/kittenci/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the push webhook server",
	Long: `Starts an HTTP server that runs the configured pipeline whenever a
push event is posted to /hooks/push. Run status is served under /runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		journal, err := history.Open(cfg.Journal.Path, cfg.Journal.KeyDir)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}

		r := runner.New(runner.Options{
			Workers:     cfg.Workers,
			StepTimeout: cfg.StepTimeout,
			Logs:        storage.NewLogStore(cfg.LogDir),
			Journal:     journal,
			Logger:      newLogger("runner"),
		})

		srv := server.New(r, cfg.Server.Pipeline, newLogger("server"))
		return srv.ListenAndServe(cfg.Server.Addr)
	},
}
