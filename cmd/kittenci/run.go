package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoffa/kittenci/internal/history"
	"github.com/hoffa/kittenci/internal/pipeline"
	"github.com/hoffa/kittenci/internal/runner"
	"github.com/hoffa/kittenci/internal/storage"
)

const defaultPipelineFile = "kittenci.yaml"

var runCmd = &cobra.Command{
	Use:   "run [pipeline.yaml]",
	Short: "Run the pipeline locally",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultPipelineFile
		if len(args) == 1 {
			path = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		p, err := pipeline.Load(path)
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

		res, err := r.Run(cmd.Context(), p)
		if err != nil {
			return err
		}

		printResult(cmd, res)
		if !res.Passed {
			return errors.New("run failed")
		}
		return nil
	},
}

func printResult(cmd *cobra.Command, res *runner.RunResult) {
	for _, jr := range res.Jobs {
		for _, sr := range jr.Steps {
			mark := okMark()
			if sr.ExitCode != 0 || sr.TimedOut {
				mark = failMark()
			}
			cmd.Printf("%s\t%s\t%s\n", labelStyle.Render(jr.Job), sr.Name, mark)
		}
		if jr.Status == runner.StatusFailed {
			cmd.Printf("%s\t%s (step: %s)\n", labelStyle.Render(jr.Job), failMark(), jr.FailedStep)
		} else {
			cmd.Printf("%s\t%s\n", labelStyle.Render(jr.Job), okMark())
		}
	}
}
