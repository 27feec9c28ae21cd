package main

import (
	"github.com/spf13/cobra"

	"github.com/hoffa/kittenci/internal/pipeline"
)

var validateCmd = &cobra.Command{
	Use:   "validate [pipeline.yaml]",
	Short: "Parse and validate a pipeline file without running it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultPipelineFile
		if len(args) == 1 {
			path = args[0]
		}

		p, err := pipeline.Load(path)
		if err != nil {
			return err
		}

		cmd.Printf("%s: %s, %d matrix value(s), %d step(s)\n",
			path, okMark(), len(p.Matrix.Values), len(p.Steps))
		return nil
	},
}
