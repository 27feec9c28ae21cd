package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoffa/kittenci/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and verify the run journal",
}

var historyInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List journal records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		journal, err := openJournal()
		if err != nil {
			return err
		}
		for _, rec := range journal.Records() {
			cmd.Printf("seq=%d run=%s job=%s verdict=%s hash=%s\n",
				rec.Seq, rec.RunID, rec.Job, rec.Verdict, rec.Hash[:16])
		}
		return nil
	},
}

var historyVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Recompute the journal's hash chain and signatures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		journal, err := openJournal()
		if err != nil {
			return err
		}
		if err := journal.Verify(); err != nil {
			return fmt.Errorf("journal verification failed: %w", err)
		}
		cmd.Printf("journal verification: %s\n", okMark())
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyInspectCmd)
	historyCmd.AddCommand(historyVerifyCmd)
}

func openJournal() (*history.Journal, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(cfg.Journal.Path, cfg.Journal.KeyDir)
}
