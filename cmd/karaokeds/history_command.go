package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled ingestion attempts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Ingest.JournalEnabled {
				return fmt.Errorf("journal disabled (set ingest.journal_enabled = true)")
			}
			store, err := ctx.openJournal(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			attempts, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, attempts)
			}

			out := cmd.OutOrStdout()
			if len(attempts) == 0 {
				fmt.Fprintln(out, "No attempts recorded")
				return nil
			}
			rows := make([][]string, 0, len(attempts))
			for _, a := range attempts {
				index := "-"
				if a.Index != nil {
					index = strconv.Itoa(*a.Index)
				}
				batch := a.BatchID
				if len(batch) > 8 {
					batch = batch[:8]
				}
				rows = append(rows, []string{
					a.CreatedAt.Local().Format(time.DateTime),
					batch,
					a.FileName,
					string(a.Outcome),
					a.Reason,
					index,
				})
			}
			writeRows(out, []string{"Time", "Batch", "File", "Outcome", "Reason", "Index"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight})
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum attempts to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit attempts as JSON")
	return cmd
}
