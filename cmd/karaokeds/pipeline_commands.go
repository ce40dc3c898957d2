package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"karaokeds/internal/extract"
	"karaokeds/internal/ingest"
	"karaokeds/internal/journal"
	"karaokeds/internal/refine"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Pair raw captions with videos and assign catalog indices",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runIngest(cmd, ctx)
			return err
		},
	}
}

func newParseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Parse indexed caption tracks into cue tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, ctx)
		},
	}
}

func newRefineCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refine",
		Short: "Clean parsed cue tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefine(cmd, ctx)
		},
	}
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run ingest, parse, and refine in sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := runIngest(cmd, ctx); err != nil {
				return err
			}
			if err := runParse(cmd, ctx); err != nil {
				return err
			}
			return runRefine(cmd, ctx)
		},
	}
}

func runIngest(cmd *cobra.Command, ctx *commandContext) (ingest.Summary, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return ingest.Summary{}, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return ingest.Summary{}, err
	}

	var opts []ingest.Option
	store, err := ctx.openJournal(cfg)
	if err != nil {
		return ingest.Summary{}, fmt.Errorf("open journal: %w", err)
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, ingest.WithRecorder(store))
	}

	summary, err := ingest.NewRunner(cfg, logger, opts...).Run(cmd.Context())
	if err != nil {
		return summary, err
	}
	printIngestSummary(cmd.OutOrStdout(), summary)
	return summary, nil
}

func printIngestSummary(out io.Writer, summary ingest.Summary) {
	fmt.Fprintf(out, "Indexed %d pair(s); skipped %d; errored %d; next index %d\n",
		summary.Advanced, summary.Skipped, summary.Errored, summary.NextIndex)

	var rows [][]string
	for _, result := range summary.Results {
		if result.Outcome == journal.OutcomeAdvanced {
			continue
		}
		index := "-"
		if result.Index >= 0 {
			index = strconv.Itoa(result.Index)
		}
		rows = append(rows, []string{result.File, string(result.Outcome), string(result.Reason), index})
	}
	if len(rows) == 0 {
		return
	}
	writeRows(out, []string{"File", "Outcome", "Reason", "Index"}, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight})
}

func runParse(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	summary, err := extract.New(cfg, logger).Run(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Parsed %d track(s); failed %d\n", summary.Parsed, summary.Failed)
	var rows [][]string
	for _, result := range summary.Results {
		if result.Err == nil {
			continue
		}
		rows = append(rows, []string{strconv.Itoa(result.Index), result.Err.Error()})
	}
	if len(rows) > 0 {
		writeRows(out, []string{"Index", "Error"}, rows, []columnAlignment{alignRight, alignLeft})
	}
	return nil
}

func runRefine(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	summary, err := refine.New(cfg, logger).Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Refined %d table(s); skipped %d; failed %d\n", summary.Refined, summary.Skipped, summary.Failed)
	return nil
}
