package main

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"karaokeds/internal/catalog"
	"karaokeds/internal/language"
)

var errCatalogInconsistent = errors.New("catalog check found inconsistencies")

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the ingestion catalog",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogCheckCommand(ctx))
	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			entries, err := readCatalog(cfg.Paths.CatalogFile)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Catalog is empty")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{strconv.Itoa(entry.Index), entry.Title, entry.SourceID, language.Label(entry.Language)})
			}
			writeRows(out, []string{"Index", "Title", "ID", "Language"}, rows, []columnAlignment{alignRight})
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit rows as JSON")
	return cmd
}

func newCatalogCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report duplicate indices, repeated pairs, and rows without indexed files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			entries, err := readCatalog(cfg.Paths.CatalogFile)
			if err != nil {
				return err
			}
			report, err := catalog.Verify(entries, catalog.Layout{
				VideosDir:  cfg.VideosDir(),
				TracksDir:  cfg.TracksDir(),
				VideoExt:   cfg.Ingest.VideoExt,
				CaptionExt: cfg.Ingest.CaptionExt,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checked %d row(s)\n", report.Rows)
			if report.Clean() {
				fmt.Fprintln(out, "Catalog consistent")
				return nil
			}

			var rows [][]string
			indices := make([]int, 0, len(report.DuplicateIndices))
			for index := range report.DuplicateIndices {
				indices = append(indices, index)
			}
			sort.Ints(indices)
			for _, index := range indices {
				rows = append(rows, []string{"duplicate_index", strconv.Itoa(index), fmt.Sprintf("%d rows", report.DuplicateIndices[index])})
			}

			pairs := make([]catalog.Pair, 0, len(report.DuplicatePairs))
			for pair := range report.DuplicatePairs {
				pairs = append(pairs, pair)
			}
			sort.Slice(pairs, func(i, j int) bool {
				return report.DuplicatePairs[pairs[i]][0] < report.DuplicatePairs[pairs[j]][0]
			})
			for _, pair := range pairs {
				indices := report.DuplicatePairs[pair]
				labels := make([]string, len(indices))
				for i, index := range indices {
					labels[i] = strconv.Itoa(index)
				}
				rows = append(rows, []string{"duplicate_pair", strings.Join(labels, ","), fmt.Sprintf("%s [%s] %s", pair.Title, pair.SourceID, pair.Language)})
			}

			for _, orphan := range report.Orphans {
				var missing []string
				if orphan.VideoMissing {
					missing = append(missing, "video")
				}
				if orphan.TrackMissing {
					missing = append(missing, "caption")
				}
				rows = append(rows, []string{"orphan", strconv.Itoa(orphan.Entry.Index), "missing " + strings.Join(missing, " and ")})
			}

			writeRows(out, []string{"Finding", "Index", "Detail"}, rows, nil)
			return errCatalogInconsistent
		},
	}
}

// readCatalog treats a catalog that was never created as empty.
func readCatalog(path string) ([]catalog.Entry, error) {
	entries, err := catalog.Open(path).Entries()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return entries, err
}
