package refine

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"karaokeds/internal/config"
	"karaokeds/internal/fileutil"
	"karaokeds/internal/logging"
	"karaokeds/internal/vtt"
)

var inputHeader = strings.Split(vtt.TableHeader, ",")

// OutputHeader names the refined table columns.
var OutputHeader = append(append([]string(nil), inputHeader...), "unformatted")

// ErrTooShort indicates a table with fewer rows than the configured minimum.
var ErrTooShort = errors.New("table too short")

// Stats counts what Table did to one table.
type Stats struct {
	Rows         int
	Duplicates   int
	BadTimecodes int
	EmptyText    int
	Written      int
}

// Table reads a parsed table from r and writes the refined table to w.
// Tables with fewer than minRows data rows return ErrTooShort and write nothing.
func Table(r io.Reader, w io.Writer, minRows int) (Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(inputHeader)
	records, err := reader.ReadAll()
	if err != nil {
		return Stats{}, fmt.Errorf("read parsed table: %w", err)
	}
	if len(records) == 0 {
		return Stats{}, fmt.Errorf("read parsed table: missing header")
	}
	if !equalHeader(records[0], inputHeader) {
		return Stats{}, fmt.Errorf("read parsed table: unexpected header %v", records[0])
	}

	rows := records[1:]
	stats := Stats{Rows: len(rows)}
	if len(rows) < minRows {
		return stats, fmt.Errorf("%w: %d rows, need %d", ErrTooShort, len(rows), minRows)
	}

	lower := cases.Lower(language.Und)
	seen := make(map[string]struct{}, len(rows))
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		key := strings.Join(row, "\x00")
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		start, errStart := Seconds(row[0])
		end, errEnd := Seconds(row[1])
		if errStart != nil || errEnd != nil {
			stats.BadTimecodes++
			continue
		}
		text := lower.String(row[4])
		unformatted := strings.ReplaceAll(text, "|", "")
		if unformatted == "" {
			stats.EmptyText++
			continue
		}
		out = append(out, []string{
			formatSeconds(start),
			formatSeconds(end),
			row[2],
			row[3],
			text,
			unformatted,
		})
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(OutputHeader); err != nil {
		return stats, err
	}
	if err := writer.WriteAll(out); err != nil {
		return stats, fmt.Errorf("write refined table: %w", err)
	}
	stats.Written = len(out)
	return stats, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if strings.TrimSpace(strings.TrimPrefix(got[i], "\ufeff")) != want[i] {
			return false
		}
	}
	return true
}

// FileResult is the outcome of refining one parsed table.
type FileResult struct {
	Name    string
	Output  string
	Stats   Stats
	Skipped bool
	Err     error
}

// Summary aggregates a refine batch.
type Summary struct {
	Refined int
	Skipped int
	Failed  int
	Results []FileResult
}

// Refiner processes every parsed table in a directory.
type Refiner struct {
	inputDir  string
	outputDir string
	minRows   int
	logger    *slog.Logger
}

// New constructs a Refiner from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Refiner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Refiner{
		inputDir:  cfg.Paths.ParsedDir,
		outputDir: cfg.Paths.RefinedDir,
		minRows:   cfg.Refine.MinRows,
		logger:    logging.NewComponentLogger(logger, "refine"),
	}
}

// Run refines every `*.csv` in the parsed directory in name order.
func (r *Refiner) Run(ctx context.Context) (Summary, error) {
	ctx = logging.WithStage(ctx, "refine")
	logger := logging.WithContext(ctx, r.logger)

	entries, err := os.ReadDir(r.inputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("list %s: %w", r.inputDir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), ".csv") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var summary Summary
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result := r.refineOne(ctx, name)
		summary.Results = append(summary.Results, result)
		switch {
		case result.Skipped:
			summary.Skipped++
		case result.Err != nil:
			summary.Failed++
		default:
			summary.Refined++
		}
	}

	logger.Info("refine finished",
		logging.Args(
			logging.Int("refined", summary.Refined),
			logging.Int("skipped", summary.Skipped),
			logging.Int("failed", summary.Failed),
		)...,
	)
	return summary, nil
}

func (r *Refiner) refineOne(ctx context.Context, name string) FileResult {
	logger := logging.WithContext(logging.WithFile(ctx, name), r.logger)
	result := FileResult{Name: name}

	data, err := os.ReadFile(filepath.Join(r.inputDir, name))
	if err != nil {
		result.Err = err
		logging.ErrorWithContext(logger, "parsed table unreadable", "refine_failed", logging.Error(err))
		return result
	}

	var buf bytes.Buffer
	stats, err := Table(bytes.NewReader(data), &buf, r.minRows)
	result.Stats = stats
	if errors.Is(err, ErrTooShort) {
		result.Skipped = true
		logger.Info("parsed table skipped", logging.Args(logging.Int("rows", stats.Rows), logging.String(logging.FieldReason, "too_short"))...)
		return result
	}
	if err != nil {
		result.Err = err
		logging.ErrorWithContext(logger, "parsed table refine failed", "refine_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "rerun parse for this index"),
		)
		return result
	}
	if stats.BadTimecodes > 0 {
		logging.WarnWithContext(logger, "rows with invalid timecodes dropped", "refine_bad_timecode",
			logging.Int("dropped", stats.BadTimecodes),
		)
	}

	output := filepath.Join(r.outputDir, name)
	if err := fileutil.WriteFileAtomic(output, buf.Bytes(), 0o644); err != nil {
		result.Err = fmt.Errorf("write refined table %s: %w", output, err)
		logging.ErrorWithContext(logger, "refined table write failed", "refine_write_failed", logging.Error(result.Err))
		return result
	}
	result.Output = output
	logger.Debug("parsed table refined",
		logging.Args(
			logging.Int("rows", stats.Rows),
			logging.Int("written", stats.Written),
			logging.Int("duplicates", stats.Duplicates),
		)...,
	)
	return result
}
