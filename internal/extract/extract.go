package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"karaokeds/internal/config"
	"karaokeds/internal/fileutil"
	"karaokeds/internal/logging"
	"karaokeds/internal/vtt"
)

// TrackResult is the outcome of parsing one indexed track.
type TrackResult struct {
	Index  int
	Source string
	Output string
	Cues   int
	Styles int
	Err    error
}

// Summary aggregates an extract batch.
type Summary struct {
	Parsed  int
	Failed  int
	Results []TrackResult
}

// Extractor parses indexed tracks into cue tables.
type Extractor struct {
	tracksDir  string
	outputDir  string
	captionExt string
	opts       vtt.Options
	logger     *slog.Logger
}

// New constructs an Extractor from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{
		tracksDir:  cfg.TracksDir(),
		outputDir:  cfg.Paths.ParsedDir,
		captionExt: cfg.Ingest.CaptionExt,
		opts:       vtt.Options{Marker: cfg.Parse.MetadataMarker},
		logger:     logging.NewComponentLogger(logger, "extract"),
	}
}

// OutputPath returns the table location for index.
func (e *Extractor) OutputPath(index int) string {
	return filepath.Join(e.outputDir, strconv.Itoa(index)+".csv")
}

// Run parses every `<index>.<caption_ext>` track in ascending index order.
func (e *Extractor) Run(ctx context.Context) (Summary, error) {
	ctx = logging.WithStage(ctx, "extract")
	logger := logging.WithContext(ctx, e.logger)

	indices, err := indexedFiles(e.tracksDir, e.captionExt)
	if err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create parsed directory: %w", err)
	}

	var summary Summary
	for _, index := range indices {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result := e.parseOne(ctx, index)
		summary.Results = append(summary.Results, result)
		if result.Err != nil {
			summary.Failed++
			continue
		}
		summary.Parsed++
	}

	logger.Info("extract finished",
		logging.Args(
			logging.Int("parsed", summary.Parsed),
			logging.Int("failed", summary.Failed),
		)...,
	)
	return summary, nil
}

func (e *Extractor) parseOne(ctx context.Context, index int) TrackResult {
	source := filepath.Join(e.tracksDir, strconv.Itoa(index)+"."+e.captionExt)
	result := TrackResult{Index: index, Source: source}
	logger := logging.WithContext(logging.WithFile(ctx, filepath.Base(source)), e.logger).
		With(logging.Args(logging.Int(logging.FieldIndex, index))...)

	opts := e.opts
	opts.OnUnknownSetting = func(line int, setting string) {
		logger.Debug("cue setting ignored", logging.Args(logging.Int("line", line), logging.String("setting", setting))...)
	}

	track, err := parseFile(source, opts)
	if err != nil {
		result.Err = err
		logging.ErrorWithContext(logger, "caption track parse failed", "parse_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix the cue timing line and rerun parse"),
		)
		return result
	}
	result.Cues = len(track.Cues)
	result.Styles = track.Dictionary.Len()

	output := e.OutputPath(index)
	if err := fileutil.WriteFileAtomic(output, vtt.EncodeTable(track.Cues), 0o644); err != nil {
		result.Err = fmt.Errorf("write table %s: %w", output, err)
		logging.ErrorWithContext(logger, "cue table write failed", "parse_write_failed", logging.Error(result.Err))
		return result
	}
	result.Output = output
	logger.Debug("caption track parsed",
		logging.Args(
			logging.Int("cues", result.Cues),
			logging.Int("styles", result.Styles),
		)...,
	)
	return result
}

func parseFile(path string, opts vtt.Options) (vtt.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return vtt.Track{}, err
	}
	defer f.Close()
	return vtt.ParseTrack(f, opts)
}

// indexedFiles lists `<digits>.<ext>` names in dir as sorted indices.
func indexedFiles(dir, ext string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	suffix := "." + ext
	var indices []int
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		stem, ok := strings.CutSuffix(entry.Name(), suffix)
		if !ok || stem == "" || strings.TrimLeft(stem, "0123456789") != "" {
			continue
		}
		index, err := strconv.Atoi(stem)
		if err != nil {
			continue
		}
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices, nil
}
