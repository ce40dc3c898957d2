package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"karaokeds/internal/catalog"
	"karaokeds/internal/config"
	"karaokeds/internal/fileutil"
	"karaokeds/internal/journal"
	"karaokeds/internal/language"
	"karaokeds/internal/logging"
	"karaokeds/internal/pairing"
	"karaokeds/internal/relocate"
)

// ErrLocked indicates another batch holds the ingestion lock.
var ErrLocked = errors.New("another ingestion batch is running")

// Recorder persists attempt outcomes.
type Recorder interface {
	Record(ctx context.Context, attempt journal.Attempt) error
}

// Result is the terminal state of one discovered caption file.
type Result struct {
	File    string
	Outcome journal.Outcome
	Reason  Reason
	// Index is the catalog index written for the file, or -1 when no row was appended.
	Index int
	Err   error
}

// Summary aggregates a batch.
type Summary struct {
	BatchID    string
	StartIndex int
	NextIndex  int
	Advanced   int
	Skipped    int
	Errored    int
	Results    []Result
}

// Runner executes ingestion batches for one configuration.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	recorder  Recorder
	catalog   *catalog.Store
	locator   pairing.Locator
	relocator *relocate.Relocator
	newID     func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithRecorder journals every non-silent attempt.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithMove overrides the relocator's file move.
func WithMove(move relocate.MoveFunc) Option {
	return func(r *Runner) { r.relocator.Move = move }
}

// WithExists overrides the video existence predicate.
func WithExists(exists pairing.ExistsFunc) Option {
	return func(r *Runner) { r.locator.Exists = exists }
}

// NewRunner constructs a Runner from configuration.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "ingest"),
		catalog: catalog.Open(cfg.Paths.CatalogFile),
		locator: pairing.Locator{
			Dir:        cfg.Paths.RawDir,
			CaptionExt: cfg.Ingest.CaptionExt,
			VideoExt:   cfg.Ingest.VideoExt,
		},
		relocator: &relocate.Relocator{
			VideosDir:  cfg.VideosDir(),
			TracksDir:  cfg.TracksDir(),
			VideoExt:   cfg.Ingest.VideoExt,
			CaptionExt: cfg.Ingest.CaptionExt,
			AllowCopy:  cfg.Ingest.AllowCopyFallback,
		},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes every file in the intake directory once. Per-file failures
// are reported in the summary; only a corrupt catalog, a held lock, an
// unreadable intake directory, or cancellation abort the batch.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	summary := Summary{BatchID: r.newID()}
	ctx = logging.WithBatchID(ctx, summary.BatchID)
	ctx = logging.WithStage(ctx, "ingest")
	logger := logging.WithContext(ctx, r.logger)

	if err := r.cfg.EnsureDirectories(); err != nil {
		return summary, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(r.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return summary, fmt.Errorf("%w (lock %s)", ErrLocked, r.cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release ingest lock", logging.Args(logging.Error(err))...)
		}
	}()

	r.checkDevices(logger)

	next, err := r.catalog.Initialize()
	if err != nil {
		logging.ErrorWithContext(logger, "catalog unusable; batch aborted", "catalog_corrupt",
			logging.String("catalog", r.catalog.Path()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "repair the last catalog row before rerunning"),
		)
		return summary, err
	}
	summary.StartIndex = next
	summary.NextIndex = next

	names, err := listFiles(r.cfg.Paths.RawDir)
	if err != nil {
		return summary, err
	}
	logger.Info("ingest batch started",
		logging.Args(
			logging.Int("next_index", next),
			logging.Int("candidates", len(names)),
			logging.Bool("copy_fallback", r.cfg.Ingest.AllowCopyFallback),
		)...,
	)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			logger.Warn("ingest batch cancelled", logging.Args(logging.Int("next_index", summary.NextIndex))...)
			return summary, err
		}
		result, silent := r.process(ctx, name, summary.NextIndex)
		if silent {
			continue
		}
		switch result.Outcome {
		case journal.OutcomeAdvanced:
			summary.Advanced++
			summary.NextIndex++
		case journal.OutcomeSkipped:
			summary.Skipped++
		case journal.OutcomeErrored:
			summary.Errored++
		}
		summary.Results = append(summary.Results, result)
	}

	logger.Info("ingest batch finished",
		logging.Args(
			logging.Int("advanced", summary.Advanced),
			logging.Int("skipped", summary.Skipped),
			logging.Int("errored", summary.Errored),
			logging.Int("next_index", summary.NextIndex),
			logging.Duration("duration", time.Since(started)),
		)...,
	)
	return summary, nil
}

// process runs locate, append, and relocate for one file. The second return
// is true for files that are not caption tracks at all.
func (r *Runner) process(ctx context.Context, name string, index int) (Result, bool) {
	ctx = logging.WithFile(ctx, name)
	logger := logging.WithContext(ctx, r.logger)

	pair, err := r.locator.Locate(name)
	if errors.Is(err, pairing.ErrNotCaption) {
		return Result{}, true
	}
	if err != nil {
		outcome := journal.OutcomeSkipped
		if ReasonFor(err) == ReasonLocateFailed {
			outcome = journal.OutcomeErrored
		}
		result := Result{File: name, Outcome: outcome, Reason: ReasonFor(err), Index: -1, Err: err}
		r.report(ctx, logger, result, pairing.Name{})
		return result, false
	}

	if info := language.Describe(pair.Language); !info.Valid {
		logger.Debug("caption language is not a BCP 47 tag",
			logging.Args(
				logging.String("language", pair.Language),
				logging.String("base", info.Base),
			)...,
		)
	}

	// An occupied slot means an earlier relocation stranded a file at index;
	// appending would only add another orphan row.
	if err := r.relocator.Available(index); err != nil {
		result := Result{File: name, Outcome: journal.OutcomeErrored, Reason: ReasonFor(err), Index: -1, Err: err}
		r.report(ctx, logger, result, pair.Name)
		return result, false
	}

	entry := catalog.Entry{Index: index, Title: pair.Title, SourceID: pair.SourceID, Language: pair.Language}
	if err := r.catalog.Append(entry); err != nil {
		result := Result{File: name, Outcome: journal.OutcomeErrored, Reason: ReasonFor(err), Index: -1, Err: err}
		r.report(ctx, logger, result, pair.Name)
		return result, false
	}

	if err := r.relocator.Relocate(index, pair); err != nil {
		result := Result{File: name, Outcome: journal.OutcomeErrored, Reason: ReasonFor(err), Index: index, Err: err}
		r.report(ctx, logger, result, pair.Name)
		return result, false
	}

	result := Result{File: name, Outcome: journal.OutcomeAdvanced, Index: index}
	r.report(ctx, logger, result, pair.Name)
	return result, false
}

func (r *Runner) report(ctx context.Context, logger *slog.Logger, result Result, name pairing.Name) {
	var attrs []logging.Attr
	if result.Index >= 0 {
		attrs = append(attrs, logging.Int(logging.FieldIndex, result.Index))
	}
	if result.Reason != ReasonNone {
		attrs = append(attrs, logging.String(logging.FieldReason, string(result.Reason)))
	}
	if result.Err != nil {
		attrs = append(attrs,
			logging.Error(result.Err),
			logging.String(logging.FieldErrorHint, hintFor(result.Reason, result.Err)),
		)
	}

	switch result.Outcome {
	case journal.OutcomeAdvanced:
		logger.Info("pair indexed", logging.Args(append(attrs,
			logging.String("title", name.Title),
			logging.String("source_id", name.SourceID),
			logging.String("language", name.Language),
		)...)...)
	case journal.OutcomeSkipped:
		logging.WarnWithContext(logger, "caption skipped", "ingest_skipped", attrs...)
	default:
		logging.ErrorWithContext(logger, "caption ingest failed", "ingest_failed", attrs...)
	}

	if r.recorder == nil {
		return
	}
	attempt := journal.Attempt{
		BatchID:  batchID(ctx),
		FileName: result.File,
		Outcome:  result.Outcome,
		Reason:   string(result.Reason),
		Title:    name.Title,
		SourceID: name.SourceID,
		Language: name.Language,
	}
	if result.Index >= 0 {
		idx := result.Index
		attempt.Index = &idx
	}
	if result.Err != nil {
		attempt.Detail = result.Err.Error()
	}
	if err := r.recorder.Record(ctx, attempt); err != nil {
		logger.Warn("failed to journal attempt", logging.Args(logging.Error(err))...)
	}
}

// checkDevices warns when relocation will need the copy fallback.
func (r *Runner) checkDevices(logger *slog.Logger) {
	same, err := fileutil.SameDevice(r.cfg.Paths.RawDir, r.cfg.Paths.IndexedDir)
	if err != nil {
		logger.Debug("filesystem preflight skipped", logging.Args(logging.Error(err))...)
		return
	}
	if same {
		return
	}
	if r.cfg.Ingest.AllowCopyFallback {
		logger.Info("raw and indexed directories are on different filesystems; relocations will copy")
		return
	}
	logging.WarnWithContext(logger, "raw and indexed directories are on different filesystems", "ingest_cross_device",
		logging.String("raw_dir", r.cfg.Paths.RawDir),
		logging.String("indexed_dir", r.cfg.Paths.IndexedDir),
		logging.String(logging.FieldErrorHint, "set ingest.allow_copy_fallback = true or move the directories onto one filesystem"),
	)
}

func batchID(ctx context.Context) string {
	id, _ := logging.BatchIDFromContext(ctx)
	return id
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list intake directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
