package testsupport

import (
	"path/filepath"
	"testing"

	"karaokeds/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Every directory it names is created before returning.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	data := filepath.Join(base, "data")
	cfgVal := config.Default()
	cfgVal.Paths = config.Paths{
		DataDir:     data,
		RawDir:      filepath.Join(data, "raw"),
		IndexedDir:  filepath.Join(data, "indexed"),
		ParsedDir:   filepath.Join(data, "parsed"),
		RefinedDir:  filepath.Join(data, "refined"),
		CatalogFile: filepath.Join(data, "indexed", "index.tsv"),
		JournalPath: filepath.Join(data, "journal.db"),
		LogDir:      filepath.Join(base, "logs"),
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithoutJournal disables attempt journaling on the test config.
func WithoutJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ingest.JournalEnabled = false
	}
}

// WithCopyFallback enables the cross-device copy fallback on the test config.
func WithCopyFallback() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ingest.AllowCopyFallback = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
