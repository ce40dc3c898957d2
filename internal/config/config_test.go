package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"karaokeds/internal/config"
)

func TestLoadDefaultConfigExpandsDerivedPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	chdirForTest(t, t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	dataDir := filepath.Join(tempHome, ".local", "share", "karaokeds", "data")
	if cfg.Paths.DataDir != dataDir {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, dataDir)
	}
	checks := map[string]string{
		"raw":     cfg.Paths.RawDir,
		"indexed": cfg.Paths.IndexedDir,
		"parsed":  cfg.Paths.ParsedDir,
		"refined": cfg.Paths.RefinedDir,
	}
	for name, got := range checks {
		if want := filepath.Join(dataDir, name); got != want {
			t.Fatalf("unexpected %s dir: got %q want %q", name, got, want)
		}
	}
	if want := filepath.Join(dataDir, "indexed", "index.tsv"); cfg.Paths.CatalogFile != want {
		t.Fatalf("unexpected catalog file: got %q want %q", cfg.Paths.CatalogFile, want)
	}
	if want := filepath.Join(dataDir, "journal.db"); cfg.Paths.JournalPath != want {
		t.Fatalf("unexpected journal path: got %q want %q", cfg.Paths.JournalPath, want)
	}
	if cfg.Ingest.CaptionExt != "vtt" || cfg.Ingest.VideoExt != "webm" {
		t.Fatalf("unexpected extensions: %q %q", cfg.Ingest.CaptionExt, cfg.Ingest.VideoExt)
	}
	if !cfg.Ingest.JournalEnabled {
		t.Fatal("expected journal enabled by default")
	}
	if cfg.Ingest.AllowCopyFallback {
		t.Fatal("expected copy fallback disabled by default")
	}
	if cfg.Parse.MetadataMarker != "##" {
		t.Fatalf("unexpected metadata marker %q", cfg.Parse.MetadataMarker)
	}
	if cfg.Refine.MinRows != 3 {
		t.Fatalf("unexpected refine min rows %d", cfg.Refine.MinRows)
	}
	if cfg.VideosDir() != filepath.Join(cfg.Paths.IndexedDir, "videos") {
		t.Fatalf("unexpected videos dir %q", cfg.VideosDir())
	}
	if cfg.TracksDir() != filepath.Join(cfg.Paths.IndexedDir, "vtts") {
		t.Fatalf("unexpected tracks dir %q", cfg.TracksDir())
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
data_dir = "~/karaoke"
parsed_dir = "~/elsewhere/parsed"

[ingest]
caption_ext = ".VTT"
video_ext = " mkv "
journal_enabled = false

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if want := filepath.Join(tempHome, "karaoke", "raw"); cfg.Paths.RawDir != want {
		t.Fatalf("unexpected raw dir: got %q want %q", cfg.Paths.RawDir, want)
	}
	if want := filepath.Join(tempHome, "elsewhere", "parsed"); cfg.Paths.ParsedDir != want {
		t.Fatalf("unexpected parsed dir: got %q want %q", cfg.Paths.ParsedDir, want)
	}
	if cfg.Ingest.CaptionExt != "vtt" {
		t.Fatalf("expected caption ext normalized to vtt, got %q", cfg.Ingest.CaptionExt)
	}
	if cfg.Ingest.VideoExt != "mkv" {
		t.Fatalf("expected video ext normalized to mkv, got %q", cfg.Ingest.VideoExt)
	}
	if cfg.Ingest.JournalEnabled {
		t.Fatal("expected journal disabled")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"same extensions", func(c *config.Config) { c.Ingest.VideoExt = c.Ingest.CaptionExt }, "must differ"},
		{"empty caption ext", func(c *config.Config) { c.Ingest.CaptionExt = "" }, "caption_ext"},
		{"separator in ext", func(c *config.Config) { c.Ingest.VideoExt = "a/b" }, "path separators"},
		{"empty marker", func(c *config.Config) { c.Parse.MetadataMarker = " " }, "metadata_marker"},
		{"negative rows", func(c *config.Config) { c.Refine.MinRows = -1 }, "min_rows"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestEnsureDirectoriesCreatesLayout(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	path := filepath.Join(t.TempDir(), "config.toml")
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loaded, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := loaded.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{loaded.Paths.RawDir, loaded.VideosDir(), loaded.TracksDir(), loaded.Paths.ParsedDir, loaded.Paths.RefinedDir, loaded.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Ingest.CaptionExt != "vtt" {
		t.Fatalf("unexpected caption ext %q", cfg.Ingest.CaptionExt)
	}
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("chdirForTest: restoring working directory: " + err.Error())
		}
	})
}
