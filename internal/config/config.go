package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations for every pipeline stage.
type Paths struct {
	DataDir     string `toml:"data_dir"`
	RawDir      string `toml:"raw_dir"`
	IndexedDir  string `toml:"indexed_dir"`
	ParsedDir   string `toml:"parsed_dir"`
	RefinedDir  string `toml:"refined_dir"`
	CatalogFile string `toml:"catalog_file"`
	JournalPath string `toml:"journal_path"`
	LogDir      string `toml:"log_dir"`
}

// Ingest contains configuration for pairing and relocating raw media.
type Ingest struct {
	CaptionExt        string `toml:"caption_ext"`
	VideoExt          string `toml:"video_ext"`
	JournalEnabled    bool   `toml:"journal_enabled"`
	AllowCopyFallback bool   `toml:"allow_copy_fallback"`
}

// Parse contains configuration for the caption-track parser.
type Parse struct {
	MetadataMarker string `toml:"metadata_marker"`
}

// Refine contains configuration for post-processing parsed tables.
type Refine struct {
	MinRows int `toml:"min_rows"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for karaokeds.
//
// Configuration sections by subsystem:
//   - Paths: intake, indexed, parsed, and refined layouts plus catalog/journal files
//   - Ingest: caption/video extensions, journal toggle, cross-device behavior
//   - Parse: caption-track grammar knobs
//   - Refine: post-processing thresholds
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Ingest  Ingest  `toml:"ingest"`
	Parse   Parse   `toml:"parse"`
	Refine  Refine  `toml:"refine"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("karaokeds.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates every directory the pipeline reads from or writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.RawDir,
		c.VideosDir(),
		c.TracksDir(),
		c.Paths.ParsedDir,
		c.Paths.RefinedDir,
		c.Paths.LogDir,
		filepath.Dir(c.Paths.CatalogFile),
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// VideosDir returns the indexed video directory.
func (c *Config) VideosDir() string {
	return filepath.Join(c.Paths.IndexedDir, "videos")
}

// TracksDir returns the indexed caption-track directory.
func (c *Config) TracksDir() string {
	return filepath.Join(c.Paths.IndexedDir, "vtts")
}

// LockPath returns the file used to serialize ingestion batches.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.IndexedDir, ".ingest.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
