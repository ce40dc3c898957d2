package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeIngest()
	c.normalizeParse()
	c.normalizeRefine()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}

	derived := []struct {
		key   string
		value *string
		base  string
		name  string
	}{
		{"paths.raw_dir", &c.Paths.RawDir, c.Paths.DataDir, "raw"},
		{"paths.indexed_dir", &c.Paths.IndexedDir, c.Paths.DataDir, "indexed"},
		{"paths.parsed_dir", &c.Paths.ParsedDir, c.Paths.DataDir, "parsed"},
		{"paths.refined_dir", &c.Paths.RefinedDir, c.Paths.DataDir, "refined"},
		{"paths.journal_path", &c.Paths.JournalPath, c.Paths.DataDir, defaultJournalName},
	}
	for _, entry := range derived {
		if strings.TrimSpace(*entry.value) == "" {
			*entry.value = filepath.Join(entry.base, entry.name)
		}
		if *entry.value, err = expandPath(*entry.value); err != nil {
			return fmt.Errorf("%s: %w", entry.key, err)
		}
	}

	// The catalog lives beside the indexed media unless placed elsewhere.
	if strings.TrimSpace(c.Paths.CatalogFile) == "" {
		c.Paths.CatalogFile = filepath.Join(c.Paths.IndexedDir, defaultCatalogName)
	}
	if c.Paths.CatalogFile, err = expandPath(c.Paths.CatalogFile); err != nil {
		return fmt.Errorf("paths.catalog_file: %w", err)
	}

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeIngest() {
	c.Ingest.CaptionExt = normalizeExt(c.Ingest.CaptionExt, defaultCaptionExt)
	c.Ingest.VideoExt = normalizeExt(c.Ingest.VideoExt, defaultVideoExt)
}

func (c *Config) normalizeParse() {
	c.Parse.MetadataMarker = strings.TrimSpace(c.Parse.MetadataMarker)
	if c.Parse.MetadataMarker == "" {
		c.Parse.MetadataMarker = defaultMetadataMarker
	}
}

func (c *Config) normalizeRefine() {
	if c.Refine.MinRows == 0 {
		c.Refine.MinRows = defaultRefineMinRows
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeExt(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.TrimPrefix(value, ".")
	if value == "" {
		return fallback
	}
	return value
}
