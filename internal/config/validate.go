package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateParse(); err != nil {
		return err
	}
	if err := c.validateRefine(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.CaptionExt == "" {
		return errors.New("ingest.caption_ext must be set")
	}
	if c.Ingest.VideoExt == "" {
		return errors.New("ingest.video_ext must be set")
	}
	if c.Ingest.CaptionExt == c.Ingest.VideoExt {
		return fmt.Errorf("ingest.caption_ext and ingest.video_ext must differ (both %q)", c.Ingest.CaptionExt)
	}
	for key, value := range map[string]string{
		"ingest.caption_ext": c.Ingest.CaptionExt,
		"ingest.video_ext":   c.Ingest.VideoExt,
	} {
		if strings.ContainsAny(value, `/\`) {
			return fmt.Errorf("%s must not contain path separators", key)
		}
	}
	return nil
}

func (c *Config) validateParse() error {
	if strings.TrimSpace(c.Parse.MetadataMarker) == "" {
		return errors.New("parse.metadata_marker must be set")
	}
	return nil
}

func (c *Config) validateRefine() error {
	if c.Refine.MinRows < 1 {
		return errors.New("refine.min_rows must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
