package config

const (
	defaultConfigPath     = "~/.config/karaokeds/config.toml"
	defaultDataDir        = "~/.local/share/karaokeds/data"
	defaultLogDir         = "~/.local/share/karaokeds/logs"
	defaultCatalogName    = "index.tsv"
	defaultJournalName    = "journal.db"
	defaultCaptionExt     = "vtt"
	defaultVideoExt       = "webm"
	defaultMetadataMarker = "##"
	defaultRefineMinRows  = 3
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults. Paths derived
// from the data directory are left empty and filled in during normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Ingest: Ingest{
			CaptionExt:     defaultCaptionExt,
			VideoExt:       defaultVideoExt,
			JournalEnabled: true,
		},
		Parse: Parse{
			MetadataMarker: defaultMetadataMarker,
		},
		Refine: Refine{
			MinRows: defaultRefineMinRows,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
