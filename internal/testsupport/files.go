package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"karaokeds/internal/config"
	"karaokeds/internal/journal"
)

// SampleTrack is a minimal caption track with one styled cue.
const SampleTrack = "WEBVTT\n" +
	"Kind: captions\n" +
	"\n" +
	"::cue(c.red) { color: red }\n" +
	"\n" +
	"##\n" +
	"\n" +
	"00:00:01.000 --> 00:00:03.000 position:50% line:80%\n" +
	"Hello <c.red>world</c>\n" +
	"\n"

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteIntakePair places a caption track and its video sibling in the raw
// directory of cfg and returns the caption file name.
func WriteIntakePair(t testing.TB, cfg *config.Config, title, sourceID, language string) string {
	t.Helper()

	stem := fmt.Sprintf("%s [%s]", title, sourceID)
	caption := fmt.Sprintf("%s.%s.%s", stem, language, cfg.Ingest.CaptionExt)
	WriteFile(t, filepath.Join(cfg.Paths.RawDir, caption), SampleTrack)
	WriteFile(t, filepath.Join(cfg.Paths.RawDir, stem+"."+cfg.Ingest.VideoExt), "video:"+sourceID)
	return caption
}

// MustOpenJournal opens the journal configured by cfg and closes it on cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg.Paths.JournalPath)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
