package pairing_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"karaokeds/internal/pairing"
)

func TestLocateFindsVideoSibling(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"My Song [abc].en.vtt", "My Song [abc].webm"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	locator := pairing.Locator{Dir: dir, CaptionExt: "vtt", VideoExt: "webm"}

	pair, err := locator.Locate("My Song [abc].en.vtt")
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if pair.Title != "My Song" || pair.SourceID != "abc" || pair.Language != "en" {
		t.Fatalf("unexpected pair %+v", pair)
	}
	if pair.VideoPath != filepath.Join(dir, "My Song [abc].webm") {
		t.Fatalf("unexpected video path %q", pair.VideoPath)
	}
	if pair.CaptionPath != filepath.Join(dir, "My Song [abc].en.vtt") {
		t.Fatalf("unexpected caption path %q", pair.CaptionPath)
	}
}

func TestLocateReportsMissingVideo(t *testing.T) {
	dir := t.TempDir()
	locator := pairing.Locator{Dir: dir, CaptionExt: "vtt", VideoExt: "webm"}
	if _, err := locator.Locate("My Song [abc].en.vtt"); !errors.Is(err, pairing.ErrVideoMissing) {
		t.Fatalf("expected ErrVideoMissing, got %v", err)
	}
}

func TestLocateIgnoresDirectoryNamedLikeVideo(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "My Song [abc].webm"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	locator := pairing.Locator{Dir: dir, CaptionExt: "vtt", VideoExt: "webm"}
	if _, err := locator.Locate("My Song [abc].en.vtt"); !errors.Is(err, pairing.ErrVideoMissing) {
		t.Fatalf("expected ErrVideoMissing, got %v", err)
	}
}

func TestLocateUsesExistsPredicate(t *testing.T) {
	var checked string
	locator := pairing.Locator{
		Dir:        "/intake",
		CaptionExt: "vtt",
		VideoExt:   "mp4",
		Exists: func(path string) (bool, error) {
			checked = path
			return true, nil
		},
	}
	if _, err := locator.Locate("Song [id].en.vtt"); err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if checked != filepath.Join("/intake", "Song [id].mp4") {
		t.Fatalf("unexpected checked path %q", checked)
	}

	locator.Exists = func(string) (bool, error) { return false, errors.New("stat failed") }
	_, err := locator.Locate("Song [id].en.vtt")
	if err == nil || errors.Is(err, pairing.ErrVideoMissing) {
		t.Fatalf("expected predicate error, got %v", err)
	}
}

func TestLocatePropagatesGrammarErrors(t *testing.T) {
	locator := pairing.Locator{Dir: t.TempDir(), CaptionExt: "vtt", VideoExt: "webm"}
	if _, err := locator.Locate("Song.webm"); !errors.Is(err, pairing.ErrNotCaption) {
		t.Fatalf("expected ErrNotCaption, got %v", err)
	}
	if _, err := locator.Locate("Song.en.vtt"); !errors.Is(err, pairing.ErrUnparseableName) {
		t.Fatalf("expected ErrUnparseableName, got %v", err)
	}
}
