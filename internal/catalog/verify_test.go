package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"karaokeds/internal/catalog"
)

func testLayout(t *testing.T) catalog.Layout {
	t.Helper()
	base := t.TempDir()
	layout := catalog.Layout{
		VideosDir:  filepath.Join(base, "videos"),
		TracksDir:  filepath.Join(base, "vtts"),
		VideoExt:   "webm",
		CaptionExt: "vtt",
	}
	for _, dir := range []string{layout.VideosDir, layout.TracksDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return layout
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestVerifyCleanCatalog(t *testing.T) {
	layout := testLayout(t)
	entries := []catalog.Entry{
		{Index: 0, Title: "A", SourceID: "a", Language: "en"},
		{Index: 1, Title: "B", SourceID: "b", Language: "en"},
	}
	for _, e := range entries {
		touch(t, layout.VideoPath(e.Index))
		touch(t, layout.TrackPath(e.Index))
	}

	report, err := catalog.Verify(entries, layout)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("expected clean report, got %+v", report)
	}
	if report.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", report.Rows)
	}
}

func TestVerifyDetectsDuplicateRowsAndOrphans(t *testing.T) {
	layout := testLayout(t)
	// Index 1 was appended, its relocation failed, and the next pair reused
	// the same index; a later re-run appended the first pair again at 2.
	entries := []catalog.Entry{
		{Index: 0, Title: "A", SourceID: "a", Language: "en"},
		{Index: 1, Title: "B", SourceID: "b", Language: "en"},
		{Index: 1, Title: "C", SourceID: "c", Language: "en"},
		{Index: 2, Title: "B", SourceID: "b", Language: "en"},
		{Index: 3, Title: "D", SourceID: "d", Language: "en"},
	}
	for _, index := range []int{0, 1, 2} {
		touch(t, layout.VideoPath(index))
		touch(t, layout.TrackPath(index))
	}
	touch(t, layout.VideoPath(3))

	report, err := catalog.Verify(entries, layout)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if report.Clean() {
		t.Fatal("expected findings")
	}
	if got := report.DuplicateIndices[1]; got != 2 {
		t.Fatalf("expected index 1 duplicated twice, got %d", got)
	}
	indices := report.DuplicatePairs[catalog.Pair{Title: "B", SourceID: "b", Language: "en"}]
	if len(indices) != 2 || indices[0] != 1 || indices[1] != 2 {
		t.Fatalf("unexpected duplicate pair indices %v", indices)
	}
	if len(report.Orphans) != 1 {
		t.Fatalf("expected one orphan, got %+v", report.Orphans)
	}
	orphan := report.Orphans[0]
	if orphan.Entry.Index != 3 || orphan.VideoMissing || !orphan.TrackMissing {
		t.Fatalf("unexpected orphan %+v", orphan)
	}
}
