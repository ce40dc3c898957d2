package extract_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"karaokeds/internal/extract"
	"karaokeds/internal/testsupport"
	"karaokeds/internal/vtt"
)

func TestRunWritesTablesAndContinuesPastMalformedTrack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, filepath.Join(cfg.TracksDir(), "0.vtt"), testsupport.SampleTrack)
	testsupport.WriteFile(t, filepath.Join(cfg.TracksDir(), "1.vtt"), "##\n00:00:01.000\n00:00:02.000 -->\nbroken\n\n")
	testsupport.WriteFile(t, filepath.Join(cfg.TracksDir(), "10.vtt"), "##\n00:00:05.000 --> 00:00:06.000\nlast\n\n")
	testsupport.WriteFile(t, filepath.Join(cfg.TracksDir(), "notes.vtt"), "ignored")

	ex := extract.New(cfg, nil)
	summary, err := ex.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Parsed != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := []int{summary.Results[0].Index, summary.Results[1].Index, summary.Results[2].Index}; got[0] != 0 || got[1] != 1 || got[2] != 10 {
		t.Fatalf("unexpected order: %v", got)
	}
	if !errors.Is(summary.Results[1].Err, vtt.ErrMalformedTiming) {
		t.Fatalf("expected malformed timing for index 1, got %v", summary.Results[1].Err)
	}

	data, err := os.ReadFile(ex.OutputPath(0))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "start,end,position,line,text\n00:00:01.000,00:00:03.000,50,80,\"Hello<1>world</c>\"\n"
	if string(data) != want {
		t.Fatalf("table = %q, want %q", data, want)
	}
	if _, err := os.Stat(ex.OutputPath(1)); !os.IsNotExist(err) {
		t.Fatalf("malformed track must not produce a table, stat err=%v", err)
	}
	if _, err := os.Stat(ex.OutputPath(10)); err != nil {
		t.Fatalf("expected table for index 10: %v", err)
	}
	if summary.Results[0].Styles != 1 || summary.Results[0].Cues != 1 {
		t.Fatalf("unexpected counts: %+v", summary.Results[0])
	}
}

func TestRunEmptyTracksDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	summary, err := extract.New(cfg, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Parsed != 0 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
