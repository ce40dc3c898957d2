package refine_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"karaokeds/internal/refine"
	"karaokeds/internal/testsupport"
)

const parsedTable = `start,end,position,line,text
00:00:01.000,00:00:03.000,50,80,"Hello<1>World</c>"
00:00:01.000,00:00:03.000,50,80,"Hello<1>World</c>"
00:01:02.500,00:01:04.250,-1,-1,"ÉCOLE"
01:00:00.000,01:00:01.001,-1,10,""
bad,00:00:02.000,-1,-1,"x"
`

func TestTable(t *testing.T) {
	var out bytes.Buffer
	stats, err := refine.Table(strings.NewReader(parsedTable), &out, 3)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	want := "start,end,position,line,text,unformatted\n" +
		"1.000,3.000,50,80,hello<1>world</c>,hello<1>world</c>\n" +
		"62.500,64.250,-1,-1,école,école\n"
	if out.String() != want {
		t.Fatalf("refined = %q, want %q", out.String(), want)
	}
	if stats.Rows != 5 || stats.Duplicates != 1 || stats.EmptyText != 1 || stats.BadTimecodes != 1 || stats.Written != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestTableUnformattedDropsPipes(t *testing.T) {
	src := "start,end,position,line,text\n" +
		"00:01.000,00:02.000,-1,-1,\"a|b\"\n" +
		"00:02.000,00:03.000,-1,-1,\"|\"\n"
	var out bytes.Buffer
	if _, err := refine.Table(strings.NewReader(src), &out, 1); err != nil {
		t.Fatalf("Table: %v", err)
	}
	want := "start,end,position,line,text,unformatted\n1.000,2.000,-1,-1,a|b,ab\n"
	if out.String() != want {
		t.Fatalf("refined = %q, want %q", out.String(), want)
	}
}

func TestTableTooShort(t *testing.T) {
	src := "start,end,position,line,text\n00:00:01.000,00:00:02.000,-1,-1,\"a\"\n"
	var out bytes.Buffer
	_, err := refine.Table(strings.NewReader(src), &out, 3)
	if !errors.Is(err, refine.ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestTableRejectsUnexpectedHeader(t *testing.T) {
	if _, err := refine.Table(strings.NewReader("a,b,c,d,e\n"), &bytes.Buffer{}, 0); err == nil {
		t.Fatal("expected header error")
	}
}

func TestSeconds(t *testing.T) {
	cases := map[string]float64{
		"00:00:01.000":  1,
		"00:01.500":     1.5,
		"01:02:03.0049": 3723.005,
		"10:00:00":      36000,
	}
	for in, want := range cases {
		got, err := refine.Seconds(in)
		if err != nil {
			t.Fatalf("Seconds(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Seconds(%q) = %v, want %v", in, got, want)
		}
	}
	for _, bad := range []string{"", "12", "a:b", "00:61.000", "1:2:3:4", "-1:00.000"} {
		if _, err := refine.Seconds(bad); err == nil {
			t.Fatalf("Seconds(%q) expected error", bad)
		}
	}
}

func TestRunRefinesDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.ParsedDir, "0.csv"), parsedTable)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.ParsedDir, "1.csv"), "start,end,position,line,text\n")
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.ParsedDir, "2.csv"), "garbage\n")

	summary, err := refine.New(cfg, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Refined != 1 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.RefinedDir, "0.csv")); err != nil {
		t.Fatalf("expected refined output: %v", err)
	}
	for _, name := range []string{"1.csv", "2.csv"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.RefinedDir, name)); !os.IsNotExist(err) {
			t.Fatalf("expected no output for %s, stat err=%v", name, err)
		}
	}
}
