package catalog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// Pair identifies one ingested media pair independent of its index.
type Pair struct {
	Title    string
	SourceID string
	Language string
}

// Layout describes where indexed files are expected for a catalog row.
type Layout struct {
	VideosDir  string
	TracksDir  string
	VideoExt   string
	CaptionExt string
}

// VideoPath returns the indexed video location for index.
func (l Layout) VideoPath(index int) string {
	return filepath.Join(l.VideosDir, strconv.Itoa(index)+"."+l.VideoExt)
}

// TrackPath returns the indexed caption-track location for index.
func (l Layout) TrackPath(index int) string {
	return filepath.Join(l.TracksDir, strconv.Itoa(index)+"."+l.CaptionExt)
}

// Orphan is a catalog row whose indexed files are incomplete.
type Orphan struct {
	Entry        Entry
	VideoMissing bool
	TrackMissing bool
}

// Report summarizes catalog inconsistencies.
type Report struct {
	Rows             int
	DuplicateIndices map[int]int
	DuplicatePairs   map[Pair][]int
	Orphans          []Orphan
}

// Clean reports whether no inconsistency was found.
func (r Report) Clean() bool {
	return len(r.DuplicateIndices) == 0 && len(r.DuplicatePairs) == 0 && len(r.Orphans) == 0
}

// Verify checks entries for duplicate indices, repeated pairs, and rows whose
// indexed files are missing. A row pointing at files that were never moved is
// the footprint of a relocation that failed (or never ran) after its append.
func Verify(entries []Entry, layout Layout) (Report, error) {
	report := Report{
		Rows:             len(entries),
		DuplicateIndices: make(map[int]int),
		DuplicatePairs:   make(map[Pair][]int),
	}

	indexCounts := make(map[int]int, len(entries))
	pairIndices := make(map[Pair][]int, len(entries))
	for _, entry := range entries {
		indexCounts[entry.Index]++
		key := Pair{Title: entry.Title, SourceID: entry.SourceID, Language: entry.Language}
		pairIndices[key] = append(pairIndices[key], entry.Index)
	}
	for index, count := range indexCounts {
		if count > 1 {
			report.DuplicateIndices[index] = count
		}
	}
	for key, indices := range pairIndices {
		if len(indices) > 1 {
			report.DuplicatePairs[key] = indices
		}
	}

	checked := make(map[int]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := checked[entry.Index]; ok {
			continue
		}
		checked[entry.Index] = struct{}{}
		videoOK, err := fileExists(layout.VideoPath(entry.Index))
		if err != nil {
			return Report{}, err
		}
		trackOK, err := fileExists(layout.TrackPath(entry.Index))
		if err != nil {
			return Report{}, err
		}
		if !videoOK || !trackOK {
			report.Orphans = append(report.Orphans, Orphan{Entry: entry, VideoMissing: !videoOK, TrackMissing: !trackOK})
		}
	}
	return report, nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.Mode().IsRegular(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
