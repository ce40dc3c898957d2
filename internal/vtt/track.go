package vtt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineBytes = 1 << 20

// ReadLines splits r into lines with trailing CR removed.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read caption track: %w", err)
	}
	return lines, nil
}

// Track is a parsed caption track.
type Track struct {
	Dictionary *Dictionary
	Cues       []Cue
}

// ParseTrack reads r fully and runs both passes over its lines.
func ParseTrack(r io.Reader, opts Options) (Track, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return Track{}, err
	}
	dict := BuildDictionary(lines)
	cues, err := Parse(lines, dict, opts)
	if err != nil {
		return Track{Dictionary: dict}, err
	}
	return Track{Dictionary: dict, Cues: cues}, nil
}
