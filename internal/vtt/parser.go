package vtt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Unset marks a position or line percentage that no cue setting provided.
const Unset = -1

// DefaultMarker opens the cue region of a track.
const DefaultMarker = "##"

const timingArrow = "-->"

// ErrMalformedTiming indicates a timing line without start, arrow, and end tokens.
var ErrMalformedTiming = errors.New("malformed cue timing")

// TimingError locates a malformed timing line. Line is 1-based.
type TimingError struct {
	Line int
	Text string
}

func (e *TimingError) Error() string {
	return fmt.Sprintf("%v at line %d: %q", ErrMalformedTiming, e.Line, e.Text)
}

func (e *TimingError) Unwrap() error { return ErrMalformedTiming }

// Cue is one emitted caption record.
type Cue struct {
	Start    string
	End      string
	Position int
	Line     int
	Text     string
}

// Options tunes the cue parser.
type Options struct {
	// Marker is the line prefix that opens the cue region; empty uses DefaultMarker.
	Marker string
	// OnUnknownSetting, when set, receives cue settings that were not applied.
	OnUnknownSetting func(line int, setting string)
}

type parserState int

const (
	statePreamble parserState = iota
	stateCueBlock
)

type accumulator struct {
	start    string
	end      string
	position int
	line     int
	text     strings.Builder
}

func (a *accumulator) reset() {
	a.start = ""
	a.end = ""
	a.position = Unset
	a.line = Unset
	a.text.Reset()
}

// Parse walks lines and returns one Cue per blank-line boundary that closes a
// block with a start time. A block still open at end of input is dropped.
func Parse(lines []string, dict *Dictionary, opts Options) ([]Cue, error) {
	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	var (
		cues  []Cue
		state = statePreamble
		acc   accumulator
	)
	acc.reset()

	for i, line := range lines {
		if strings.HasPrefix(line, marker) {
			state = stateCueBlock
			continue
		}
		if state != stateCueBlock {
			continue
		}

		switch {
		case strings.TrimSpace(line) == "":
			if acc.start != "" {
				cues = append(cues, Cue{
					Start:    acc.start,
					End:      acc.end,
					Position: acc.position,
					Line:     acc.line,
					Text:     Normalize(acc.text.String(), dict),
				})
			}
			acc.reset()
		case strings.Contains(line, timingArrow):
			if err := acc.applyTiming(i+1, line, opts.OnUnknownSetting); err != nil {
				return cues, err
			}
		default:
			acc.text.WriteString(strings.ReplaceAll(line, `"`, ""))
		}
	}
	return cues, nil
}

func (a *accumulator) applyTiming(lineNo int, line string, onUnknown func(int, string)) error {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return &TimingError{Line: lineNo, Text: line}
	}
	a.start = fields[0]
	a.end = fields[2]

	for _, setting := range fields[3:] {
		target := settingTarget(a, setting)
		if target == nil {
			if onUnknown != nil {
				onUnknown(lineNo, setting)
			}
			continue
		}
		value, ok := parsePercent(setting)
		if !ok {
			if onUnknown != nil {
				onUnknown(lineNo, setting)
			}
			continue
		}
		*target = value
	}
	return nil
}

func settingTarget(a *accumulator, setting string) *int {
	switch {
	case strings.HasPrefix(setting, "position:"):
		return &a.position
	case strings.HasPrefix(setting, "line:"):
		return &a.line
	default:
		return nil
	}
}

// parsePercent reads the integer after the first ':' with trailing '%' removed.
func parsePercent(setting string) (int, bool) {
	parts := strings.Split(setting, ":")
	if len(parts) < 2 {
		return 0, false
	}
	raw := strings.TrimRight(strings.TrimSpace(parts[1]), "%")
	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(value), true
}
