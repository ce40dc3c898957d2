package refine

import (
	"fmt"
	"strconv"
	"strings"
)

// Seconds converts `[hh:]mm:ss[.fff]` to seconds rounded to milliseconds.
func Seconds(timecode string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(timecode), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("timecode %q: expected [hh:]mm:ss.fff", timecode)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 || secs >= 60 {
		return 0, fmt.Errorf("timecode %q: invalid seconds", timecode)
	}
	total := secs
	multiplier := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		v, err := strconv.Atoi(parts[i])
		if err != nil || v < 0 {
			return 0, fmt.Errorf("timecode %q: invalid field %q", timecode, parts[i])
		}
		total += float64(v) * multiplier
		multiplier *= 60
	}
	millis, err := strconv.ParseFloat(strconv.FormatFloat(total, 'f', 3, 64), 64)
	if err != nil {
		return 0, err
	}
	return millis, nil
}
