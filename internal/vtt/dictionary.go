package vtt

import "strings"

const (
	styleOpen    = "cue("
	stylePrefix  = "c."
	styleClose   = ')'
	unknownStyle = 0
)

// Dictionary maps style payloads to positive integer codes. Codes start at 1;
// 0 is reserved for tags whose payload was never declared.
type Dictionary struct {
	codes map[string]int
	order []string
	// stripped indexes payloads by their presentation-stripped form, keeping
	// the first code seen. Cue text is stripped before tags are looked up.
	stripped map[string]int
}

// BuildDictionary scans lines for `cue(c.<payload>)` references and numbers
// each distinct raw payload in first-seen order.
func BuildDictionary(lines []string) *Dictionary {
	d := &Dictionary{codes: make(map[string]int), stripped: make(map[string]int)}
	for _, line := range lines {
		for _, payload := range stylePayloads(line) {
			d.add(payload)
		}
	}
	return d
}

func (d *Dictionary) add(payload string) {
	if _, ok := d.codes[payload]; ok {
		return
	}
	d.order = append(d.order, payload)
	code := len(d.order)
	d.codes[payload] = code
	key := stripPresentation(payload)
	if _, ok := d.stripped[key]; !ok && key != "" {
		d.stripped[key] = code
	}
}

// Code returns the code assigned to payload.
func (d *Dictionary) Code(payload string) (int, bool) {
	if d == nil {
		return unknownStyle, false
	}
	code, ok := d.codes[payload]
	return code, ok
}

// lookup resolves a payload taken from stripped cue text. An exact match wins;
// otherwise the first payload whose stripped form equals it is used.
func (d *Dictionary) lookup(payload string) (int, bool) {
	if code, ok := d.Code(payload); ok {
		return code, true
	}
	if d == nil {
		return unknownStyle, false
	}
	code, ok := d.stripped[payload]
	return code, ok
}

// Len reports the number of distinct payloads.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}

// Payloads returns payloads ordered by code.
func (d *Dictionary) Payloads() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.order...)
}

// stylePayloads extracts every non-overlapping `cue(c.X)` payload X, where X
// is one or more characters other than ')'.
func stylePayloads(line string) []string {
	var payloads []string
	rest := line
	for {
		start := strings.Index(rest, styleOpen+stylePrefix)
		if start < 0 {
			return payloads
		}
		body := rest[start+len(styleOpen)+len(stylePrefix):]
		end := strings.IndexByte(body, styleClose)
		if end < 0 {
			return payloads
		}
		if end == 0 {
			rest = rest[start+1:]
			continue
		}
		payloads = append(payloads, body[:end])
		rest = body[end+1:]
	}
}
