package vtt

import (
	"strconv"
	"strings"
)

// presentationChars are removed from cue text before tags are rewritten.
var presentationChars = strings.NewReplacer(
	" ", "",
	",", "",
	"\n", "",
	"\t", "",
	"\u200b", "",
	"|", "",
	`"`, "",
)

func stripPresentation(s string) string {
	return presentationChars.Replace(s)
}

// Normalize strips presentation characters from text and rewrites each
// `<c...>` open tag to `<code>`, using 0 for payloads missing from dict.
// Closing tags and other markup pass through unchanged.
func Normalize(text string, dict *Dictionary) string {
	stripped := stripPresentation(text)

	var b strings.Builder
	b.Grow(len(stripped))
	rest := stripped
	for {
		open := strings.Index(rest, "<c")
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end := strings.IndexByte(rest[open+2:], '>')
		if end < 0 {
			b.WriteString(rest)
			return b.String()
		}
		if end == 0 {
			// "<c>" carries no payload; keep scanning past the '<'.
			b.WriteString(rest[:open+1])
			rest = rest[open+1:]
			continue
		}
		content := rest[open+1 : open+2+end]
		b.WriteString(rest[:open])
		b.WriteByte('<')
		b.WriteString(strconv.Itoa(tagCode(content, dict)))
		b.WriteByte('>')
		rest = rest[open+3+end:]
	}
}

func tagCode(content string, dict *Dictionary) int {
	payload, ok := strings.CutPrefix(content, stylePrefix)
	if !ok {
		return unknownStyle
	}
	if code, ok := dict.lookup(payload); ok {
		return code
	}
	return unknownStyle
}
