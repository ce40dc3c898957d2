package pairing

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrNotCaption indicates the file does not carry the caption extension.
	ErrNotCaption = errors.New("not a caption file")
	// ErrUnparseableName indicates a caption file name outside the grammar.
	ErrUnparseableName = errors.New("unparseable caption file name")
)

// Name is the decomposition of a caption file name.
type Name struct {
	Title    string
	SourceID string
	Language string
}

// VideoFileName returns the sibling video file name for the pair.
func (n Name) VideoFileName(videoExt string) string {
	return fmt.Sprintf("%s [%s].%s", n.Title, n.SourceID, videoExt)
}

// ParseCaptionName decomposes fileName using the caption grammar. It returns
// ErrNotCaption when the extension does not match and ErrUnparseableName when
// the remainder does not fit the grammar.
func ParseCaptionName(fileName, captionExt string) (Name, error) {
	suffix := "." + captionExt
	if !strings.HasSuffix(fileName, suffix) {
		return Name{}, ErrNotCaption
	}
	stem := strings.TrimSuffix(fileName, suffix)

	// Walk bracket candidates from the right so the title is as long as
	// possible; the first candidate whose remainder splits cleanly wins.
	for open := strings.LastIndexByte(stem, '['); open >= 0; open = strings.LastIndexByte(stem[:open], '[') {
		r, size := utf8.DecodeLastRuneInString(stem[:open])
		if size == 0 || open-size == 0 || !unicode.IsSpace(r) {
			continue
		}
		title := stem[:open-size]
		id, lang, ok := splitIDLanguage(stem[open+1:])
		if !ok {
			continue
		}
		return Name{Title: title, SourceID: id, Language: lang}, nil
	}
	return Name{}, fmt.Errorf("%w: %q", ErrUnparseableName, fileName)
}

// splitIDLanguage splits "<id>].<lang>" at the last "]." that leaves both
// sides non-empty.
func splitIDLanguage(rest string) (string, string, bool) {
	for end := strings.LastIndex(rest, "]."); end >= 0; end = strings.LastIndex(rest[:end], "].") {
		id, lang := rest[:end], rest[end+2:]
		if id != "" && lang != "" {
			return id, lang, true
		}
	}
	return "", "", false
}
