package language

import (
	"strings"

	textlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Info describes a raw caption language code.
type Info struct {
	Raw string
	// Valid reports whether Raw parses as a BCP 47 tag.
	Valid bool
	Tag   textlang.Tag
	// Base is the primary language subtag, also derived for codes with a
	// non-standard suffix such as "en-orig".
	Base string
	// Name is the English display name, empty when the base is unknown.
	Name string
}

var namer = display.English.Tags()

// Describe classifies raw. Codes that fail BCP 47 parsing still yield a Base
// and Name when their leading subtag is a known language.
func Describe(raw string) Info {
	info := Info{Raw: raw}
	code := strings.TrimSpace(raw)
	if code == "" {
		return info
	}

	if tag, err := textlang.Parse(code); err == nil {
		info.Valid = true
		info.Tag = tag
		info.fill(tag)
		return info
	}

	lead, _, _ := strings.Cut(strings.ReplaceAll(code, "_", "-"), "-")
	if tag, err := textlang.Parse(lead); err == nil {
		info.fill(tag)
	}
	return info
}

func (i *Info) fill(tag textlang.Tag) {
	base, conf := tag.Base()
	if conf == textlang.No {
		return
	}
	i.Base = base.String()
	i.Name = namer.Name(tag)
}

// Label renders raw with its display name when one is known.
func Label(raw string) string {
	info := Describe(raw)
	if info.Name == "" {
		return raw
	}
	return raw + " (" + info.Name + ")"
}
