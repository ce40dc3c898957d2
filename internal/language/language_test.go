package language

import "testing"

func TestDescribe(t *testing.T) {
	tests := []struct {
		input string
		valid bool
		base  string
		name  string
	}{
		{"en", true, "en", "English"},
		{"ja", true, "ja", "Japanese"},
		{"de", true, "de", "German"},
		{"en-orig", false, "en", "English"},
		{"123", false, "", ""},
		{"", false, "", ""},
	}
	for _, tt := range tests {
		got := Describe(tt.input)
		if got.Valid != tt.valid || got.Base != tt.base || got.Name != tt.name {
			t.Errorf("Describe(%q) = valid=%v base=%q name=%q; want valid=%v base=%q name=%q",
				tt.input, got.Valid, got.Base, got.Name, tt.valid, tt.base, tt.name)
		}
		if got.Raw != tt.input {
			t.Errorf("Describe(%q).Raw = %q", tt.input, got.Raw)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label("en"); got != "en (English)" {
		t.Fatalf("Label(en) = %q", got)
	}
	if got := Label("123-abc"); got != "123-abc" {
		t.Fatalf("Label(123-abc) = %q", got)
	}
}
