package utils

import "testing"

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Hello", "Hello"},
		{"single tag pair", "<b>Teste</b>", "Teste"},
		{"mixed text and tags", "<b>Hi</b> there  ", "Hi there"},
		{"nested tags", "<div><p>body</p></div>", "body"},
		{"attributes", `<a href="x">link</a>`, "link"},
		{"empty input", "", ""},
		{"whitespace only", "   ", ""},
		{"bare angle bracket survives", "2 < 3", "2 < 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
