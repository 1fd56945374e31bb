package sanitize

import (
	"strings"
	"testing"
)

func TestChannelName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Austin", "austin"},
		{"St. Louis", "st-louis"},
		{"New   York", "new-york"},
		{"SAN FRANCISCO", "san-francisco"},
		{"Coeur d'Alene", "coeur-dalene"},
		{"Winston-Salem", "winston-salem"},
		{"already-sanitized-123", "already-sanitized-123"},
		{"a - b", "a-b"},
		{"---", "-"},
		{"  leading and trailing  ", "-leading-and-trailing-"},
		{"São Paulo", "so-paulo"},          // non-ascii letters are stripped
		{"東京", ""},                         // entirely non-ascii
		{"tab\there", "tab-here"},
		{"Fort Worth!!!", "fort-worth"},
		{"100 Mile House", "100-mile-house"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ChannelName(tt.input)
			if got != tt.want {
				t.Errorf("ChannelName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestChannelName_Idempotent(t *testing.T) {
	inputs := []string{
		"", "Austin", "St. Louis", "New   York", "---", "  x  ",
		"São Paulo", "already-clean", "MIXED case 42", "a b",
	}
	for _, in := range inputs {
		once := ChannelName(in)
		twice := ChannelName(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestChannelName_OutputAlphabet(t *testing.T) {
	inputs := []string{
		"Austin, TX", "¿Dónde?", "crazy!!@#$%^&*()_+ input", "\t\n\r",
		"emoji 🎉 city", "UPPER lower 123 -- ---",
	}
	for _, in := range inputs {
		got := ChannelName(in)
		for _, r := range got {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			if !ok {
				t.Errorf("ChannelName(%q) = %q contains invalid rune %q", in, got, r)
			}
		}
		if strings.Contains(got, "--") {
			t.Errorf("ChannelName(%q) = %q contains consecutive hyphens", in, got)
		}
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"St. Louis", "St. Louis"},
		{"  padded  ", "padded"},
		{"<b>bold</b> city", "bold city"},
		{"<script>alert(1)</script>Tulsa", "Tulsa"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Text(tt.input)
			if got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
