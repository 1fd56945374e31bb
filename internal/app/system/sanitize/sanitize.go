// internal/app/system/sanitize/sanitize.go
package sanitize

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips all markup from free-form input before it is embedded in
// channel topics and announcement messages.
var textPolicy = bluemonday.StrictPolicy()

// ChannelName converts arbitrary human-entered text into a platform-safe
// channel name slug: lowercase, characters outside {a-z, 0-9, space, hyphen}
// removed, whitespace runs collapsed to a single hyphen, repeated hyphens
// collapsed to one.
//
// The function is total (empty input yields empty output) and idempotent:
// ChannelName(ChannelName(s)) == ChannelName(s) for every s.
func ChannelName(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			// Whitespace and hyphens both become hyphens; runs collapse below.
			b.WriteByte('-')
		}
	}

	collapsed := b.String()
	for strings.Contains(collapsed, "--") {
		collapsed = strings.ReplaceAll(collapsed, "--", "-")
	}
	return collapsed
}

// Text strips any markup from free-form input and trims surrounding
// whitespace. Used for display names and locality names before they appear in
// topics and messages.
func Text(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
