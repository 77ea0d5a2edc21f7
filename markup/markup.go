package markup

import (
	"regexp"
	"strings"
)

const previewLen = 150

// Empty is shown in place of a preview for notes without content.
const Empty = "No content yet..."

var tagPattern = regexp.MustCompile(`<[^>]*>?`)

// Strip removes markup tags. Entities are left as written.
func Strip(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// Preview is the plain text shown on a grid card.
func Preview(content string) string {
	if content == "" {
		return Empty
	}
	r := []rune(Strip(content))
	if len(r) > previewLen {
		r = r[:previewLen]
	}
	return string(r)
}

// OneLine collapses whitespace so a preview fits on a single card row.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
