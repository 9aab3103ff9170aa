package compose

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^<]+?>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// HTMLToText mechanically derives the plain-text body from the HTML one:
// tags stripped, whitespace collapsed. The text part is never hand-authored
// so the two bodies cannot disagree in content.
func HTMLToText(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
