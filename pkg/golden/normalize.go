package golden

import (
	"strings"

	"github.com/fulmenhq/goldencheck/pkg/sanitize"
)

// NormalizeText prepares produced text for comparison: CRLF becomes LF,
// trailing newlines are dropped and s is applied. The reference file holds
// the result plus a single newline.
func NormalizeText(text string, s *sanitize.Sanitizer) string {
	text = normalizeLineEndings(text)
	text = strings.TrimRight(text, "\n")
	return s.Sanitize(text)
}

func normalizeLineEndings(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}
