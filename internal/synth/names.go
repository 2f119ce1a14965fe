package synth

import (
	"fmt"
	"regexp"
	"strings"
)

var nonIdentifierPattern = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeName lowercases source text and collapses every run of characters
// outside [a-z0-9] into a single underscore. The result may be empty; callers
// fall back to FallbackName. Re-applying to its own output is a no-op.
func SanitizeName(text string) string {
	name := strings.ToLower(text)
	name = nonIdentifierPattern.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// FallbackName is the identifier pattern used when source text sanitizes to
// nothing.
func FallbackName(page, index int) string {
	return fmt.Sprintf("field_%d_%d", page, index)
}
