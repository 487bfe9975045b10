package fieldtype

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// SanitizeText strips markup and collapses a value to a single trimmed line.
// It is the default sanitizer for scalar field values and for schema strings
// such as labels and placeholders.
func SanitizeText(value string) string {
	cleaned := policy().Sanitize(value)
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	cleaned = strings.ReplaceAll(cleaned, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\t", " ")
	return strings.TrimSpace(collapseSpaces(cleaned))
}

// sanitizeTextarea strips markup but preserves line structure.
func sanitizeTextarea(value string) string {
	lines := strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(policy().Sanitize(line), " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

// SanitizeID normalises a field identifier to lowercase slug characters.
// Everything outside [a-z0-9_-] is dropped; spaces become underscores.
func SanitizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return b.String()
}
