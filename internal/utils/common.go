// Package utils holds small string helpers shared by the config, store,
// and ui packages.
package utils

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// SplitAndTrim splits s on sep, trims each part, and drops empty parts.
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JSONPointerToPath turns a JSON Pointer (RFC 6901) into a readable path.
// "#/2025-06-10/0/time" becomes "2025-06-10[0].time".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			b.WriteString("[" + strconv.Itoa(idx) + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

// Truncate shortens s to at most max runes, marking the cut with "…".
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
