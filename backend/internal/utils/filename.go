package utils

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeFilename reduces s to a single safe path segment. Letters and
// digits (any script) are kept, whitespace becomes '_', and everything
// else that could escape a directory or confuse a shell is dropped.
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "person"
	}
	return out
}

// FileExtension returns the lowercase extension of name without the dot
func FileExtension(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == "." {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// IsPlainFilename reports whether name is a single path element with no traversal
func IsPlainFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}
