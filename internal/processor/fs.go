package processor

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"unicode"
)

// Reserved on at least one supported filesystem (Windows is the superset)
var badChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeName maps an arbitrary track, artist, or folder name to a safe
// path segment. An empty result means the caller should use no segment.
func SanitizeName(name string) string {
	res := badChars.ReplaceAllString(name, "_")

	// Whitespace and dots are trimmed as one class so that stripping dots can
	// never expose fresh whitespace, or the other way round.
	return strings.TrimFunc(res, func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})
}

// fileExists reports whether a regular file is already at path.
func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
