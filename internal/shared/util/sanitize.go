package util

import (
	"errors"
	"strings"
)

// ErrBadFileName is returned for empty names and traversal patterns.
var ErrBadFileName = errors.New("invalid file name")

// SanitizeFileName normalizes an uploaded document's file name before its
// extension is inspected. Traversal sequences are rejected outright; path
// separators are flattened so the name can never address a directory.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || strings.Contains(s, "..") {
		return "", ErrBadFileName
	}
	s = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, s)
	return s, nil
}
