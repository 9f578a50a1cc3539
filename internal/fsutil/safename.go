// Package fsutil contains filename safety helpers for the flat image
// directory.
package fsutil

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

var ErrUnsafeName = errors.New("unsafe filename")

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// BaseName validates that name refers to a bare filename with no
// directory components. It rejects traversal and absolute paths.
func BaseName(name string) (string, error) {
	if name == "" {
		return "", ErrUnsafeName
	}
	if strings.ContainsAny(name, `/\`) {
		return "", ErrUnsafeName
	}
	if name == "." || name == ".." {
		return "", ErrUnsafeName
	}
	return name, nil
}

// SanitizeFilename reduces an uploaded filename to a safe bare name:
// directory components are stripped and anything outside
// [A-Za-z0-9._-] collapses to a single underscore.
func SanitizeFilename(name string) string {
	// Strip both separator styles; clients send platform-native paths.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = filepath.Base(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}
