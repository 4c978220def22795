package session

import (
	"path/filepath"
	"strings"
)

// AcceptedExtensions lists the archive types the selection surface accepts.
var AcceptedExtensions = []string{".001", ".7z", ".fomod", ".zip", ".rar"}

// Accepted reports whether path carries one of the accepted archive
// extensions. Matching is case-insensitive on the final extension, so
// split-volume names like "mod.7z.001" are accepted via ".001".
func Accepted(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range AcceptedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
