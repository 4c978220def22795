package session

import (
	"path/filepath"
	"regexp"
	"strings"
)

// namePrefixRe matches a single leading numeric ordering token, e.g. "01-".
var namePrefixRe = regexp.MustCompile(`^\d+[-_]`)

// DisplayName derives a mod name from an archive path: the base file name
// with every extension stripped, then one leading numeric prefix token
// removed. "01-SomeMod.7z.001" becomes "SomeMod".
func DisplayName(path string) string {
	base := filepath.Base(path)
	for {
		ext := filepath.Ext(base)
		if ext == "" || ext == base {
			break
		}
		base = strings.TrimSuffix(base, ext)
	}
	return namePrefixRe.ReplaceAllString(base, "")
}
