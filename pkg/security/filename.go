package security

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// windowsDeviceNames are rejected as bare filenames on every platform so a
// stored upload stays portable.
var windowsDeviceNames = map[string]struct{}{
	"CON": {}, "AUX": {}, "COM1": {}, "COM2": {}, "COM3": {}, "COM4": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "PRN": {}, "NUL": {},
}

// SecureFilename returns a version of name that is safe to join onto an
// upload directory: non-ASCII is folded away, path separators become
// whitespace, whitespace runs become a single underscore, anything outside
// [A-Za-z0-9_.-] is dropped and leading/trailing dots and underscores are
// trimmed. The result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		if r == '/' || r == '\\' {
			return ' '
		}
		return r
	}, name)

	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if base, _, _ := strings.Cut(name, "."); base != "" {
		if _, reserved := windowsDeviceNames[strings.ToUpper(base)]; reserved {
			name = "_" + name
		}
	}

	return name
}
