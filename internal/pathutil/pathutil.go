// Package pathutil implements the small filename/path helpers shared by the
// Ls primitive, the archive entry iterator, and the virtual directory
// engine: charset decoding, NFC normalization, ls(1)-style permission and
// size formatting, and path absolutize/relativize helpers.
package pathutil

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/unicode/norm"
)

// DecodeString decodes a raw archive-entry name into a valid, NFC-normalized
// UTF-8 string. Archive tooling (zip in particular) frequently stores names
// in a legacy encoding; this module has no general charset detector
// available (see DESIGN.md), so it tries UTF-8 first, falls back to
// Shift-JIS, and otherwise substitutes invalid bytes.
func DecodeString(raw []byte) string {
	var s string
	if utf8.Valid(raw) {
		s = string(raw)
	} else if decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(raw); err == nil && utf8.Valid(decoded) {
		s = string(decoded)
	} else {
		s = strings.ToValidUTF8(string(raw), "�")
	}
	return NFC(strings.TrimPrefix(s, "./"))
}

// NFC normalizes a display name to Unicode Normalization Form C.
func NFC(name string) string {
	return norm.NFC.String(name)
}

// LsStyleSize formats a byte count the way ls(1) -h does: a bare integer
// below 1024, otherwise one decimal digit and a K/M/G/T/P suffix with no
// space and no trailing "B".
func LsStyleSize(size int64) string {
	const unit = 1024.0
	if size < 1024 {
		return strconv.FormatInt(size, 10)
	}
	units := []string{"K", "M", "G", "T", "P"}
	f := float64(size)
	i := -1
	for f >= unit && i < len(units)-1 {
		f /= unit
		i++
	}
	return fmt.Sprintf("%.1f%s", f, units[i])
}

// PermString renders a 10-character ls(1)-style permission string from a
// file mode, e.g. "drwxr-xr-x" or "-rw-r--r--".
func PermString(mode fs.FileMode) string {
	var b strings.Builder
	switch {
	case mode&fs.ModeDir != 0:
		b.WriteByte('d')
	case mode&fs.ModeSymlink != 0:
		b.WriteByte('l')
	default:
		b.WriteByte('-')
	}
	perm := mode.Perm()
	bits := []struct {
		mask fs.FileMode
		ch   byte
	}{
		{0400, 'r'}, {0200, 'w'}, {0100, 'x'},
		{0040, 'r'}, {0020, 'w'}, {0010, 'x'},
		{0004, 'r'}, {0002, 'w'}, {0001, 'x'},
	}
	for _, bit := range bits {
		if perm&bit.mask != 0 {
			b.WriteByte(bit.ch)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// DefaultPerm is the placeholder permission string used for entries whose
// metadata could not be read.
const DefaultPerm = "----------"

// DefaultTime is the placeholder timestamp used for entries whose metadata
// could not be read.
const DefaultTime = "--/--/-- --:--:--"

// Absolutize resolves rel against base, cleaning the result. It does not
// touch the filesystem and does not resolve symlinks.
func Absolutize(base, rel string) string {
	if path.IsAbs(rel) {
		return path.Clean(rel)
	}
	return path.Clean(path.Join(base, rel))
}

// Relativize strips prefix from p, returning false if p does not have
// prefix as a path-segment-aligned ancestor.
func Relativize(p, prefix string) (string, bool) {
	prefix = strings.TrimSuffix(prefix, "/")
	if p == prefix {
		return "", true
	}
	if !strings.HasPrefix(p, prefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(p, prefix+"/"), true
}

// ParentPath returns the parent directory of p, using "/" when p has no
// parent component.
func ParentPath(p string) string {
	parent := path.Dir(p)
	if parent == "." {
		return "/"
	}
	return parent
}

// QuotePaths JSON-quotes each path and joins them with spaces, for safe
// interpolation into a shell command template.
func QuotePaths(paths []string) string {
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = strconv.Quote(p)
	}
	return strings.Join(quoted, " ")
}

// Exists reports whether path exists on disk.
func Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
