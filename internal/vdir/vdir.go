// Package vdir implements the virtual directory engine: listing the
// contents of a zip/tar/tgz archive as if it were a real directory tree,
// synthesizing intermediate directory rows for nested members.
package vdir

import (
	"regexp"
	"sort"
	"strings"

	"github.com/takanopontaro/footloose2/internal/archive"
	"github.com/takanopontaro/footloose2/internal/lsdir"
	"github.com/takanopontaro/footloose2/internal/pathutil"
)

// GetEntries lists the direct children of cwd inside the archive opened as
// a. filter, if non-nil, excludes any member whose cwd-relative path
// matches it (e.g. "^(__MACOSX/|\\._.+)" to hide macOS zip cruft).
func GetEntries(a archive.Archive, cwd string, filter *regexp.Regexp) ([]lsdir.Entry, error) {
	entries, err := a.Entries()
	if err != nil {
		return nil, err
	}

	cwdPrefix := normalizeCwdPrefix(cwd)
	parentPath := pathutil.ParentPath(cwd)

	parent := lsdir.Entry{
		Perm:      "d---------",
		Size:      pathutil.LsStyleSize(0),
		Time:      pathutil.DefaultTime,
		Name:      "..",
		IsVirtual: true,
	}

	seenDirs := make(map[string]bool)
	var out []lsdir.Entry

	for _, e := range entries {
		p := "/" + strings.TrimPrefix(e.Path, "/")

		if !strings.HasPrefix(p, cwdPrefix) {
			continue
		}
		rest := strings.TrimPrefix(p, cwdPrefix)

		if filter != nil && filter.MatchString(rest) {
			continue
		}

		if p == parentPath {
			parent = lsdir.Entry{
				Perm:      pathutil.PermString(e.Mode),
				Size:      pathutil.LsStyleSize(0),
				Time:      pathutil.DefaultTime,
				Name:      "..",
				IsVirtual: true,
			}
			continue
		}

		if seg, isLeaf := singleSegment(rest); isLeaf {
			out = append(out, lsdir.Entry{
				Perm:      pathutil.PermString(e.Mode),
				Size:      pathutil.LsStyleSize(e.Size),
				Time:      pathutil.DefaultTime,
				Name:      pathutil.NFC(seg),
				IsVirtual: true,
			})
			continue
		}

		if seg, ok := firstSegment(rest); ok && !seenDirs[seg] {
			seenDirs[seg] = true
			out = append(out, lsdir.Entry{
				Perm:      "d---------",
				Size:      pathutil.LsStyleSize(0),
				Time:      pathutil.DefaultTime,
				Name:      pathutil.NFC(seg),
				IsVirtual: true,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return append([]lsdir.Entry{parent}, out...), nil
}

// normalizeCwdPrefix turns an archive-relative cwd into a slash-terminated
// prefix, special-casing the archive root.
func normalizeCwdPrefix(cwd string) string {
	trimmed := strings.Trim(cwd, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed + "/"
}

var leafRe = regexp.MustCompile(`^[^/]+/?$`)
var dirRe = regexp.MustCompile(`^([^/]+)/`)

func singleSegment(rest string) (string, bool) {
	if !leafRe.MatchString(rest) {
		return "", false
	}
	return strings.TrimSuffix(rest, "/"), true
}

func firstSegment(rest string) (string, bool) {
	m := dirRe.FindStringSubmatch(rest)
	if m == nil {
		return "", false
	}
	return m[1], true
}
