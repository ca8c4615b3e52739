package task

import (
	"strings"

	"github.com/takanopontaro/footloose2/internal/pathutil"
)

// substituteShellTemplate replaces %s (space-joined, JSON-quoted source
// paths) and %d (the JSON-quoted destination path) in a cmd template, the
// same two placeholders both the sh and progress tasks accept.
func substituteShellTemplate(tmpl string, sources []string, destination string) string {
	r := strings.NewReplacer(
		"%s", pathutil.QuotePaths(sources),
		"%d", pathutil.QuotePaths([]string{destination}),
	)
	return r.Replace(tmpl)
}

func absolutizeAll(cwd string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = pathutil.Absolutize(cwd, p)
	}
	return out
}

// relativizeAll strips cwd from each of paths (all already absolute),
// falling back to the absolute form for any path cwd isn't a prefix of.
// Used to hand the shell template relative paths while the subprocess
// itself runs with its working directory set to cwd.
func relativizeAll(cwd string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = relativizeOne(cwd, p)
	}
	return out
}

func relativizeOne(cwd, p string) string {
	rel, ok := pathutil.Relativize(p, cwd)
	if !ok {
		return p
	}
	if rel == "" {
		return "."
	}
	return rel
}
