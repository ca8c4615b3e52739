package task

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/takanopontaro/footloose2/internal/archive"
	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/ferrors"
	"github.com/takanopontaro/footloose2/internal/pathutil"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
)

// ExtractEntries (command name "vcp") copies a set of archive members out
// to a real destination directory, preserving their paths relative to the
// virtual directory the client was viewing when it selected them.
type ExtractEntries struct{}

type extractEntriesArgs struct {
	Kind        string   `json:"kind"`
	Archive     string   `json:"archive"`
	Sources     []string `json:"sources"`
	Destination string   `json:"destination"`
}

func (t *ExtractEntries) Validate(cmd *command.Command) error {
	var args extractEntriesArgs
	if err := cmd.ArgsInto(&args); err != nil || args.Archive == "" || len(args.Sources) == 0 || args.Destination == "" {
		return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "vcp: archive, sources and destination are required"}
	}
	if _, err := archive.ParseKind(args.Kind); err != nil {
		return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "vcp: invalid kind"}
	}
	return nil
}

func (t *ExtractEntries) TryRun(cmd *command.Command, arg *connarg.Arg, ctl chan<- taskmgr.Control) (taskmgr.Result, error) {
	var args extractEntriesArgs
	_ = cmd.ArgsInto(&args)

	kind, _ := archive.ParseKind(args.Kind)

	root, ok := pathutil.Relativize(cmd.Cwd, args.Archive)
	if !ok {
		root = ""
	}

	srcs := make([]string, len(args.Sources))
	for i, s := range args.Sources {
		rel, ok := pathutil.Relativize(s, args.Archive)
		if !ok {
			return taskmgr.ErrorResult(&ferrors.VirtualDirError{Kind: ferrors.VirtualDirArgs, Msg: fmt.Sprintf("source %q is outside the archive", s)}), nil
		}
		srcs[i] = "/" + rel
	}

	a, err := archive.Open(kind, args.Archive)
	if err != nil {
		return taskmgr.ErrorResult(err), nil
	}
	defer a.Close()

	entries, err := a.Entries()
	if err != nil {
		return taskmgr.ErrorResult(err), nil
	}

	destination := pathutil.Absolutize(cmd.Cwd, args.Destination)

	var skipped []string
	for _, e := range entries {
		full := "/" + e.Path
		if !isMatch(full, srcs) {
			continue
		}

		rel, ok := pathutil.Relativize(full, "/"+root)
		if !ok {
			return taskmgr.ErrorResult(&ferrors.VirtualDirError{Kind: ferrors.VirtualDirArgs, Msg: "invalid path: " + full}), nil
		}
		destPath := filepath.Join(destination, rel)

		if e.IsDir {
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return taskmgr.Result{}, fmt.Errorf("vcp: mkdir %s: %w", destPath, err)
			}
			continue
		}

		if pathutil.Exists(destPath) {
			skipped = append(skipped, destPath)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return taskmgr.Result{}, fmt.Errorf("vcp: mkdir %s: %w", filepath.Dir(destPath), err)
		}
		if err := copyEntry(a, e, destPath); err != nil {
			return taskmgr.Result{}, err
		}
	}

	if len(skipped) == 0 {
		return taskmgr.Success(), nil
	}
	return taskmgr.DataResult(skipped, "SKIPPED"), nil
}

func isMatch(path string, srcs []string) bool {
	for _, src := range srcs {
		if path == src || strings.HasPrefix(path, src+"/") {
			return true
		}
	}
	return false
}

func copyEntry(a archive.Archive, e archive.Entry, destPath string) error {
	r, err := a.Open(e)
	if err != nil {
		return fmt.Errorf("vcp: open %s: %w", e.Path, err)
	}
	defer r.Close()

	f, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("vcp: create %s: %w", destPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("vcp: write %s: %w", destPath, err)
	}
	return nil
}
