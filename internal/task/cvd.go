package task

import (
	"regexp"

	"github.com/takanopontaro/footloose2/internal/archive"
	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/ferrors"
	"github.com/takanopontaro/footloose2/internal/pathutil"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
	"github.com/takanopontaro/footloose2/internal/vdir"
	"github.com/takanopontaro/footloose2/internal/watch"
)

// ChangeVirtualDir (command name "cvd") lists the contents of an archive
// member path as if it were a real directory. Virtual directories are
// never watched: switching a frame into one unwatches whatever it
// previously showed.
type ChangeVirtualDir struct {
	Watch *watch.Manager
}

type changeVirtualDirArgs struct {
	Kind    string `json:"kind"`
	Archive string `json:"archive"`
	Path    string `json:"path"`
	Filter  string `json:"filter,omitempty"`
}

func (t *ChangeVirtualDir) Validate(cmd *command.Command) error {
	var args changeVirtualDirArgs
	if err := cmd.ArgsInto(&args); err != nil || args.Archive == "" || args.Path == "" {
		return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "cvd: archive and path are required"}
	}
	if _, err := archive.ParseKind(args.Kind); err != nil {
		return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "cvd: invalid kind"}
	}
	return nil
}

func (t *ChangeVirtualDir) TryRun(cmd *command.Command, arg *connarg.Arg, ctl chan<- taskmgr.Control) (taskmgr.Result, error) {
	var args changeVirtualDirArgs
	_ = cmd.ArgsInto(&args)

	kind, _ := archive.ParseKind(args.Kind)

	cwd, ok := pathutil.Relativize(args.Path, args.Archive)
	if !ok {
		return taskmgr.ErrorResult(&ferrors.VirtualDirError{Kind: ferrors.VirtualDirOutsideRoot, Msg: "path is outside the archive root"}), nil
	}

	var filter *regexp.Regexp
	if args.Filter != "" {
		re, err := regexp.Compile(args.Filter)
		if err != nil {
			return taskmgr.ErrorResult(&ferrors.VirtualDirError{Kind: ferrors.VirtualDirArgs, Msg: "invalid filter: " + err.Error()}), nil
		}
		filter = re
	}

	a, err := archive.Open(kind, args.Archive)
	if err != nil {
		return taskmgr.ErrorResult(err), nil
	}
	defer a.Close()

	entries, err := vdir.GetEntries(a, cwd, filter)
	if err != nil {
		return taskmgr.ErrorResult(err), nil
	}

	t.Watch.Unwatch(cmd.Frame, "", arg)
	return taskmgr.DataResult(entries, ""), nil
}
