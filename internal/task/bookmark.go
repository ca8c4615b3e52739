package task

import (
	bm "github.com/takanopontaro/footloose2/internal/bookmark"
	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/ferrors"
	"github.com/takanopontaro/footloose2/internal/pathutil"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
)

// Bookmark (command name "bookmark") adds, renames, deletes, or lists
// bookmarked paths.
type Bookmark struct {
	Manager *bm.Manager

	// OnMutate, if set, is called after every non-"get" action succeeds,
	// to feed the supplemental bookmark history log.
	OnMutate func(action, name, path string)
}

type bookmarkArgs struct {
	Action string `json:"action"`
	Name   string `json:"name,omitempty"`
	Path   string `json:"path,omitempty"`
}

func (t *Bookmark) Validate(cmd *command.Command) error {
	var args bookmarkArgs
	if err := cmd.ArgsInto(&args); err != nil {
		return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "bookmark: invalid args"}
	}
	switch bm.Action(args.Action) {
	case bm.Get:
		return nil
	case bm.Add, bm.Rename:
		if args.Name == "" || args.Path == "" {
			return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "bookmark: name and path are required"}
		}
	case bm.Delete:
		if args.Path == "" {
			return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "bookmark: path is required"}
		}
	default:
		return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "bookmark: invalid action"}
	}
	return nil
}

func (t *Bookmark) TryRun(cmd *command.Command, arg *connarg.Arg, ctl chan<- taskmgr.Control) (taskmgr.Result, error) {
	var args bookmarkArgs
	_ = cmd.ArgsInto(&args)

	path := ""
	if args.Action != string(bm.Get) {
		path = pathutil.Absolutize(cmd.Cwd, args.Path)
	}

	data, err := t.Manager.Process(bm.Action(args.Action), args.Name, path)
	if err != nil {
		return taskmgr.ErrorResult(err), nil
	}
	if args.Action != string(bm.Get) && t.OnMutate != nil {
		t.OnMutate(args.Action, args.Name, path)
	}
	return taskmgr.DataResult(data, ""), nil
}
