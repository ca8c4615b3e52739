package task

import (
	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/ferrors"
	"github.com/takanopontaro/footloose2/internal/pathutil"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
	"github.com/takanopontaro/footloose2/internal/watch"
)

// ChangeDir (command name "cd") switches a frame to a real directory and
// subscribes it to that directory's watch.
type ChangeDir struct {
	Watch *watch.Manager
}

type changeDirArgs struct {
	Path string `json:"path"`
}

func (t *ChangeDir) Validate(cmd *command.Command) error {
	var args changeDirArgs
	if err := cmd.ArgsInto(&args); err != nil || args.Path == "" {
		return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "cd: path is required"}
	}
	return nil
}

func (t *ChangeDir) TryRun(cmd *command.Command, arg *connarg.Arg, ctl chan<- taskmgr.Control) (taskmgr.Result, error) {
	var args changeDirArgs
	_ = cmd.ArgsInto(&args)

	path := pathutil.Absolutize(cmd.Cwd, args.Path)
	entries, err := t.Watch.Watch(cmd.Frame, path, arg)
	if err != nil {
		return taskmgr.ErrorResult(err), nil
	}
	return taskmgr.DataResult(entries, ""), nil
}
