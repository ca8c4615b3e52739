package task

import (
	"os/exec"
	"runtime"

	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/ferrors"
	"github.com/takanopontaro/footloose2/internal/pathutil"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
)

// Open (command name "open") hands a path to the OS's native "open with"
// mechanism. No cross-platform opener library exists in the available
// dependency set, so this shells out to the platform's own launcher
// command, the same approach the original tool's "open" crate takes
// internally.
type Open struct{}

type openArgs struct {
	Path string `json:"path"`
	App  string `json:"app,omitempty"`
}

func (t *Open) Validate(cmd *command.Command) error {
	var args openArgs
	if err := cmd.ArgsInto(&args); err != nil || args.Path == "" {
		return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "open: path is required"}
	}
	return nil
}

func (t *Open) TryRun(cmd *command.Command, arg *connarg.Arg, ctl chan<- taskmgr.Control) (taskmgr.Result, error) {
	var args openArgs
	_ = cmd.ArgsInto(&args)

	path := pathutil.Absolutize(cmd.Cwd, args.Path)
	name, cmdArgs := openCommand(path, args.App)

	if err := exec.Command(name, cmdArgs...).Start(); err != nil {
		return taskmgr.ErrorResult(&ferrors.TaskError{Msg: "open: " + err.Error()}), nil
	}
	return taskmgr.Success(), nil
}

func openCommand(path, app string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		if app != "" {
			return "open", []string{"-a", app, path}
		}
		return "open", []string{path}
	case "windows":
		if app != "" {
			return "cmd", []string{"/C", "start", "", app, path}
		}
		return "cmd", []string{"/C", "start", "", path}
	default:
		if app != "" {
			return app, []string{path}
		}
		return "xdg-open", []string{path}
	}
}
