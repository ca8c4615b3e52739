package task

import (
	"os/exec"
	"strings"

	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/ferrors"
	"github.com/takanopontaro/footloose2/internal/pathutil"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
)

// Sh (command name "sh") runs a single shell command synchronously and
// returns its stdout, for operations simple enough not to need progress
// reporting (rename, mkdir, a quick stat).
type Sh struct{}

type shConfig struct {
	Cmd string `json:"cmd"`
}

type shArgs struct {
	Sources     []string `json:"sources,omitempty"`
	Destination string   `json:"destination,omitempty"`
	Config      shConfig `json:"config"`
}

func (t *Sh) Validate(cmd *command.Command) error {
	var args shArgs
	if err := cmd.ArgsInto(&args); err != nil || args.Config.Cmd == "" {
		return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "sh: config.cmd is required"}
	}
	return nil
}

func (t *Sh) TryRun(cmd *command.Command, arg *connarg.Arg, ctl chan<- taskmgr.Control) (taskmgr.Result, error) {
	var args shArgs
	_ = cmd.ArgsInto(&args)

	sources := absolutizeAll(cmd.Cwd, args.Sources)
	destination := ""
	if args.Destination != "" {
		destination = pathutil.Absolutize(cmd.Cwd, args.Destination)
	}
	sources = relativizeAll(cmd.Cwd, sources)
	if destination != "" {
		destination = relativizeOne(cmd.Cwd, destination)
	}
	cmdStr := substituteShellTemplate(args.Config.Cmd, sources, destination)

	c := exec.Command("sh", "-c", cmdStr)
	c.Dir = cmd.Cwd
	out, err := c.Output()
	if err != nil {
		msg := err.Error()
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			msg = strings.TrimSpace(string(ee.Stderr))
		}
		return taskmgr.ErrorResult(&ferrors.TaskError{Msg: msg}), nil
	}
	return taskmgr.DataResult(normalizeLines(string(out)), ""), nil
}

func normalizeLines(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return strings.Join(lines, "\n")
}
