package task

import (
	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/ferrors"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
)

// AbortProgress (command name "kill") cancels an in-flight progress task by
// publishing an Abort control message for its pid. The control-channel
// dispatcher in taskmgr does the actual work of invoking the task's
// dispose function.
type AbortProgress struct{}

type abortProgressArgs struct {
	PID string `json:"pid"`
}

func (t *AbortProgress) Validate(cmd *command.Command) error {
	var args abortProgressArgs
	if err := cmd.ArgsInto(&args); err != nil || args.PID == "" {
		return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "kill: pid is required"}
	}
	return nil
}

func (t *AbortProgress) TryRun(cmd *command.Command, arg *connarg.Arg, ctl chan<- taskmgr.Control) (taskmgr.Result, error) {
	var args abortProgressArgs
	_ = cmd.ArgsInto(&args)

	select {
	case ctl <- taskmgr.Control{PID: args.PID, Status: taskmgr.StatusAbort}:
		return taskmgr.Success(), nil
	default:
		return taskmgr.ErrorResult(&ferrors.SenderError{Msg: "control channel full"}), nil
	}
}
