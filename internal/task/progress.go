package task

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/ferrors"
	"github.com/takanopontaro/footloose2/internal/pathutil"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
)

// Progress (command name "progress") runs a long shell command
// asynchronously, reporting completion percentage once a second by
// counting newlines the command writes to stdout against a total computed
// up front by a second, synchronous shell command.
type Progress struct{}

type progressConfig struct {
	Cmd   string `json:"cmd"`
	Total string `json:"total"`
}

type progressArgs struct {
	Sources     []string       `json:"sources"`
	Destination string         `json:"destination,omitempty"`
	Config      progressConfig `json:"config"`
}

func (t *Progress) Validate(cmd *command.Command) error {
	var args progressArgs
	if err := cmd.ArgsInto(&args); err != nil || len(args.Sources) == 0 || args.Config.Cmd == "" || args.Config.Total == "" {
		return &ferrors.CommandError{Kind: ferrors.CommandArgs, Msg: "progress: sources, config.cmd and config.total are required"}
	}
	return nil
}

func (t *Progress) TryRun(cmd *command.Command, arg *connarg.Arg, ctl chan<- taskmgr.Control) (taskmgr.Result, error) {
	var args progressArgs
	_ = cmd.ArgsInto(&args)

	sources := absolutizeAll(cmd.Cwd, args.Sources)
	destination := ""
	if args.Destination != "" {
		destination = pathutil.Absolutize(cmd.Cwd, args.Destination)
	}

	totalCmd := substituteShellTemplate(args.Config.Total, sources, destination)
	total, err := runCount(totalCmd, cmd.Cwd)
	if err != nil {
		// A failing total-count command degrades to an unknown total
		// rather than aborting the whole task — progress just never
		// reaches 100% until the main command finishes.
		total = math.MaxInt
	}

	relSources := relativizeAll(cmd.Cwd, sources)
	relDestination := destination
	if relDestination != "" {
		relDestination = relativizeOne(cmd.Cwd, destination)
	}
	runCmd := substituteShellTemplate(args.Config.Cmd, relSources, relDestination)
	c := exec.Command("sh", "-c", runCmd)
	c.Dir = cmd.Cwd
	stdout, err := c.StdoutPipe()
	if err != nil {
		return taskmgr.Result{}, fmt.Errorf("progress: stdout pipe: %w", err)
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return taskmgr.Result{}, fmt.Errorf("progress: stderr pipe: %w", err)
	}
	if err := c.Start(); err != nil {
		return taskmgr.Result{}, fmt.Errorf("progress: start: %w", err)
	}

	pid := uuid.NewString()
	sender := arg.Sender
	done := make(chan struct{})
	started := time.Now()

	go superviseProgress(pid, total, c, stdout, stderr, sender, ctl, done, started)

	dispose := func() {
		_ = c.Process.Kill()
		<-done
		if err := sender.ProgressAbort(pid); err != nil {
			log.Printf("progress: send progress_abort for %s: %v", pid, err)
		}
		log.Printf("progress: task %s aborted after %s", pid, humanize.Time(started))
	}

	return taskmgr.ProgressResult(pid, dispose), nil
}

func runCount(shCmd, cwd string) (int, error) {
	c := exec.Command("sh", "-c", shCmd)
	c.Dir = cwd
	out, err := c.CombinedOutput()
	if err != nil {
		return 0, &ferrors.TaskError{Msg: strings.TrimSpace(string(out))}
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("progress: total command did not print an integer: %w", err)
	}
	return n, nil
}

func superviseProgress(pid string, total int, c *exec.Cmd, stdout, stderr io.Reader, sender connarg.Sender, ctl chan<- taskmgr.Control, done chan<- struct{}, started time.Time) {
	count := 0
	lines := make(chan struct{})
	go func() {
		r := bufio.NewReader(stdout)
		for {
			_, err := r.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			lines <- struct{}{}
		}
	}()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	// A time.Ticker's first tick comes one interval after creation, so
	// sub-1s operations stay silent.

	linesOpen := true
	for linesOpen {
		select {
		case _, ok := <-lines:
			if !ok {
				linesOpen = false
				break
			}
			count++
		case <-ticker.C:
			percent := int((float64(count+1) / float64(total)) * 100)
			if err := sender.Progress(pid, percent); err != nil {
				log.Printf("progress: send progress for %s: %v", pid, err)
			}
		}
	}

	waitErr := c.Wait()
	if waitErr != nil {
		errOut, _ := io.ReadAll(stderr)
		msg := strings.TrimSpace(string(errOut))
		if msg == "" {
			msg = waitErr.Error()
		}
		if err := sender.ProgressError(pid, msg); err != nil {
			log.Printf("progress: send progress_error for %s: %v", pid, err)
		}
		log.Printf("progress: task %s failed after %s: %s", pid, humanize.Time(started), msg)
	} else {
		if err := sender.ProgressEnd(pid); err != nil {
			log.Printf("progress: send progress_end for %s: %v", pid, err)
		}
		log.Printf("progress: task %s finished, started %s", pid, humanize.Time(started))
	}

	close(done)
	ctl <- taskmgr.Control{PID: pid, Status: taskmgr.StatusEnd}
}
