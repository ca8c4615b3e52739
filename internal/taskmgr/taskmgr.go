// Package taskmgr implements the task registry and the control-channel
// dispatcher that runs every named command against its registered task,
// and that cancels or cleans up in-flight progress tasks.
package taskmgr

import (
	"fmt"
	"log"
	"sync"

	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/ferrors"
)

// ResultKind discriminates the four shapes a task's outcome can take.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultData
	ResultProgress
	ResultError
)

// Result is what a task's TryRun returns on success (including its own
// modeled Error case — distinct from the Go error TryRun itself can
// return, which represents an unexpected failure to be wrapped as a
// generic TaskError).
type Result struct {
	Kind    ResultKind
	Data    any
	Status  string
	PID     string
	Dispose func() // invoked only if the task is aborted
	Err     error
}

func Success() Result                       { return Result{Kind: ResultSuccess} }
func DataResult(data any, status string) Result { return Result{Kind: ResultData, Data: data, Status: status} }
func ProgressResult(pid string, dispose func()) Result {
	return Result{Kind: ResultProgress, PID: pid, Dispose: dispose}
}
func ErrorResult(err error) Result { return Result{Kind: ResultError, Err: err} }

// Task is a client-invokable, named, schema-validated operation.
type Task interface {
	Validate(cmd *command.Command) error
	TryRun(cmd *command.Command, arg *connarg.Arg, ctl chan<- Control) (Result, error)
}

// InternalTask is invoked by the server itself, never by a client command,
// and has no schema to validate against.
type InternalTask interface {
	Run(arg *connarg.Arg) error
}

// Status is the outcome published on the control channel for one pid.
type Status int

const (
	StatusEnd Status = iota
	StatusAbort
)

// Control correlates a progress task's pid with its terminal status.
type Control struct {
	PID    string
	Status Status
}

// Manager dispatches commands to registered tasks and owns the control
// channel that progress tasks and their abort requests share.
type Manager struct {
	tasks    map[string]Task
	internal map[string]InternalTask

	ctl chan Control

	mu        sync.Mutex
	disposers map[string]func()          // pid -> dispose
	bySender  map[string]map[string]bool // sender id -> set of pid

	// OnCommand, if set, is called once per dispatched command with its
	// name, frame, cwd and outcome ("success", "data", "progress", or
	// "error"). Used to feed the supplemental command history log
	// without coupling taskmgr to it.
	OnCommand func(name, frame, cwd, outcome string)
}

// New creates a Manager and starts its control-channel dispatcher.
func New() *Manager {
	m := &Manager{
		tasks:     make(map[string]Task),
		internal:  make(map[string]InternalTask),
		ctl:       make(chan Control, 64),
		disposers: make(map[string]func()),
		bySender:  make(map[string]map[string]bool),
	}
	go m.dispatchControl()
	return m
}

// Register adds a named, client-invokable task.
func (m *Manager) Register(name string, t Task) {
	m.tasks[name] = t
}

// RegisterInternal adds a server-invoked task.
func (m *Manager) RegisterInternal(name string, t InternalTask) {
	m.internal[name] = t
}

func (m *Manager) dispatchControl() {
	for ctrl := range m.ctl {
		m.mu.Lock()
		dispose, ok := m.disposers[ctrl.PID]
		delete(m.disposers, ctrl.PID)
		for _, pids := range m.bySender {
			delete(pids, ctrl.PID)
		}
		m.mu.Unlock()

		if ok && ctrl.Status == StatusAbort && dispose != nil {
			dispose()
		}
	}
}

// Run dispatches cmd to its registered task and replies through arg.Sender.
func (m *Manager) Run(cmd *command.Command, arg *connarg.Arg) {
	task, ok := m.tasks[cmd.Name]
	if !ok {
		err := &ferrors.CommandError{Kind: ferrors.CommandNotFound, Msg: fmt.Sprintf("unknown command %q", cmd.Name)}
		m.reportError(arg, cmd.ID, err)
		m.logOutcome(cmd, "error")
		return
	}
	if err := task.Validate(cmd); err != nil {
		m.reportError(arg, cmd.ID, err)
		m.logOutcome(cmd, "error")
		return
	}

	result, err := task.TryRun(cmd, arg, m.ctl)
	if err != nil {
		if _, isSenderErr := err.(*ferrors.SenderError); isSenderErr {
			return
		}
		m.reportError(arg, cmd.ID, &ferrors.TaskError{Msg: err.Error()})
		m.logOutcome(cmd, "error")
		return
	}

	switch result.Kind {
	case ResultSuccess:
		if err := arg.Sender.Success(cmd.ID); err != nil {
			log.Printf("taskmgr: send success: %v", err)
		}
		m.logOutcome(cmd, "success")
	case ResultData:
		status := result.Status
		if status == "" {
			status = "SUCCESS"
		}
		if err := arg.Sender.Data(cmd.ID, result.Data, status); err != nil {
			log.Printf("taskmgr: send data: %v", err)
		}
		m.logOutcome(cmd, "data")
	case ResultProgress:
		if err := arg.Sender.ProgressTask(cmd.ID, result.PID); err != nil {
			log.Printf("taskmgr: send progress_task: %v", err)
		}
		m.registerDisposer(arg.Sender.ID(), result.PID, result.Dispose)
		m.logOutcome(cmd, "progress")
	case ResultError:
		m.reportError(arg, cmd.ID, result.Err)
		m.logOutcome(cmd, "error")
	}
}

// reportError sends an error reply, logging (rather than retrying) a send
// failure — a broken connection is never reported to itself a second time.
func (m *Manager) reportError(arg *connarg.Arg, cmdID string, err error) {
	if sendErr := arg.Sender.Error(cmdID, err); sendErr != nil {
		log.Printf("taskmgr: send error: %v", sendErr)
	}
}

func (m *Manager) logOutcome(cmd *command.Command, outcome string) {
	if m.OnCommand == nil {
		return
	}
	m.OnCommand(cmd.Name, string(cmd.Frame), cmd.Cwd, outcome)
}

func (m *Manager) registerDisposer(senderID, pid string, dispose func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposers[pid] = dispose
	if m.bySender[senderID] == nil {
		m.bySender[senderID] = make(map[string]bool)
	}
	m.bySender[senderID][pid] = true
}

// RunInternal runs a server-invoked task. A missing task name or a failing
// internal task is a programming error, not a recoverable runtime
// condition, and is fatal.
func (m *Manager) RunInternal(name string, arg *connarg.Arg) {
	t, ok := m.internal[name]
	if !ok {
		log.Fatalf("taskmgr: internal task %q not registered", name)
	}
	if err := t.Run(arg); err != nil {
		log.Fatalf("taskmgr: internal task %q: %v", name, err)
	}
}

// DropAllDisposers aborts every in-flight progress task owned by senderID,
// called once when its connection closes.
func (m *Manager) DropAllDisposers(senderID string) {
	m.mu.Lock()
	pids := m.bySender[senderID]
	delete(m.bySender, senderID)
	m.mu.Unlock()

	for pid := range pids {
		select {
		case m.ctl <- Control{PID: pid, Status: StatusAbort}:
		default:
			log.Printf("taskmgr: control channel full, dropping abort for pid %s", pid)
		}
	}
}
