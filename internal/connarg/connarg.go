// Package connarg defines the per-connection context threaded through every
// task invocation: the connection's identity, its FrameSet, and the Sender
// used to push replies and async notifications back to the client.
package connarg

import (
	"sync"

	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/lsdir"
)

// Sender is the outbound half of one WebSocket connection. Implementations
// must be safe for concurrent use — many goroutines (the inbound command
// handler, WatchInfo pollers, progress task supervisors) write through the
// same Sender concurrently.
type Sender interface {
	ID() string
	Success(cmdID string) error
	Error(cmdID string, err error) error
	Data(cmdID string, data any, status string) error
	CommandError(err error) error
	WatchErrorDir(err error, path string) error
	DirUpdate(path string, entries []lsdir.Entry) error
	ProgressTask(cmdID, pid string) error
	Progress(pid string, percent int) error
	ProgressEnd(pid string) error
	ProgressError(pid string, msg string) error
	ProgressAbort(pid string) error
}

// Arg is the shared context passed into every task. One Arg exists per
// connection and is reused across every command it sends.
type Arg struct {
	UID    string
	Sender Sender

	mu     sync.Mutex
	frames command.FrameSet
}

// New creates an Arg for a freshly accepted connection.
func New(uid string, sender Sender) *Arg {
	return &Arg{UID: uid, Sender: sender}
}

// Frames runs fn with exclusive access to the connection's FrameSet.
func (a *Arg) Frames(fn func(*command.FrameSet)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.frames)
}
