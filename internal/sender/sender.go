// Package sender implements the outbound half of a WebSocket connection:
// one JSON envelope writer guarded by a mutex, matching the single-writer
// requirement of gorilla/websocket (a Conn must not be written to from more
// than one goroutine at a time). Every outbound message is shaped
// {cid, status, data}, matching the wire contract every client event uses.
package sender

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/takanopontaro/footloose2/internal/ferrors"
	"github.com/takanopontaro/footloose2/internal/lsdir"
)

// Sender writes reply/notification envelopes to one client connection.
type Sender struct {
	id   string
	mu   sync.Mutex
	conn *websocket.Conn
}

// New wraps an accepted connection, assigning it a fresh id.
func New(conn *websocket.Conn) *Sender {
	return &Sender{id: uuid.NewString(), conn: conn}
}

func (s *Sender) ID() string { return s.id }

// envelope is the shape of every outbound message: cid/status are always
// present (cid is "" for broadcast events with no originating command),
// data carries whatever payload the event needs.
type envelope struct {
	CID    string `json:"cid"`
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// send writes val and reports a write failure as a SenderError rather than
// swallowing it — taskmgr relies on this to suppress re-reporting over a
// connection that just proved it can no longer be written to.
func (s *Sender) send(v envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(v); err != nil {
		return &ferrors.SenderError{Msg: err.Error()}
	}
	return nil
}

func (s *Sender) Success(cmdID string) error {
	return s.send(envelope{CID: cmdID, Status: "SUCCESS"})
}

func (s *Sender) Error(cmdID string, err error) error {
	return s.genericError(cmdID, "ERROR", err)
}

func (s *Sender) Data(cmdID string, data any, status string) error {
	return s.send(envelope{CID: cmdID, Status: status, Data: data})
}

func (s *Sender) CommandError(err error) error {
	return s.genericError("", "COMMAND_ERROR", err)
}

func (s *Sender) WatchErrorDir(err error, path string) error {
	return s.send(envelope{CID: "", Status: "WATCH_ERROR", Data: map[string]any{
		"code": ferrors.Code(err),
		"msg":  err.Error(),
		"path": path,
	}})
}

func (s *Sender) DirUpdate(path string, entries []lsdir.Entry) error {
	return s.Data("", map[string]any{"path": path, "entries": entries}, "DIR_UPDATE")
}

func (s *Sender) ProgressTask(cmdID, pid string) error {
	return s.Data(cmdID, map[string]any{"pid": pid}, "PROGRESS_TASK")
}

func (s *Sender) Progress(pid string, percent int) error {
	return s.send(envelope{CID: "", Status: "PROGRESS", Data: map[string]any{"pid": pid, "progress": percent}})
}

func (s *Sender) ProgressEnd(pid string) error {
	return s.send(envelope{CID: "", Status: "PROGRESS_END", Data: map[string]any{"pid": pid}})
}

func (s *Sender) ProgressError(pid string, msg string) error {
	return s.send(envelope{CID: "", Status: "PROGRESS_ERROR", Data: map[string]any{"pid": pid, "msg": msg}})
}

func (s *Sender) ProgressAbort(pid string) error {
	return s.send(envelope{CID: "", Status: "PROGRESS_ABORT", Data: map[string]any{"pid": pid}})
}

func (s *Sender) genericError(cid, status string, err error) error {
	return s.send(envelope{CID: cid, Status: status, Data: map[string]any{
		"code": ferrors.Code(err),
		"msg":  err.Error(),
	}})
}
