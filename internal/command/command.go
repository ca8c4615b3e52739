// Package command defines the wire-level command envelope sent by clients
// over the WebSocket connection, and the small per-connection FrameSet that
// tracks which directory each of the two panes is currently showing.
package command

import (
	"encoding/json"
	"fmt"

	"github.com/takanopontaro/footloose2/internal/ferrors"
)

// Frame identifies one of the two panes a connection maintains.
type Frame string

const (
	FrameA Frame = "a"
	FrameB Frame = "b"
)

func (f Frame) valid() bool { return f == FrameA || f == FrameB }

// Command is a single request decoded off the wire.
type Command struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Frame Frame           `json:"frame"`
	Cwd   string          `json:"cwd"`
	Args  json.RawMessage `json:"args"`
}

// envelopeKeys are the only top-level keys a command envelope may carry.
var envelopeKeys = map[string]bool{"id": true, "name": true, "frame": true, "cwd": true, "args": true}

// Parse decodes a raw text frame into a Command, validating it against the
// wire envelope schema: id/cwd/name non-empty, frame one of "a"/"b", args
// present and an object, and no keys beyond the five above. Every failure
// is reported as CommandParse, matching the single schema-validation
// error kind the wire protocol exposes to clients.
func Parse(raw []byte) (*Command, error) {
	var raw_ map[string]json.RawMessage
	if err := json.Unmarshal(raw, &raw_); err != nil {
		return nil, &ferrors.CommandError{Kind: ferrors.CommandParse, Msg: fmt.Sprintf("parse command: %v", err)}
	}
	for k := range raw_ {
		if !envelopeKeys[k] {
			return nil, &ferrors.CommandError{Kind: ferrors.CommandParse, Msg: fmt.Sprintf("unknown command key %q", k)}
		}
	}

	var c Command
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, &ferrors.CommandError{Kind: ferrors.CommandParse, Msg: fmt.Sprintf("parse command: %v", err)}
	}
	if c.ID == "" {
		return nil, &ferrors.CommandError{Kind: ferrors.CommandParse, Msg: "id is required"}
	}
	if c.Name == "" {
		return nil, &ferrors.CommandError{Kind: ferrors.CommandParse, Msg: "name is required"}
	}
	if c.Cwd == "" {
		return nil, &ferrors.CommandError{Kind: ferrors.CommandParse, Msg: "cwd is required"}
	}
	if !c.Frame.valid() {
		return nil, &ferrors.CommandError{Kind: ferrors.CommandParse, Msg: fmt.Sprintf("invalid frame %q", c.Frame)}
	}
	argsRaw, hasArgs := raw_["args"]
	if !hasArgs {
		return nil, &ferrors.CommandError{Kind: ferrors.CommandParse, Msg: "args is required"}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(argsRaw, &obj); err != nil || obj == nil {
		return nil, &ferrors.CommandError{Kind: ferrors.CommandParse, Msg: "args must be an object"}
	}
	return &c, nil
}

// ArgsInto unmarshals the command's Args payload into dst.
func (c *Command) ArgsInto(dst any) error {
	if len(c.Args) == 0 {
		return nil
	}
	return json.Unmarshal(c.Args, dst)
}

// FrameSet tracks the path currently shown in each of the two panes for one
// connection. Both start empty until the client issues its first cd/cvd.
type FrameSet struct {
	a, b string
}

// Path returns the current path of frame f. f must be FrameA or FrameB;
// any other value is a programmer error (command parsing already
// guarantees the frame is one of the two), so it panics.
func (fs *FrameSet) Path(f Frame) string {
	switch f {
	case FrameA:
		return fs.a
	case FrameB:
		return fs.b
	}
	panic(fmt.Sprintf("invalid frame %q", f))
}

// OtherPath returns the current path of the frame other than f.
func (fs *FrameSet) OtherPath(f Frame) string {
	switch f {
	case FrameA:
		return fs.b
	case FrameB:
		return fs.a
	}
	panic(fmt.Sprintf("invalid frame %q", f))
}

// BothPaths returns (a, b).
func (fs *FrameSet) BothPaths() (string, string) {
	return fs.a, fs.b
}

// UpdatePath sets the current path of frame f.
func (fs *FrameSet) UpdatePath(f Frame, path string) {
	switch f {
	case FrameA:
		fs.a = path
	case FrameB:
		fs.b = path
	default:
		panic(fmt.Sprintf("invalid frame %q", f))
	}
}

// PathToBeUnused reports the path that frame f is about to stop using, for
// the caller to unwatch — unless the other frame is also showing it, or
// it's unchanged, in which case there is nothing to unwatch.
func (fs *FrameSet) PathToBeUnused(f Frame, newPath string) (string, bool) {
	cur := fs.Path(f)
	if cur == newPath {
		return "", false
	}
	if fs.OtherPath(f) == cur {
		return "", false
	}
	return cur, true
}
