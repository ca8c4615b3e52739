// Package ferrors defines the typed, coded errors reported back to clients
// over the WebSocket connection. Every error the core emits carries a
// stable code so the UI can branch on failure kind without string matching.
package ferrors

import (
	"errors"
	"fmt"
)

// Coded is implemented by every error type in this package.
type Coded interface {
	error
	Code() string
}

// Code walks err's chain looking for the first Coded error and returns its
// code, or "" if none is found.
func Code(err error) string {
	var c Coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// Command errors (E001xxx).
type CommandError struct {
	Kind CommandErrorKind
	Msg  string
}

type CommandErrorKind int

const (
	CommandParse CommandErrorKind = iota
	CommandNotFound
	CommandArgs
)

func (e *CommandError) Error() string { return e.Msg }

func (e *CommandError) Code() string {
	switch e.Kind {
	case CommandParse:
		return "E001001"
	case CommandNotFound:
		return "E001002"
	case CommandArgs:
		return "E001003"
	}
	return ""
}

// Sender errors (E002xxx).
type SenderError struct{ Msg string }

func (e *SenderError) Error() string { return e.Msg }
func (e *SenderError) Code() string  { return "E002001" }

// Task errors (E003xxx) — the universal "try_run failed" wrapper.
type TaskError struct{ Msg string }

func (e *TaskError) Error() string { return e.Msg }
func (e *TaskError) Code() string  { return "E003001" }

// Watch errors (E004xxx).
type WatchError struct {
	Kind WatchErrorKind
	Msg  string
	Path string
}

type WatchErrorKind int

const (
	// WatchStart covers a watch's initial listing failing — the directory
	// could not be read at all when the subscription was opened.
	WatchStart WatchErrorKind = iota
	// WatchDir covers a running watch losing its directory after it was
	// successfully opened (removed out from under it, permissions
	// revoked, etc).
	WatchDir
)

func (e *WatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Msg, e.Path)
	}
	return e.Msg
}

func (e *WatchError) Code() string {
	switch e.Kind {
	case WatchStart:
		return "E004001"
	case WatchDir:
		return "E004002"
	}
	return ""
}

// Bookmark errors (E005xxx).
type BookmarkError struct {
	Kind BookmarkErrorKind
	Msg  string
}

type BookmarkErrorKind int

const (
	BookmarkNotAvailable BookmarkErrorKind = iota
	BookmarkNotFound
	BookmarkExists
	BookmarkIO
)

func (e *BookmarkError) Error() string { return e.Msg }

func (e *BookmarkError) Code() string {
	switch e.Kind {
	case BookmarkNotAvailable:
		return "E005001"
	case BookmarkNotFound:
		return "E005002"
	case BookmarkExists:
		return "E005003"
	case BookmarkIO:
		return "E005004"
	}
	return ""
}

// Virtual directory errors (E006xxx).
type VirtualDirError struct {
	Kind VirtualDirErrorKind
	Msg  string
}

type VirtualDirErrorKind int

const (
	VirtualDirUnsupportedArchive VirtualDirErrorKind = iota
	VirtualDirOutsideRoot
	VirtualDirArgs
)

func (e *VirtualDirError) Error() string { return e.Msg }

func (e *VirtualDirError) Code() string {
	switch e.Kind {
	case VirtualDirUnsupportedArchive:
		return "E006001"
	case VirtualDirOutsideRoot:
		return "E006002"
	case VirtualDirArgs:
		return "E006003"
	}
	return ""
}
