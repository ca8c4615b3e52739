// Package bookmark implements the JSON-file-backed bookmark list: a flat
// array of {name, path} pairs the UI lets a user jump to.
package bookmark

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/takanopontaro/footloose2/internal/ferrors"
)

// Bookmark is one saved location.
type Bookmark struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Manager guards read-modify-write access to the bookmark file.
type Manager struct {
	path string
	mu   sync.Mutex
}

// New wraps the bookmark file at path. EnsureFile should be called once at
// startup to create it if missing.
func New(path string) *Manager {
	return &Manager{path: path}
}

// EnsureFile creates an empty bookmark array at path if it does not yet
// exist, including any missing parent directories.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(parentDir(path), 0755); err != nil {
		return &ferrors.BookmarkError{Kind: ferrors.BookmarkIO, Msg: err.Error()}
	}
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		return &ferrors.BookmarkError{Kind: ferrors.BookmarkIO, Msg: err.Error()}
	}
	return nil
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

// Action is one of the four bookmark operations a command can request.
type Action string

const (
	Get    Action = "get"
	Add    Action = "add"
	Rename Action = "rename"
	Delete Action = "delete"
)

// Process applies action and returns the resulting full bookmark list.
func (m *Manager) Process(action Action, name, path string) ([]Bookmark, error) {
	if m.path == "" {
		return nil, &ferrors.BookmarkError{Kind: ferrors.BookmarkNotAvailable, Msg: "no bookmark file configured"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.load()
	if err != nil {
		return nil, err
	}

	if err := validate(action, name, path, data); err != nil {
		return nil, err
	}

	switch action {
	case Add:
		data = append([]Bookmark{{Name: name, Path: path}}, data...)
	case Rename:
		for i := range data {
			if data[i].Path == path {
				data[i].Name = name
				break
			}
		}
	case Delete:
		kept := data[:0]
		for _, b := range data {
			if b.Path != path {
				kept = append(kept, b)
			}
		}
		data = kept
	case Get:
		// no mutation
	}

	if action != Get {
		if err := m.save(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func validate(action Action, name, path string, data []Bookmark) error {
	switch action {
	case Get:
		return nil
	case Rename:
		for _, b := range data {
			if b.Name == name {
				return &ferrors.BookmarkError{Kind: ferrors.BookmarkExists, Msg: "name already exists"}
			}
		}
	case Add:
		for _, b := range data {
			if b.Path == path {
				return &ferrors.BookmarkError{Kind: ferrors.BookmarkExists, Msg: "path already bookmarked"}
			}
		}
		return nil
	case Delete:
		// fall through to the NotFound check below
	}

	if action != Add {
		for _, b := range data {
			if b.Path == path {
				return nil
			}
		}
		return &ferrors.BookmarkError{Kind: ferrors.BookmarkNotFound, Msg: "no bookmark for path"}
	}
	return nil
}

func (m *Manager) load() ([]Bookmark, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		return nil, toIOError(err)
	}
	var data []Bookmark
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &ferrors.BookmarkError{Kind: ferrors.BookmarkIO, Msg: err.Error()}
	}
	return data, nil
}

func (m *Manager) save(data []Bookmark) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return &ferrors.BookmarkError{Kind: ferrors.BookmarkIO, Msg: err.Error()}
	}
	if err := os.WriteFile(m.path, raw, 0644); err != nil {
		return toIOError(err)
	}
	return nil
}

func toIOError(err error) error {
	if os.IsNotExist(err) {
		return &ferrors.BookmarkError{Kind: ferrors.BookmarkNotFound, Msg: err.Error()}
	}
	return &ferrors.BookmarkError{Kind: ferrors.BookmarkIO, Msg: err.Error()}
}
