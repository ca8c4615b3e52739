// Package watch implements the directory watch primitive (500ms polling +
// ctime fingerprint) and the per-connection subscription bookkeeping on top
// of it.
package watch

import (
	"sync"

	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/lsdir"
)

// Manager owns every currently-watched directory, keyed by absolute path.
// A directory stops being watched as soon as its last subscriber leaves.
type Manager struct {
	timeStyle string

	mu    sync.Mutex
	infos map[string]*info
}

// New creates an empty Manager. timeStyle is the strftime-subset format
// string used when rendering entry timestamps.
func New(timeStyle string) *Manager {
	return &Manager{timeStyle: timeStyle, infos: make(map[string]*info)}
}

// Watch subscribes arg's connection to path under frame, unsubscribing it
// from whatever path frame previously showed (unless the other frame still
// needs it). Returns the directory's current listing.
func (m *Manager) Watch(frame command.Frame, path string, arg *connarg.Arg) ([]lsdir.Entry, error) {
	wi, err := m.getOrCreate(path)
	if err != nil {
		return nil, err
	}

	var oldPath string
	var shouldUnwatch bool
	arg.Frames(func(fs *command.FrameSet) {
		oldPath, shouldUnwatch = fs.PathToBeUnused(frame, path)
		fs.UpdatePath(frame, path)
	})

	wi.addSubscriber(arg.UID, arg.Sender)
	if shouldUnwatch {
		m.unsubscribe(oldPath, arg.UID)
	}
	return wi.snapshot(), nil
}

// Unwatch records newPath as frame's path without subscribing to it (it
// may be "" for virtual directories, which are never watched) and
// unsubscribes whatever frame previously showed.
func (m *Manager) Unwatch(frame command.Frame, newPath string, arg *connarg.Arg) {
	var oldPath string
	var shouldUnwatch bool
	arg.Frames(func(fs *command.FrameSet) {
		oldPath, shouldUnwatch = fs.PathToBeUnused(frame, newPath)
		fs.UpdatePath(frame, newPath)
	})
	if shouldUnwatch {
		m.unsubscribe(oldPath, arg.UID)
	}
}

// RemoveSubscriber unsubscribes uid from every path it watches. Called once
// when a connection closes.
func (m *Manager) RemoveSubscriber(arg *connarg.Arg) {
	var a, b string
	arg.Frames(func(fs *command.FrameSet) {
		a, b = fs.BothPaths()
	})
	if a != "" {
		m.unsubscribe(a, arg.UID)
	}
	if b != "" && b != a {
		m.unsubscribe(b, arg.UID)
	}
}

func (m *Manager) getOrCreate(path string) (*info, error) {
	m.mu.Lock()
	if wi, ok := m.infos[path]; ok {
		m.mu.Unlock()
		return wi, nil
	}
	m.mu.Unlock()

	wi, err := newInfo(path, m.timeStyle, m.onEmpty)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another goroutine may have created the same watch concurrently;
	// prefer the one already registered and discard ours.
	if existing, ok := m.infos[path]; ok {
		wi.abort()
		return existing, nil
	}
	m.infos[path] = wi
	return wi, nil
}

func (m *Manager) unsubscribe(path, uid string) {
	m.mu.Lock()
	wi, ok := m.infos[path]
	m.mu.Unlock()
	if !ok {
		return
	}
	wi.removeSubscriber(uid)
}

func (m *Manager) onEmpty(path string) {
	m.mu.Lock()
	delete(m.infos, path)
	m.mu.Unlock()
}
