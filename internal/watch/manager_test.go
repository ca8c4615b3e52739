package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/lsdir"
)

type fakeSender struct {
	id string

	mu      sync.Mutex
	updates [][]lsdir.Entry
	errs    int
}

func newFakeSender(id string) *fakeSender { return &fakeSender{id: id} }

func (f *fakeSender) ID() string                       { return f.id }
func (f *fakeSender) Success(string) error             { return nil }
func (f *fakeSender) Error(string, error) error         { return nil }
func (f *fakeSender) Data(string, any, string) error    { return nil }
func (f *fakeSender) CommandError(error) error          { return nil }
func (f *fakeSender) WatchErrorDir(error, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs++
	return nil
}
func (f *fakeSender) DirUpdate(path string, entries []lsdir.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, entries)
	return nil
}
func (f *fakeSender) ProgressTask(string, string) error  { return nil }
func (f *fakeSender) Progress(string, int) error         { return nil }
func (f *fakeSender) ProgressEnd(string) error            { return nil }
func (f *fakeSender) ProgressError(string, string) error { return nil }
func (f *fakeSender) ProgressAbort(string) error          { return nil }

func (f *fakeSender) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func TestWatchSubscribeAndSwitchFrame(t *testing.T) {
	dir := t.TempDir()
	m := New("")
	sender := newFakeSender("u1")
	arg := connarg.New("u1", sender)

	entries, err := m.Watch(command.FrameA, dir, arg)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 { // only ".."
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	m.mu.Lock()
	if _, ok := m.infos[dir]; !ok {
		t.Fatalf("expected watch registered for %s", dir)
	}
	m.mu.Unlock()

	// Moving frame A elsewhere with no other subscriber should drop the
	// watch for dir.
	dir2 := t.TempDir()
	if _, err := m.Watch(command.FrameA, dir2, arg); err != nil {
		t.Fatal(err)
	}
	m.mu.Lock()
	_, stillThere := m.infos[dir]
	m.mu.Unlock()
	if stillThere {
		t.Errorf("expected watch for %s to be dropped after frame moved away", dir)
	}
}

func TestWatchDetectsNewFile(t *testing.T) {
	dir := t.TempDir()
	m := New("")
	sender := newFakeSender("u1")
	arg := connarg.New("u1", sender)

	if _, err := m.Watch(command.FrameA, dir, arg); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sender.updateCount() > 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("expected a dir_update after adding a file")
}
