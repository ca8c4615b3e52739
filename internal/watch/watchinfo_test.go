package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/ferrors"
)

func TestWatchMissingDirectoryReturnsWatchStart(t *testing.T) {
	m := New("")
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	sender := newFakeSender("u1")
	arg := connarg.New("u1", sender)

	if _, err := m.Watch(command.FrameA, missing, arg); err == nil {
		t.Fatal("expected an error watching a missing directory")
	} else if got := ferrors.Code(err); got != "E004001" {
		t.Errorf("code = %q, want E004001", got)
	}
}

func TestWatchRemovesRegistryEntryOnIOError(t *testing.T) {
	dir := t.TempDir()
	m := New("")
	sender := newFakeSender("u1")
	arg := connarg.New("u1", sender)

	if _, err := m.Watch(command.FrameA, dir, arg); err != nil {
		t.Fatal(err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		_, ok := m.infos[dir]
		m.mu.Unlock()
		if !ok {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("expected %s to be removed from the registry after its directory vanished", dir)
}
