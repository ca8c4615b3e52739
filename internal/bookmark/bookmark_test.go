package bookmark

import (
	"path/filepath"
	"testing"

	"github.com/takanopontaro/footloose2/internal/ferrors"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	if err := EnsureFile(path); err != nil {
		t.Fatal(err)
	}
	return New(path)
}

func TestAddGetRenameDelete(t *testing.T) {
	m := newTestManager(t)

	data, err := m.Process(Add, "home", "/home/me")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 1 || data[0].Name != "home" {
		t.Fatalf("got %+v", data)
	}

	data, err = m.Process(Get, "", "")
	if err != nil || len(data) != 1 {
		t.Fatalf("get: %+v, %v", data, err)
	}

	data, err = m.Process(Rename, "home2", "/home/me")
	if err != nil {
		t.Fatal(err)
	}
	if data[0].Name != "home2" {
		t.Fatalf("rename did not apply: %+v", data)
	}

	data, err = m.Process(Delete, "", "/home/me")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty after delete, got %+v", data)
	}
}

func TestAddDuplicatePathErrors(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Process(Add, "a", "/p"); err != nil {
		t.Fatal(err)
	}
	_, err := m.Process(Add, "b", "/p")
	var be *ferrors.BookmarkError
	if err == nil {
		t.Fatal("expected error")
	}
	if !asBookmarkError(err, &be) || be.Kind != ferrors.BookmarkExists {
		t.Fatalf("expected BookmarkExists, got %v", err)
	}
}

func TestRenameNotFound(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Process(Rename, "x", "/missing")
	var be *ferrors.BookmarkError
	if err == nil || !asBookmarkError(err, &be) || be.Kind != ferrors.BookmarkNotFound {
		t.Fatalf("expected BookmarkNotFound, got %v", err)
	}
}

func asBookmarkError(err error, target **ferrors.BookmarkError) bool {
	if be, ok := err.(*ferrors.BookmarkError); ok {
		*target = be
		return true
	}
	return false
}
