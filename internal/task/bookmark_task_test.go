package task

import (
	"encoding/json"
	"path/filepath"
	"testing"

	bm "github.com/takanopontaro/footloose2/internal/bookmark"
	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
)

func TestBookmarkTaskAddCallsOnMutate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	if err := bm.EnsureFile(path); err != nil {
		t.Fatal(err)
	}

	var calledAction, calledName, calledPath string
	task := &Bookmark{
		Manager: bm.New(path),
		OnMutate: func(action, name, p string) {
			calledAction, calledName, calledPath = action, name, p
		},
	}

	args, _ := json.Marshal(bookmarkArgs{Action: "add", Name: "home", Path: "projects"})
	cmd := &command.Command{ID: "1", Name: "bookmark", Cwd: "/root", Args: args}

	result, err := task.TryRun(cmd, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != taskmgr.ResultData {
		t.Fatalf("result kind = %v, want ResultData", result.Kind)
	}
	if calledAction != "add" || calledName != "home" {
		t.Errorf("OnMutate not called with expected args: action=%q name=%q path=%q", calledAction, calledName, calledPath)
	}
}

func TestBookmarkTaskGetDoesNotCallOnMutate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	if err := bm.EnsureFile(path); err != nil {
		t.Fatal(err)
	}

	called := false
	task := &Bookmark{
		Manager:  bm.New(path),
		OnMutate: func(string, string, string) { called = true },
	}

	args, _ := json.Marshal(bookmarkArgs{Action: "get"})
	cmd := &command.Command{ID: "1", Name: "bookmark", Cwd: "/root", Args: args}

	if _, err := task.TryRun(cmd, nil, nil); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("OnMutate must not be called for a get action")
	}
}

func TestBookmarkTaskValidateRejectsUnknownAction(t *testing.T) {
	task := &Bookmark{}
	args, _ := json.Marshal(bookmarkArgs{Action: "bogus"})
	cmd := &command.Command{Name: "bookmark", Args: args}
	if err := task.Validate(cmd); err == nil {
		t.Fatal("expected validation error for unknown action")
	}
}
