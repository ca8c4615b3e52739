package task

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/lsdir"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
	"github.com/takanopontaro/footloose2/internal/watch"
)

func writeNestedZipFixture(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for _, name := range []string{"dir/a.txt", "dir/sub/b.txt"} {
		w, _ := zw.Create(name)
		w.Write([]byte("x"))
	}
	zw.Close()
}

func TestChangeVirtualDirListsNestedEntries(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "a.zip")
	writeNestedZipFixture(t, zipPath)

	task := &ChangeVirtualDir{Watch: watch.New("")}
	args, _ := json.Marshal(changeVirtualDirArgs{Kind: "zip", Archive: zipPath, Path: zipPath + "/dir"})
	cmd := &command.Command{ID: "1", Name: "cvd", Frame: command.FrameA, Args: args}
	arg := connarg.New("u1", &nopSender{id: "u1"})

	result, err := task.TryRun(cmd, arg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != taskmgr.ResultData {
		t.Fatalf("result kind = %v, want ResultData", result.Kind)
	}
	entries, ok := result.Data.([]lsdir.Entry)
	if !ok {
		t.Fatalf("data type = %T", result.Data)
	}
	// ".." plus "a.txt" and the synthetic "sub" directory.
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}
}

func TestChangeVirtualDirRejectsInvalidKind(t *testing.T) {
	task := &ChangeVirtualDir{}
	args, _ := json.Marshal(changeVirtualDirArgs{Kind: "rar", Archive: "/a", Path: "/a/b"})
	cmd := &command.Command{Name: "cvd", Args: args}
	if err := task.Validate(cmd); err == nil {
		t.Fatal("expected validation error for unsupported kind")
	}
}
