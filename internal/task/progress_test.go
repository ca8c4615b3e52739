package task

import (
	"encoding/json"
	"testing"

	"github.com/takanopontaro/footloose2/internal/command"
)

func TestRunCountParsesIntegerStdout(t *testing.T) {
	n, err := runCount("echo 3", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("n = %d, want 3", n)
	}
}

func TestRunCountRejectsNonIntegerStdout(t *testing.T) {
	if _, err := runCount("echo not-a-number", t.TempDir()); err == nil {
		t.Fatal("expected an error for non-integer output")
	}
}

func TestProgressValidateRequiresConfig(t *testing.T) {
	task := &Progress{}
	args, _ := json.Marshal(progressArgs{Sources: []string{"/a"}})
	cmd := &command.Command{Name: "progress", Args: args}
	if err := task.Validate(cmd); err == nil {
		t.Fatal("expected validation error when config.cmd/config.total are missing")
	}
}
