package task

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/takanopontaro/footloose2/internal/command"
)

func TestOpenCommandDefaultsToPlatformOpener(t *testing.T) {
	name, args := openCommand("/tmp/a.txt", "")
	switch runtime.GOOS {
	case "darwin":
		if name != "open" || len(args) != 1 || args[0] != "/tmp/a.txt" {
			t.Errorf("got (%q, %v)", name, args)
		}
	case "windows":
		if name != "cmd" {
			t.Errorf("got (%q, %v)", name, args)
		}
	default:
		if name != "xdg-open" || len(args) != 1 || args[0] != "/tmp/a.txt" {
			t.Errorf("got (%q, %v)", name, args)
		}
	}
}

func TestOpenCommandWithExplicitApp(t *testing.T) {
	name, args := openCommand("/tmp/a.txt", "vim")
	switch runtime.GOOS {
	case "darwin":
		if name != "open" || len(args) != 3 || args[0] != "-a" || args[1] != "vim" {
			t.Errorf("got (%q, %v)", name, args)
		}
	case "windows":
		if name != "cmd" {
			t.Errorf("got (%q, %v)", name, args)
		}
	default:
		if name != "vim" || len(args) != 1 || args[0] != "/tmp/a.txt" {
			t.Errorf("got (%q, %v)", name, args)
		}
	}
}

func TestOpenValidateRequiresPath(t *testing.T) {
	task := &Open{}
	cmd := &command.Command{Name: "open", Args: json.RawMessage(`{"path":""}`)}
	if err := task.Validate(cmd); err == nil {
		t.Fatal("expected validation error for empty path")
	}
}
