package command

import (
	"testing"

	"github.com/takanopontaro/footloose2/internal/ferrors"
)

func TestFrameSetPathToBeUnused(t *testing.T) {
	fs := &FrameSet{}
	fs.UpdatePath(FrameA, "/x")
	fs.UpdatePath(FrameB, "/x")

	// B also shows /x, so A must not unwatch it.
	if _, ok := fs.PathToBeUnused(FrameA, "/y"); ok {
		t.Errorf("expected no unwatch when other frame shares the path")
	}

	fs.UpdatePath(FrameB, "/z")
	path, ok := fs.PathToBeUnused(FrameA, "/y")
	if !ok || path != "/x" {
		t.Errorf("PathToBeUnused = %q, %v, want /x, true", path, ok)
	}

	// Unchanged path: nothing to unwatch.
	if _, ok := fs.PathToBeUnused(FrameA, "/x"); ok {
		t.Errorf("expected no unwatch for unchanged path")
	}
}

func TestFrameSetInvalidKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on invalid frame key")
		}
	}()
	fs := &FrameSet{}
	fs.UpdatePath(Frame("c"), "/x")
}

func TestParseInvalidFrame(t *testing.T) {
	_, err := Parse([]byte(`{"id":"1","name":"cd","frame":"c","cwd":"/","args":{}}`))
	if err == nil {
		t.Fatal("expected error for invalid frame")
	}
	if got := ferrors.Code(err); got != "E001001" {
		t.Errorf("code = %q, want E001001", got)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	_, err := Parse([]byte(`{"id":"1","name":"cd","frame":"a","cwd":"/","args":{},"extra":true}`))
	if err == nil {
		t.Fatal("expected error for unknown top-level key")
	}
	if got := ferrors.Code(err); got != "E001001" {
		t.Errorf("code = %q, want E001001", got)
	}
}

func TestParseRejectsMissingFields(t *testing.T) {
	cases := []string{
		`{"name":"cd","frame":"a","cwd":"/","args":{}}`,
		`{"id":"1","frame":"a","cwd":"/","args":{}}`,
		`{"id":"1","name":"cd","frame":"a","args":{}}`,
		`{"id":"1","name":"cd","frame":"a","cwd":"/"}`,
		`{"id":"1","name":"cd","frame":"a","cwd":"/","args":[1,2]}`,
	}
	for _, raw := range cases {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Errorf("Parse(%s): expected error", raw)
		}
	}
}

func TestParseAccepts(t *testing.T) {
	cmd, err := Parse([]byte(`{"id":"1","name":"cd","frame":"a","cwd":"/","args":{"path":"/x"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.ID != "1" || cmd.Name != "cd" || cmd.Frame != FrameA || cmd.Cwd != "/" {
		t.Errorf("unexpected parsed command: %+v", cmd)
	}
}
