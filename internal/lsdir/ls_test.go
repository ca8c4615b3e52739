package lsdir

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEntriesIncludesParentAndSortsByRawName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := Entries(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	if entries[0].Name != ".." {
		t.Errorf("first entry = %q, want ..", entries[0].Name)
	}
	want := []string{"..", "a.txt", "b.txt", "c.txt"}
	for i, w := range want {
		if entries[i].Name != w {
			t.Errorf("entries[%d].Name = %q, want %q", i, entries[i].Name, w)
		}
	}
}

func TestSignatureChangesWhenDirChanges(t *testing.T) {
	dir := t.TempDir()
	sig1, err := Signature(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	sig2, err := Signature(dir)
	if err != nil {
		t.Fatal(err)
	}
	if sig1 == sig2 {
		t.Errorf("signature did not change after adding a file")
	}
}

func TestFormatTimeDefaultStyle(t *testing.T) {
	got := FormatTime(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), "")
	if want := "25/01/02 03:04:05"; got != want {
		t.Errorf("FormatTime = %q, want %q", got, want)
	}
}
