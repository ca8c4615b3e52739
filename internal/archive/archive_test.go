package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeTar(t *testing.T, path string, gzipped bool, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var tw *tar.Writer
	var gz *gzip.Writer
	if gzipped {
		gz = gzip.NewWriter(f)
		tw = tar.NewWriter(gz)
	} else {
		tw = tar.NewWriter(f)
	}
	for name, content := range files {
		hdr := &tar.Header{Name: name, Size: int64(len(content)), Mode: 0644}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestZipEntriesAndOpen(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "a.zip")
	writeZip(t, zipPath, map[string]string{"a.txt": "hello", "sub/b.txt": "world"})

	a, err := Open(KindZip, zipPath)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	entries, err := a.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Path == "a.txt" {
			r, err := a.Open(e)
			if err != nil {
				t.Fatal(err)
			}
			b, _ := io.ReadAll(r)
			r.Close()
			if string(b) != "hello" {
				t.Errorf("a.txt content = %q, want hello", b)
			}
		}
	}
}

func TestTgzEntriesAndOpen(t *testing.T) {
	dir := t.TempDir()
	tgzPath := filepath.Join(dir, "a.tgz")
	writeTar(t, tgzPath, true, map[string]string{"x.txt": "abc"})

	a, err := Open(KindTgz, tgzPath)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	entries, err := a.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Path != "x.txt" {
		t.Fatalf("entries = %+v", entries)
	}

	r, err := a.Open(entries[0])
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "abc" {
		t.Errorf("content = %q, want abc", buf.String())
	}
}

func TestParseKindUnsupported(t *testing.T) {
	if _, err := ParseKind("rar"); err == nil {
		t.Errorf("expected error for unsupported kind")
	}
}
