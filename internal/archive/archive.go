// Package archive implements a uniform entry iterator over zip, tar, and
// gzipped-tar (tgz) archives, used by the virtual directory engine and the
// extract-entries task.
package archive

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"time"

	kgzip "github.com/klauspost/compress/gzip"

	"github.com/takanopontaro/footloose2/internal/ferrors"
	"github.com/takanopontaro/footloose2/internal/pathutil"
)

// Kind identifies a supported archive container format.
type Kind string

const (
	KindZip Kind = "zip"
	KindTar Kind = "tar"
	KindTgz Kind = "tgz"
)

// ParseKind validates a string against the supported kinds.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindZip, KindTar, KindTgz:
		return Kind(s), nil
	default:
		return "", &ferrors.VirtualDirError{Kind: ferrors.VirtualDirUnsupportedArchive, Msg: fmt.Sprintf("unsupported archive kind %q", s)}
	}
}

// Entry describes one member of an archive, decoded to a clean, NFC-
// normalized, "./"-stripped path.
type Entry struct {
	Path    string
	IsDir   bool
	Size    int64
	Mode    os.FileMode
	ModTime time.Time

	index int
}

// Archive is a uniform read-only view over an archive's members.
type Archive interface {
	// Entries lists every member without reading file content.
	Entries() ([]Entry, error)
	// Open returns a reader for e's content. The caller must Close it.
	Open(e Entry) (io.ReadCloser, error)
	Close() error
}

// Open opens path as an archive of the given kind.
func Open(kind Kind, path string) (Archive, error) {
	switch kind {
	case KindZip:
		return openZip(path)
	case KindTar:
		return &tarArchive{path: path, gzipped: false}, nil
	case KindTgz:
		return &tarArchive{path: path, gzipped: true}, nil
	default:
		return nil, &ferrors.VirtualDirError{Kind: ferrors.VirtualDirUnsupportedArchive, Msg: fmt.Sprintf("unsupported archive kind %q", kind)}
	}
}

// --- zip ---

type zipArchive struct {
	zr *zip.ReadCloser
}

func openZip(path string) (Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", path, err)
	}
	return &zipArchive{zr: zr}, nil
}

func (a *zipArchive) Entries() ([]Entry, error) {
	out := make([]Entry, 0, len(a.zr.File))
	for i, f := range a.zr.File {
		out = append(out, Entry{
			Path:    pathutil.DecodeString([]byte(f.Name)),
			IsDir:   f.FileInfo().IsDir(),
			Size:    int64(f.UncompressedSize64),
			Mode:    f.Mode(),
			ModTime: f.Modified,
			index:   i,
		})
	}
	return out, nil
}

func (a *zipArchive) Open(e Entry) (io.ReadCloser, error) {
	return a.zr.File[e.index].Open()
}

func (a *zipArchive) Close() error { return a.zr.Close() }

// --- tar / tgz ---

type tarArchive struct {
	path    string
	gzipped bool
}

func (a *tarArchive) open() (io.ReadCloser, *tar.Reader, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open archive %s: %w", a.path, err)
	}
	if !a.gzipped {
		return f, tar.NewReader(f), nil
	}
	gz, err := kgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("gzip %s: %w", a.path, err)
	}
	return &gzipAndFile{gz: gz, f: f}, tar.NewReader(gz), nil
}

// gzipAndFile closes both the gzip reader and its backing file.
type gzipAndFile struct {
	gz *kgzip.Reader
	f  *os.File
}

func (g *gzipAndFile) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzipAndFile) Close() error {
	g.gz.Close()
	return g.f.Close()
}

func (a *tarArchive) Entries() ([]Entry, error) {
	rc, tr, err := a.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var out []Entry
	for i := 0; ; i++ {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar entry: %w", err)
		}
		mode := os.FileMode(hdr.Mode).Perm()
		isDir := hdr.Typeflag == tar.TypeDir
		if isDir {
			mode |= os.ModeDir
		}
		out = append(out, Entry{
			Path:    pathutil.DecodeString([]byte(hdr.Name)),
			IsDir:   isDir,
			Size:    hdr.Size,
			Mode:    mode,
			ModTime: hdr.ModTime,
			index:   i,
		})
	}
	return out, nil
}

// Open re-scans the archive from the start until it reaches e's index.
// Less efficient than zip's random access, but tar/gzip are not seekable
// by member, and this module only ever extracts a handful of entries per
// call.
func (a *tarArchive) Open(e Entry) (io.ReadCloser, error) {
	rc, tr, err := a.open()
	if err != nil {
		return nil, err
	}
	for i := 0; i <= e.index; i++ {
		if _, err := tr.Next(); err != nil {
			rc.Close()
			return nil, fmt.Errorf("seek to tar entry %d: %w", e.index, err)
		}
	}
	return &tarEntryReader{tr: tr, rc: rc}, nil
}

func (a *tarArchive) Close() error { return nil }

type tarEntryReader struct {
	tr *tar.Reader
	rc io.ReadCloser
}

func (r *tarEntryReader) Read(p []byte) (int, error) { return r.tr.Read(p) }
func (r *tarEntryReader) Close() error               { return r.rc.Close() }
