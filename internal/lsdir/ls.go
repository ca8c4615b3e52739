package lsdir

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/takanopontaro/footloose2/internal/pathutil"
)

// DefaultTimeStyle mirrors the original CLI default ("%y/%m/%d %H:%M:%S").
const DefaultTimeStyle = "%y/%m/%d %H:%M:%S"

// FormatTime renders t using a small strftime-subset understood by the
// original tool's -time-style flag.
func FormatTime(t time.Time, style string) string {
	if style == "" {
		style = DefaultTimeStyle
	}
	replacer := strings.NewReplacer(
		"%Y", fmt.Sprintf("%04d", t.Year()),
		"%y", fmt.Sprintf("%02d", t.Year()%100),
		"%m", fmt.Sprintf("%02d", int(t.Month())),
		"%d", fmt.Sprintf("%02d", t.Day()),
		"%H", fmt.Sprintf("%02d", t.Hour()),
		"%M", fmt.Sprintf("%02d", t.Minute()),
		"%S", fmt.Sprintf("%02d", t.Second()),
	)
	return replacer.Replace(style)
}

func entrySkeleton(name string) Entry {
	return Entry{
		Perm: pathutil.DefaultPerm,
		Size: "0",
		Time: pathutil.DefaultTime,
		Name: pathutil.NFC(name),
	}
}

// parentEntry builds the synthetic ".." row from the real parent directory's
// metadata, falling back to the skeleton if it cannot be stat'd.
func parentEntry(dir string, timeStyle string) Entry {
	e := entrySkeleton("..")
	parent := pathutil.ParentPath(dir)
	info, err := os.Lstat(parent)
	if err != nil {
		return e
	}
	e.Perm = pathutil.PermString(info.Mode())
	e.Size = pathutil.LsStyleSize(info.Size())
	e.Time = FormatTime(ctime(info), timeStyle)
	return e
}

// resolveSymlink recursively follows a symlink chain, returning a string
// prefixed with "e:" (target missing or unreadable), "d:" (directory), or
// "f:" (file) naming the final NFC-normalized target, or "" if a link in
// the chain cannot be read.
func resolveSymlink(linkPath string) string {
	target, err := os.Readlink(linkPath)
	if err != nil {
		return ""
	}
	if !path.IsAbs(target) {
		target = path.Join(path.Dir(linkPath), target)
	}
	info, err := os.Lstat(target)
	if err != nil {
		return "e:" + pathutil.NFC(target)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		inner := resolveSymlink(target)
		if inner == "" {
			return ""
		}
		return inner
	}
	if info.IsDir() {
		return "d:" + pathutil.NFC(target)
	}
	return "f:" + pathutil.NFC(target)
}

// Entries lists dir's immediate children, prefixed with a synthetic ".."
// row, sorted by raw (non-normalized) filename. Symlinks carry a resolved
// Link target.
func Entries(dir string, timeStyle string) ([]Entry, error) {
	out := []Entry{parentEntry(dir, timeStyle)}

	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	sort.Slice(des, func(i, j int) bool { return des[i].Name() < des[j].Name() })

	for _, de := range des {
		full := path.Join(dir, de.Name())
		info, err := de.Info()
		if err != nil {
			out = append(out, entrySkeleton(de.Name()))
			continue
		}
		e := Entry{
			Perm: pathutil.PermString(info.Mode()),
			Size: pathutil.LsStyleSize(info.Size()),
			Time: FormatTime(ctime(info), timeStyle),
			Name: pathutil.NFC(de.Name()),
		}
		if info.Mode()&os.ModeSymlink != 0 {
			e.Link = resolveSymlink(full)
		}
		out = append(out, e)
	}
	return out, nil
}

// Signature computes a cheap change fingerprint for dir by concatenating
// the ctime of every immediate child. Unreadable children are skipped
// silently rather than failing the whole signature.
func Signature(dir string) (string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read dir %s: %w", dir, err)
	}
	var b strings.Builder
	for _, de := range des {
		info, err := de.Info()
		if err != nil {
			continue
		}
		sec, nsec := ctimeParts(info)
		b.WriteString(strconv.FormatInt(sec, 10))
		b.WriteString(strconv.FormatInt(nsec, 10))
	}
	return b.String(), nil
}

func ctime(info os.FileInfo) time.Time {
	sec, nsec := ctimeParts(info)
	return time.Unix(sec, nsec)
}

func ctimeParts(info os.FileInfo) (sec int64, nsec int64) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return int64(st.Ctim.Sec), int64(st.Ctim.Nsec)
	}
	return info.ModTime().Unix(), int64(info.ModTime().Nanosecond())
}
