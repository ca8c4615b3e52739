// Package preview implements the ancillary best-effort file preview route.
// It is not part of the WebSocket command protocol: it exists so the
// bundled UI shell has something to point an <iframe> or <img> at without
// the core ever touching HTTP response writing.
package preview

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/takanopontaro/footloose2/internal/pathutil"
)

const sniffLen = 4096

// htmlTemplate wraps decoded text content for inline rendering. The
// placeholder is replaced with the escaped, decoded file body.
const htmlTemplate = `<!DOCTYPE html><html><head><meta charset="utf-8"></head>` +
	`<body><pre>%s</pre></body></html>`

// Handler serves GET /preview/{path...}. The path segment is treated as an
// absolute filesystem path, exactly as the original tool did: this is a
// local single-user tool with no auth (see Non-goals), so there is no
// narrower trust boundary to enforce here than the rest of the server
// already has.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := "/" + strings.TrimPrefix(r.URL.Path, "/preview/")

		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			noContent(w)
			return
		}

		f, err := os.Open(p)
		if err != nil {
			noContent(w)
			return
		}
		defer f.Close()

		head := make([]byte, sniffLen)
		n, _ := io.ReadFull(f, head)
		head = head[:n]

		if looksLikeText(head) {
			rest, _ := io.ReadAll(f)
			serveText(w, append(head, rest...))
			return
		}

		// Binary: let the browser decide what to do with it, no MIME
		// allow-list.
		http.ServeFile(w, r, p)
	}
}

// looksLikeText mirrors the original heuristic: a NUL byte anywhere means
// binary; otherwise more than 5% of the sampled bytes being control
// characters other than tab/LF/VT/FF/CR (0x09-0x0D) means binary.
func looksLikeText(sample []byte) bool {
	if len(sample) == 0 {
		return true
	}
	if bytes.IndexByte(sample, 0) != -1 {
		return false
	}
	suspicious := 0
	for _, b := range sample {
		if b < 0x09 || (b > 0x0D && b < 0x20) {
			suspicious++
		}
	}
	ratio := float64(suspicious) / float64(len(sample))
	return ratio <= 0.05
}

func serveText(w http.ResponseWriter, raw []byte) {
	text := pathutil.DecodeString(raw)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, htmlTemplate, html.EscapeString(text))
}

func noContent(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusNoContent)
}
