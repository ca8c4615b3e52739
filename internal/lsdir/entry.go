// Package lsdir implements the real-filesystem directory listing and
// change-fingerprint primitives (Ls / Watch in spec terms).
package lsdir

// Entry is one row of a directory listing, real or virtual.
type Entry struct {
	Perm      string `json:"perm"`
	Size      string `json:"size"`
	Time      string `json:"time"`
	Name      string `json:"name"`
	Link      string `json:"link,omitempty"`
	IsVirtual bool   `json:"is_virtual"`
}
