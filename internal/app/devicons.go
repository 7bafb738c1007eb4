package app

import (
	"io/fs"
	"path"
	"time"

	devicons "github.com/epilande/go-devicons"
)

// iconEntry satisfies fs.FileInfo for icon lookup by name. Changed files
// may be deleted on disk, so nothing is read from the filesystem.
type iconEntry struct {
	base string
	dir  bool
}

func (e iconEntry) Name() string       { return e.base }
func (e iconEntry) Size() int64        { return 0 }
func (e iconEntry) ModTime() time.Time { return time.Time{} }
func (e iconEntry) IsDir() bool        { return e.dir }
func (e iconEntry) Sys() any           { return nil }

func (e iconEntry) Mode() fs.FileMode {
	if e.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

// rowIcon returns the icon for a change path followed by a space, or ""
// when icons are off or none is known.
func (m *Model) rowIcon(p string, dir bool) string {
	if !m.config.ShowIcons || p == "" {
		return ""
	}
	icon := devicons.IconForInfo(iconEntry{base: path.Base(p), dir: dir}).Icon
	if icon == "" {
		return ""
	}
	return icon + " "
}
