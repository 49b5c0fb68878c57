package watcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// newFileWatcher subscribes to every content directory named by paths. A file
// path subscribes its parent directory, since editors often replace files by
// rename and a watch on the file itself would be lost.
func newFileWatcher(paths []string) (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	added := make(map[string]bool)
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if added[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
		added[dir] = true
	}
	return fsw, nil
}

// isContentEvent reports whether ev touches a content file in a way that can
// change what a load returns.
func isContentEvent(ev fsnotify.Event) bool {
	ext := strings.ToLower(filepath.Ext(ev.Name))
	if ext != ".yaml" && ext != ".yml" {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
