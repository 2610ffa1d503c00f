package watcher

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 300 * time.Millisecond

// ChangedMsg reports that the watched file was written, created or replaced.
type ChangedMsg struct {
	Path string
}

// Watcher follows a single file. The parent directory is watched so editors
// that save by rename are seen too.
type Watcher struct {
	w    *fsnotify.Watcher
	path string
}

func New(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{w: w, path: filepath.Clean(path)}, nil
}

// Next blocks until the file changes and settles, then returns ChangedMsg.
// It returns nil once the watcher is closed. Re-issue it after each message.
func (w *Watcher) Next() tea.Cmd {
	return func() tea.Msg {
		debounce := time.NewTimer(time.Hour)
		debounce.Stop()

		for {
			select {
			case ev, ok := <-w.w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				debounce.Reset(debounceDelay)
			case <-debounce.C:
				return ChangedMsg{Path: w.path}
			case _, ok := <-w.w.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (w *Watcher) Close() error {
	return w.w.Close()
}
