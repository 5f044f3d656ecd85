// Completion: 100% - Source watcher (polling fallback)
//go:build !linux

package main

import (
	"os"
	"path/filepath"
	"time"
)

// SourceWatcher backs the -watch flag on platforms without inotify by
// polling the file's modification time (spec SUPPLEMENTED FEATURES).
type SourceWatcher struct {
	path     string
	onChange func(string)
	lastMod  time.Time
}

func NewSourceWatcher(path string, onChange func(string)) (*SourceWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	return &SourceWatcher{path: abs, onChange: onChange, lastMod: info.ModTime()}, nil
}

// Run blocks, polling every 500ms and invoking onChange after a write.
func (w *SourceWatcher) Run() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		info, err := os.Stat(w.path)
		if err != nil {
			continue
		}
		if info.ModTime().After(w.lastMod) {
			w.lastMod = info.ModTime()
			w.onChange(w.path)
		}
	}
}

func (w *SourceWatcher) Close() error { return nil }
