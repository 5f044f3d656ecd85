// Completion: 100% - Source watcher (inotify)
//go:build linux

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// SourceWatcher recompiles the input file whenever it changes on disk,
// backing the -watch flag (spec SUPPLEMENTED FEATURES). On Linux this
// is driven by inotify rather than polling.
type SourceWatcher struct {
	fd       int
	wd       int
	path     string
	mu       sync.Mutex
	debounce *time.Timer
	onChange func(string)
}

func NewSourceWatcher(path string, onChange func(string)) (*SourceWatcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify_init failed: %v", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	wd, err := unix.InotifyAddWatch(fd, abs, unix.IN_MODIFY|unix.IN_CLOSE_WRITE)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to watch %s: %v", abs, err)
	}
	return &SourceWatcher{fd: fd, wd: wd, path: abs, onChange: onChange}, nil
}

// Run blocks, invoking onChange once (debounced) per burst of writes.
func (w *SourceWatcher) Run() {
	buf := make([]byte, unix.SizeofInotifyEvent*8)
	for {
		n, err := unix.Read(w.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			if VerboseMode {
				fmt.Fprintf(os.Stderr, "xcc700: inotify read failed: %v\n", err)
			}
			continue
		}
		offset := 0
		for offset < n {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			offset += unix.SizeofInotifyEvent + int(event.Len)
			if event.Mask&(unix.IN_MODIFY|unix.IN_CLOSE_WRITE) != 0 {
				w.debouncedFire()
			}
		}
	}
}

func (w *SourceWatcher) debouncedFire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(200*time.Millisecond, func() {
		w.onChange(w.path)
	})
}

func (w *SourceWatcher) Close() error { return unix.Close(w.fd) }
