package codebase

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reloading.
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher keeps the codebase in sync with .bib files changed on disk.
// Documents open in the editor are left alone.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	log      commonlog.Logger

	// Debounce may be changed before Start.
	Debounce time.Duration

	changes  chan string
	done     chan struct{}
	stopOnce sync.Once

	// applied is called after each batch, for tests.
	applied func(paths []string)
}

func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		codebase: c,
		watcher:  watcher,
		log:      commonlog.GetLogger("bib.watcher"),
		Debounce: DefaultDebounce,
		changes:  make(chan string, 256),
		done:     make(chan struct{}),
	}, nil
}

// Start watches the codebase root and all directories below it. Events are
// processed until ctx is done or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.codebase.RootDir()); err != nil {
		return err
	}
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *FileWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.log.Warningf("watching %s: %s", event.Name, err)
					}
					continue
				}
			}
			if filepath.Ext(event.Name) != Extension {
				continue
			}
			select {
			case w.changes <- event.Name:
			default:
				w.log.Warningf("dropped change to %s", event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watcher: %s", err)
		}
	}
}

func (w *FileWatcher) debounceLoop(ctx context.Context) {
	var batch []string
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			w.apply(dedupe(batch))
			batch = batch[:0]
		}
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case path := <-w.changes:
			batch = append(batch, path)
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.Debounce)
			}
		case <-timerC:
			flush()
		}
	}
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}
	return result
}

// apply looks at the disk rather than the event kinds: whatever the file
// is after the burst decides between reload and removal.
func (w *FileWatcher) apply(paths []string) {
	for _, path := range paths {
		if w.codebase.IsOpen(path) {
			continue
		}
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := w.codebase.Load(path); err != nil {
				w.log.Warningf("%s", err)
				continue
			}
			w.log.Debugf("reloaded %s", path)
		case errors.Is(err, fs.ErrNotExist):
			w.codebase.Remove(path)
			w.log.Debugf("removed %s", path)
		default:
			w.log.Warningf("stat %s: %s", path, err)
		}
	}
	if w.applied != nil {
		w.applied(paths)
	}
}
