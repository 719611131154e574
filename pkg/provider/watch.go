package provider

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// UpdateFunc is called when a watched directory changes. providerID and
// contentID identify the ring to refresh; the engine's UpdateRing has the
// same signature shape.
type UpdateFunc func(ctx context.Context, providerID, contentID string) error

// Watcher turns filesystem events under a folder provider into targeted
// ring updates. Directories are added to the watch set as the user
// navigates into them, so only visited parts of the tree are watched.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	folder   *Folder
	update   UpdateFunc
	logger   *log.Logger
	debounce time.Duration
	last     map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for the given folder provider.
// Events are debounced per directory so editors that burst-write do not
// cause repeated refreshes.
func NewWatcher(folder *Folder, update UpdateFunc, logger *log.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Watcher{
		fs:       fs,
		folder:   folder,
		update:   update,
		logger:   logger,
		debounce: 500 * time.Millisecond,
		last:     make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching the provider's root directory.
// This method is non-blocking; events are handled in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fs.Add(w.folder.Root()); err != nil {
		w.logger.Warn("initial watch failed", "dir", w.folder.Root(), "err", err)
	}
	w.folder.SetVisitHook(w.Watch)

	go w.run(ctx)
	return nil
}

// Watch adds a directory to the watch set. Called by the host when the
// user navigates into a folder, so its ring refreshes while visible.
func (w *Watcher) Watch(dir string) {
	if err := w.fs.Add(dir); err != nil {
		w.logger.Debug("watch add failed", "dir", dir, "err", err)
	}
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.fs.Close()
}

// run is the event loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			w.handle(ctx, filepath.Dir(event.Name))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// handle debounces one directory's events and fires a targeted update.
func (w *Watcher) handle(ctx context.Context, dir string) {
	w.mu.Lock()
	now := time.Now()
	if last, ok := w.last[dir]; ok && now.Sub(last) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.last[dir] = now
	w.mu.Unlock()

	w.folder.Invalidate(ctx, dir)

	if w.update == nil {
		return
	}
	if err := w.update(ctx, w.folder.ID(), dir); err != nil {
		w.logger.Debug("ring update skipped", "dir", dir, "err", err)
	}
}
