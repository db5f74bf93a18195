package file

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/store"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	logger   *slog.Logger
	debounce time.Duration
	onReload func(*Definition, error)
}

// WithLogger sets the watcher logger.
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		c.logger = logger
	}
}

// WithDebounce sets how long the watcher waits for events to settle.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.debounce = d
	}
}

// WithReloadHook is called after every reload attempt, with the error if it failed.
func WithReloadHook(fn func(*Definition, error)) WatchOption {
	return func(c *watchConfig) {
		c.onReload = fn
	}
}

// Watch loads the definition at path and returns a store of its options,
// re-emitted whenever the file changes. The file is only watched while the
// store has subscribers. A change that fails to parse is logged and the
// previous options are kept.
func Watch(path string, opts ...WatchOption) (store.Readable[domain.Options[domain.Record]], error) {
	cfg := watchConfig{
		logger:   logging.NewNop(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	def, err := Load(path)
	if err != nil {
		return nil, err
	}

	w := &watcher{path: path, cfg: cfg, logger: cfg.logger.With("path", path)}
	return store.NewReadable(def.Options(), w.start), nil
}

type watcher struct {
	path   string
	cfg    watchConfig
	logger *slog.Logger
}

func (w *watcher) start(set func(domain.Options[domain.Record]), _ func(func(domain.Options[domain.Record]) domain.Options[domain.Record])) store.StopFunc {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error("Failed to create file watcher", "err", err)
		return nil
	}

	// Editors replace files on save; watching the directory survives that.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Error("Failed to watch directory", "err", err)
		_ = fw.Close()
		return nil
	}

	// The file may have changed while nobody was watching.
	w.reload(set)

	done := make(chan struct{})
	go w.loop(fw, done, set)

	// Stop does not wait for the loop: a reload in flight may be waiting for
	// the delivery that is stopping this store. A set after stop only updates
	// the stored value, and the next start reloads the file anyway.
	return func() {
		close(done)
		_ = fw.Close()
		w.logger.Debug("Stopped watching table definition")
	}
}

func (w *watcher) loop(fw *fsnotify.Watcher, done <-chan struct{}, set func(domain.Options[domain.Record])) {
	target := filepath.Clean(w.path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.cfg.debounce)
			} else {
				timer.Reset(w.cfg.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload(set)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", "err", err)
		}
	}
}

func (w *watcher) reload(set func(domain.Options[domain.Record])) {
	def, err := Load(w.path)
	if w.cfg.onReload != nil {
		w.cfg.onReload(def, err)
	}
	if err != nil {
		w.logger.Warn("Keeping previous table definition", "err", err)
		return
	}
	w.logger.Info("Table definition reloaded", "table", def.Name, "rows", len(def.Data))
	set(def.Options())
}
