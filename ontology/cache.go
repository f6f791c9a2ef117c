package ontology

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/logger"
)

// DefaultDebounce collapses the burst of events an editor save produces
const DefaultDebounce = 500 * time.Millisecond

// ReloadCallback is called with each successfully reloaded snapshot
type ReloadCallback func(*Config)

// Cache is a process-wide Loader that hands out one shared snapshot.
// Reloads replace the snapshot pointer and never modify a Config in place,
// so conversions that already called Load keep a consistent view.
type Cache struct {
	loader   Loader
	current  atomic.Pointer[Config]
	logger   *zap.SugaredLogger
	debounce time.Duration

	loadMu sync.Mutex // serializes loader calls

	mu            sync.Mutex
	callbacks     []ReloadCallback
	debounceTimer *time.Timer
}

// CacheOption configures a Cache
type CacheOption func(*Cache)

// WithLogger sets the cache's logger
func WithLogger(log *zap.SugaredLogger) CacheOption {
	return func(c *Cache) { c.logger = log }
}

// WithDebounce sets how long Watch waits after the last change before reloading
func WithDebounce(d time.Duration) CacheOption {
	return func(c *Cache) { c.debounce = d }
}

// NewCache wraps loader. Nothing is read until the first Load.
func NewCache(loader Loader, opts ...CacheOption) *Cache {
	c := &Cache{
		loader:   loader,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.ComponentLogger("ontology")
	}
	return c
}

// Load returns the current snapshot, loading it on first use.
func (c *Cache) Load() (*Config, error) {
	if cfg := c.current.Load(); cfg != nil {
		return cfg, nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	if cfg := c.current.Load(); cfg != nil {
		return cfg, nil
	}

	cfg, err := c.loader.Load()
	if err != nil {
		return nil, err
	}
	c.current.Store(cfg)
	return cfg, nil
}

// Reload reads the document again and swaps the snapshot. On failure the
// previous snapshot stays in place and the error is returned.
func (c *Cache) Reload() (*Config, error) {
	c.loadMu.Lock()
	cfg, err := c.loader.Load()
	if err == nil {
		c.current.Store(cfg)
	}
	c.loadMu.Unlock()

	if err != nil {
		return nil, err
	}

	c.logger.Infow("Ontology reloaded",
		logger.FieldPath, cfg.Source,
		"version", cfg.Version,
		logger.FieldCount, len(cfg.Namespaces),
	)

	c.mu.Lock()
	callbacks := make([]ReloadCallback, len(c.callbacks))
	copy(callbacks, c.callbacks)
	c.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
	return cfg, nil
}

// OnReload registers a callback for successful reloads
func (c *Cache) OnReload(cb ReloadCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, cb)
}

// Watch reloads the cache when the file at path changes, until ctx is done.
// The parent directory is watched because editors often replace files by rename.
func (c *Cache) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return errors.Wrapf(err, "resolve %s", path)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}

	c.logger.Debugw("Watching ontology", logger.FieldPath, abs)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				c.stopTimer()
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				c.logger.Debugw("Ontology change detected",
					logger.FieldFile, event.Name,
					"op", event.Op.String(),
				)
				c.scheduleReload()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.Warnw("Ontology watcher error", logger.FieldError, err)
			}
		}
	}()

	return nil
}

func (c *Cache) scheduleReload() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
	c.debounceTimer = time.AfterFunc(c.debounce, func() {
		if _, err := c.Reload(); err != nil {
			c.logger.Errorw("Ontology reload failed, keeping previous snapshot",
				logger.FieldError, err,
			)
		}
	})
}

func (c *Cache) stopTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
}
