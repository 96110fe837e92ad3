package am

import (
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/logger"
)

// DefaultDebouncePeriod coalesces the burst of events editors emit on save
const DefaultDebouncePeriod = 500 * time.Millisecond

// ReloadCallback receives each configuration that loaded and validated
type ReloadCallback func(*Config) error

// ConfigWatcher reloads the configuration when its file changes on disk.
type ConfigWatcher struct {
	path   string
	fsw    *fsnotify.Watcher
	logger *zap.SugaredLogger

	mu          sync.Mutex
	subscribers []ReloadCallback
	quiet       time.Duration
	pending     *time.Timer

	skipNext atomic.Bool
}

// NewConfigWatcher creates a watcher for path. The parent directory is
// watched so editors that save by rename are still seen.
func NewConfigWatcher(path string, log *zap.SugaredLogger) (*ConfigWatcher, error) {
	if log == nil {
		log = logger.Logger
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, errors.Wrapf(err, "watching config directory %s", dir)
	}

	return &ConfigWatcher{
		path:   filepath.Clean(path),
		fsw:    fsw,
		logger: log.Named("am.watcher"),
		quiet:  DefaultDebouncePeriod,
	}, nil
}

// SetDebouncePeriod changes the quiet period before a reload.
func (cw *ConfigWatcher) SetDebouncePeriod(d time.Duration) {
	cw.mu.Lock()
	cw.quiet = d
	cw.mu.Unlock()
}

// OnReload subscribes fn to future reloads.
func (cw *ConfigWatcher) OnReload(fn ReloadCallback) {
	cw.mu.Lock()
	cw.subscribers = append(cw.subscribers, fn)
	cw.mu.Unlock()
}

// MarkOwnWrite makes the watcher skip the next change event, for callers
// that write the file themselves.
func (cw *ConfigWatcher) MarkOwnWrite() {
	cw.skipNext.Store(true)
}

func (cw *ConfigWatcher) checkOwnWrite() bool {
	return cw.skipNext.Swap(false)
}

// Start runs the event loop in the background until Stop.
func (cw *ConfigWatcher) Start() {
	go cw.run()
}

func (cw *ConfigWatcher) run() {
	for {
		select {
		case ev, ok := <-cw.fsw.Events:
			if !ok {
				return
			}
			if !cw.relevant(ev) {
				continue
			}
			if cw.checkOwnWrite() {
				cw.logger.Debugw("Skipping self-written config change", logger.FieldFile, ev.Name)
				continue
			}
			cw.logger.Infow("Config file changed",
				logger.FieldFile, ev.Name,
				logger.FieldOperation, ev.Op.String())
			cw.debounce()

		case err, ok := <-cw.fsw.Errors:
			if !ok {
				return
			}
			cw.logger.Warnw("File watcher error", logger.FieldError, err)
		}
	}
}

func (cw *ConfigWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != cw.path || isBackupFile(ev.Name) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (cw *ConfigWatcher) debounce() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.pending != nil {
		cw.pending.Stop()
	}
	cw.pending = time.AfterFunc(cw.quiet, func() {
		if err := cw.reload(); err != nil {
			cw.logger.Errorw("Keeping previous config",
				logger.FieldFile, cw.path,
				logger.FieldError, err)
		}
	})
}

// reload re-reads the layered configuration and hands it to subscribers.
// A file that fails to load or validate leaves the previous config active.
func (cw *ConfigWatcher) reload() error {
	Reset()
	next, err := Load()
	if err != nil {
		return errors.Wrap(err, "loading changed config")
	}
	if err := next.Validate(); err != nil {
		return errors.Wrap(err, "changed config is invalid")
	}
	cw.logger.Infow("Config reloaded", logger.FieldFile, cw.path)

	cw.mu.Lock()
	subs := append([]ReloadCallback(nil), cw.subscribers...)
	cw.mu.Unlock()

	for _, fn := range subs {
		if err := fn(next); err != nil {
			cw.logger.Warnw("Reload subscriber failed", logger.FieldError, err)
		}
	}
	return nil
}

// Stop cancels any pending reload and closes the underlying watcher.
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	if cw.pending != nil {
		cw.pending.Stop()
	}
	cw.mu.Unlock()
	return cw.fsw.Close()
}

// isBackupFile reports editor and rotation leftovers such as
// resultviz.toml.back1 or resultviz.toml~
func isBackupFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ConfigFileName+".back") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp")
}
