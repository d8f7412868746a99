package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultReloadDelay lets editors finish writing before the file is re-read.
const defaultReloadDelay = 200 * time.Millisecond

// CredentialWatcher reloads credentials into a CredentialStore when the .env file changes.
// Variables set in the process environment at startup keep precedence over the file.
type CredentialWatcher struct {
	path    string
	pinned  map[string]string
	store   *CredentialStore
	logger  *slog.Logger
	delay   time.Duration
	watcher *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	reloaded chan struct{} // nil unless set by tests
	wg       sync.WaitGroup
}

// NewCredentialWatcher creates a watcher for cfg's .env file.
// The file's parent directory is watched so atomic renames are seen.
func NewCredentialWatcher(cfg *Config, store *CredentialStore, logger *slog.Logger) (*CredentialWatcher, error) {
	path, err := filepath.Abs(cfg.App.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("resolve env file: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	return &CredentialWatcher{
		path:    path,
		pinned:  cfg.pinnedEnv,
		store:   store,
		logger:  logger,
		delay:   defaultReloadDelay,
		watcher: fw,
	}, nil
}

// Start processes file events until ctx is cancelled or Stop is called.
func (w *CredentialWatcher) Start(ctx context.Context) {
	w.wg.Go(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					w.schedule()
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("credential watcher error", "error", err)
			}
		}
	})
}

// Stop releases the underlying watcher.
func (w *CredentialWatcher) Stop() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *CredentialWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

func (w *CredentialWatcher) reload() {
	values, err := parseEnvFile(w.path)
	if err != nil {
		w.logger.Warn("failed to reload env file", "path", w.path, "error", err)
		return
	}

	creds := resolveCredentials(w.pinned, values)
	w.store.Store(creds)

	w.logger.Info("credentials reloaded", append([]any{"path", w.path}, creds.LogAttrs()...)...)

	if w.reloaded != nil {
		select {
		case w.reloaded <- struct{}{}:
		default:
		}
	}
}
