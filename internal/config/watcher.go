package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const reloadDebounce = 150 * time.Millisecond

// Watcher reloads a config file when it changes on disk and passes the new
// result to every registered callback. Invalid files are logged and skipped;
// callbacks only ever see configs that passed validation.
type Watcher struct {
	path   string
	logger zerolog.Logger

	mu        sync.Mutex
	callbacks []func(*LoadResult)
}

// NewWatcher creates a watcher for path. Call Run to start it.
func NewWatcher(path string, logger zerolog.Logger) *Watcher {
	return &Watcher{path: path, logger: logger}
}

// OnChange registers a callback for successful reloads.
func (w *Watcher) OnChange(fn func(*LoadResult)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Run watches the config file's directory until ctx is done. Watching the
// directory keeps working across editors that save by rename.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(w.path)
	local := LocalOverlayPath(target)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if name := filepath.Clean(event.Name); name != target && name != local {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug().Str("op", event.Op.String()).Str("file", event.Name).Msg("config change detected")
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("config watcher error")
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	res, err := LoadFromPath(w.path)
	if err != nil {
		w.logger.Warn().Err(err).Msg("config reload failed; keeping previous config")
		return
	}
	w.logger.Info().Str("file", w.path).Msg("config reloaded")

	w.mu.Lock()
	callbacks := make([]func(*LoadResult), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(res)
	}
}
