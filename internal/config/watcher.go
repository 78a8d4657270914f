package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the config file and signals debounced change events
// so the UI can hot-reload the palette and theme.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	configPath string
	debounce   time.Duration
	onChange   chan struct{}
	done       chan struct{}
}

// WatcherConfig holds watcher options.
type WatcherConfig struct {
	ConfigPath  string
	DebounceDur time.Duration
}

// DefaultWatcherConfig returns sensible defaults for the watcher.
func DefaultWatcherConfig(configPath string) WatcherConfig {
	return WatcherConfig{
		ConfigPath:  configPath,
		DebounceDur: 500 * time.Millisecond,
	}
}

// NewWatcher creates a config file watcher.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher:  fsw,
		configPath: cfg.ConfigPath,
		debounce:   cfg.DebounceDur,
		onChange:   make(chan struct{}, 1),
		done:       make(chan struct{}),
	}, nil
}

// Start begins watching the config file's directory. Watching the
// directory rather than the file survives atomic rename-based saves.
func (w *Watcher) Start() (<-chan struct{}, error) {
	dir := filepath.Dir(w.configPath)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send, drop if channel full.
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Keep watching; callers wrap the watcher if they need
			// error visibility.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks whether the event touches the config file,
// including the rename an atomic save performs.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(event.Name) == filepath.Base(w.configPath)
}
