// Package watcher re-runs work when scene or model files change on disk
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches files and calls back once per burst of changes
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	log       *slog.Logger
	mu        sync.Mutex
	callbacks map[string]func(string)
	debounce  time.Duration
	timers    map[string]*time.Timer
}

// NewFileWatcher creates a watcher that waits debounce after the last
// event on a file before calling back
func NewFileWatcher(debounce time.Duration, log *slog.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:   w,
		log:       log,
		callbacks: make(map[string]func(string)),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Watch registers callback for each of files
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		if err := fw.watcher.Add(absPath); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}

		fw.callbacks[absPath] = callback
	}

	return nil
}

// Start processes events on a goroutine until ctx is done or the watcher
// is closed
func (fw *FileWatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				fw.handleEvent(event)

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.log.Warn("watcher error", "error", err)
			}
		}
	}()
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		fw.handleFileChange(event.Name)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// editors that save by rename drop the inotify watch
		fw.rewatch(event.Name)
	}
}

func (fw *FileWatcher) rewatch(path string) {
	fw.mu.Lock()
	_, known := fw.callbacks[path]
	fw.mu.Unlock()
	if !known {
		return
	}

	time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		// RemoveAll may have dropped the file while we waited
		if _, known := fw.callbacks[path]; !known {
			fw.mu.Unlock()
			return
		}
		err := fw.watcher.Add(path)
		fw.mu.Unlock()

		if err != nil {
			fw.log.Warn("file disappeared", "path", path, "error", err)
			return
		}
		fw.handleFileChange(path)
	})
}

func (fw *FileWatcher) handleFileChange(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, exists := fw.callbacks[filePath]
	if !exists {
		return
	}

	if timer, exists := fw.timers[filePath]; exists {
		timer.Stop()
	}

	fw.log.Debug("file changed", "path", filePath)
	fw.timers[filePath] = time.AfterFunc(fw.debounce, func() {
		callback(filePath)
	})
}

// Close stops the watcher and pending callbacks
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}

// RemoveAll stops watching every registered file and cancels pending
// callbacks
func (fw *FileWatcher) RemoveAll() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for file := range fw.callbacks {
		// a file replaced on disk has already lost its watch
		if err := fw.watcher.Remove(file); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			return err
		}
	}

	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.callbacks = make(map[string]func(string))
	fw.timers = make(map[string]*time.Timer)
	return nil
}
