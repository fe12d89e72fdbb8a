// Package watcher triggers full re-analysis when watched source files
// change. There is no incremental update: every change recomputes the
// graph from scratch.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change fires the
// callback, so editor save bursts collapse into one re-analysis.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a directory tree recursively and invokes a callback
// after relevant changes settle.
type Watcher struct {
	fs         *fsnotify.Watcher
	rootDir    string
	extensions map[string]bool
	ignore     func(relPath string) bool
	debounce   time.Duration

	timerMu sync.Mutex
	timer   *time.Timer
}

// New creates a Watcher over rootDir. Only events on paths with an
// allow-listed extension, outside ignored subtrees, are considered.
// ignore may be nil.
func New(rootDir string, extensions []string, ignore func(relPath string) bool) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[strings.ToLower(ext)] = true
	}
	if ignore == nil {
		ignore = func(string) bool { return false }
	}

	w := &Watcher{
		fs:         fs,
		rootDir:    rootDir,
		extensions: extMap,
		ignore:     ignore,
		debounce:   DefaultDebounce,
	}

	if err := w.addDirsRecursively(rootDir); err != nil {
		fs.Close()
		return nil, err
	}
	return w, nil
}

// Start blocks, dispatching debounced change callbacks until the
// context is cancelled.
func (w *Watcher) Start(ctx context.Context, onChange func()) error {
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, onChange)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, onChange func()) {
	relPath, err := filepath.Rel(w.rootDir, event.Name)
	if err != nil {
		return
	}
	relPath = filepath.ToSlash(relPath)
	if w.ignore(relPath) {
		return
	}

	// New directories must be added to the watch set before their
	// contents produce events.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirsRecursively(event.Name); err != nil {
				log.Printf("failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if !w.extensions[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, onChange)
}

func (w *Watcher) stopTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// addDirsRecursively registers dir and every non-ignored subdirectory.
func (w *Watcher) addDirsRecursively(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(w.rootDir, path)
		if err != nil {
			return err
		}
		if relPath != "." && w.ignore(filepath.ToSlash(relPath)) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}
