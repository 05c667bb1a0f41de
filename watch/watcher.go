// Package watch reports debounced content changes to a single file.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when a non-positive debounce is configured.
const DefaultDebounce = 500 * time.Millisecond

const eventChannelBuffer = 16

// Event is one debounced change to the watched file.
type Event struct {
	// Path is the watched file's absolute path.
	Path string
	// Hash is the hex SHA-256 of the new content.
	Hash string
}

// FileWatcher watches the directory of one file, so editors that replace the
// file by rename are still seen, and emits an Event when the file's content
// changes.
type FileWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   bool

	lastHash string
	events   chan Event
}

// NewFileWatcher creates a watcher for path. The current content hash is
// recorded so that only later changes are reported.
func NewFileWatcher(path string, debounce time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &FileWatcher{
		path:     abs,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		events:   make(chan Event, eventChannelBuffer),
	}
	if h, err := hashFile(abs); err == nil {
		w.lastHash = h
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Events returns the channel of change events. It is closed when the
// watcher stops.
func (w *FileWatcher) Events() <-chan Event {
	return w.events
}

// Start begins watching. Processing stops when ctx is cancelled or Stop is
// called.
func (w *FileWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"path", w.path,
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher.
// The events channel is closed by processEvents when it exits.
func (w *FileWatcher) Stop() error {
	return w.watcher.Close()
}

// Run starts the watcher and calls fn for every change until ctx is
// cancelled. Errors from fn are logged and do not stop the loop.
func (w *FileWatcher) Run(ctx context.Context, fn func(context.Context, Event) error) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.events:
			if !ok {
				return nil
			}
			if err := fn(ctx, ev); err != nil {
				w.logger.Error("Change handler failed", "path", ev.Path, "error", err)
			}
		}
	}
}

// processEvents handles fsnotify events with debouncing.
func (w *FileWatcher) processEvents(ctx context.Context) {
	defer close(w.events) // Close events channel when goroutine exits
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent marks the file dirty when an event concerns it.
func (w *FileWatcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()

	w.logger.Debug("Change detected", "path", w.path, "op", event.Op.String())
}

// flushPending emits an event if the file changed since the last one.
func (w *FileWatcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if !w.pending {
		w.pendingMu.Unlock()
		return
	}
	w.pending = false
	w.pendingMu.Unlock()

	hash, err := hashFile(w.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("Failed to read file for hash check", "path", w.path, "error", err)
		}
		return
	}
	if hash == w.lastHash {
		return
	}
	w.lastHash = hash

	select {
	case w.events <- Event{Path: w.path, Hash: hash}:
	case <-ctx.Done():
	default:
		w.logger.Warn("Event channel full, dropping change", "path", w.path)
	}
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
