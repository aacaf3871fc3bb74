package loader

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// WatcherState is the lifecycle state of a DocumentWatcher.
type WatcherState int

const (
	// WatcherIdle means the watcher is waiting for file changes.
	WatcherIdle WatcherState = iota
	// WatcherProcessing means a reload is in progress.
	WatcherProcessing
	// WatcherStopped means the watcher has been stopped.
	WatcherStopped
)

// ReloadError wraps a reload failure with the phase it happened in.
type ReloadError struct {
	Phase   string // "read" or "parse"
	Cause   error
	Time    time.Time
	Retries int
}

func (e ReloadError) Error() string {
	return fmt.Sprintf("%s failed: %v (retries: %d)", e.Phase, e.Cause, e.Retries)
}

func (e ReloadError) Unwrap() error { return e.Cause }

// DocumentReloadedMsg is delivered after the document changed and parsed.
type DocumentReloadedMsg struct {
	Path   string
	Topics model.Topics
	Hash   string
}

// DocumentErrorMsg is delivered when a changed document cannot be loaded.
// The previous topics stay in use.
type DocumentErrorMsg struct {
	Err *ReloadError
}

// WatcherConfig configures a DocumentWatcher.
type WatcherConfig struct {
	Path     string
	Debounce time.Duration
	// Notify receives DocumentReloadedMsg and DocumentErrorMsg values. For
	// a Bubble Tea program pass a func that calls Program.Send.
	Notify func(msg any)
	Logger *slog.Logger
}

// DocumentWatcher reloads a topic document when it changes on disk. It
// watches the parent directory so editors that replace the file on save are
// still seen. Reloads run on the watcher goroutine and only reach the caller
// through Notify.
type DocumentWatcher struct {
	path     string
	debounce time.Duration
	notify   func(any)
	logger   *slog.Logger

	mu         sync.RWMutex
	state      WatcherState
	dirty      bool
	started    bool
	lastHash   string
	lastError  *ReloadError
	errorCount int

	fs     *fsnotify.Watcher
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDocumentWatcher creates a watcher for cfg.Path. Call Start to begin.
func NewDocumentWatcher(cfg WatcherConfig) (*DocumentWatcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watch: document path is empty")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", cfg.Path, err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 200 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &DocumentWatcher{
		path:     abs,
		debounce: cfg.Debounce,
		notify:   cfg.Notify,
		logger:   cfg.Logger,
		state:    WatcherIdle,
		fs:       fw,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// SetBaseline records the hash of the content already loaded so an unchanged
// first event is skipped.
func (w *DocumentWatcher) SetBaseline(hash string) {
	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()
}

// Start begins watching. It is idempotent.
func (w *DocumentWatcher) Start() error {
	w.mu.Lock()
	if w.started || w.state == WatcherStopped {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if err := w.fs.Add(filepath.Dir(w.path)); err != nil {
		// No loop is running, so Stop must not wait for one.
		w.mu.Lock()
		w.started = false
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	go w.loop()
	return nil
}

// Stop halts the watcher. It is idempotent.
func (w *DocumentWatcher) Stop() {
	w.mu.Lock()
	if w.state == WatcherStopped {
		w.mu.Unlock()
		return
	}
	w.state = WatcherStopped
	started := w.started
	w.mu.Unlock()

	w.cancel()
	w.fs.Close()
	if started {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
		}
	}
}

// State returns the current state.
func (w *DocumentWatcher) State() WatcherState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// LastError returns the most recent reload error, nil after a success.
func (w *DocumentWatcher) LastError() *ReloadError {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

// LastHash returns the hash of the last content delivered.
func (w *DocumentWatcher) LastHash() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastHash
}

// TriggerRefresh reloads now, or after the reload in progress finishes.
func (w *DocumentWatcher) TriggerRefresh() {
	w.mu.Lock()
	switch w.state {
	case WatcherStopped:
		w.mu.Unlock()
		return
	case WatcherProcessing:
		w.dirty = true
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	go w.process()
}

func (w *DocumentWatcher) loop() {
	defer close(w.done)
	var fire <-chan time.Time
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Trailing debounce: the last event in a burst wins.
			fire = time.After(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("loader: watcher error", "path", w.path, "error", err)
		case <-fire:
			fire = nil
			w.process()
		}
	}
}

func (w *DocumentWatcher) process() {
	w.mu.Lock()
	if w.state != WatcherIdle {
		if w.state == WatcherProcessing {
			w.dirty = true
		}
		w.mu.Unlock()
		return
	}
	w.state = WatcherProcessing
	w.dirty = false
	w.mu.Unlock()

	msg := w.reload()

	w.mu.Lock()
	if w.state == WatcherStopped {
		w.mu.Unlock()
		return
	}
	again := w.dirty
	w.state = WatcherIdle
	w.mu.Unlock()

	if msg != nil && w.notify != nil {
		w.notify(msg)
	}
	if again {
		go w.process()
	}
}

// reload reads and parses the document. It returns nil when the content is
// unchanged.
func (w *DocumentWatcher) reload() any {
	start := time.Now()
	var data []byte
	if rerr := safeCompute("read", func() error {
		var err error
		data, err = os.ReadFile(w.path)
		return err
	}); rerr != nil {
		return w.fail(rerr)
	}

	hash := ContentHash(data)
	w.mu.RLock()
	last := w.lastHash
	w.mu.RUnlock()
	if hash == last && last != "" {
		w.logger.Debug("loader: content unchanged, skipping reload", "hash", hashPrefix(hash))
		w.recordError(nil)
		return nil
	}

	var topics model.Topics
	if rerr := safeCompute("parse", func() error {
		var err error
		topics, err = Decode(bytes.NewReader(data))
		return err
	}); rerr != nil {
		return w.fail(rerr)
	}

	w.recordError(nil)
	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()
	w.logger.Info("loader: document reloaded",
		"path", w.path, "topics", len(topics), "elapsed", time.Since(start), "hash", hashPrefix(hash))
	return DocumentReloadedMsg{Path: w.path, Topics: topics, Hash: hash}
}

func (w *DocumentWatcher) fail(err *ReloadError) any {
	w.recordError(err)
	w.logger.Warn("loader: reload failed", "path", w.path, "phase", err.Phase, "error", err.Cause)
	return DocumentErrorMsg{Err: err}
}

func (w *DocumentWatcher) recordError(err *ReloadError) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastError = err
	if err == nil {
		w.errorCount = 0
		return
	}
	w.errorCount++
	err.Retries = w.errorCount
}

// safeCompute runs fn and converts both returned errors and panics into a
// ReloadError.
func safeCompute(phase string, fn func() error) (result *ReloadError) {
	defer func() {
		if r := recover(); r != nil {
			result = &ReloadError{
				Phase: phase,
				Cause: fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
				Time:  time.Now(),
			}
		}
	}()
	if err := fn(); err != nil {
		return &ReloadError{Phase: phase, Cause: err, Time: time.Now()}
	}
	return nil
}
