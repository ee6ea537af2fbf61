// Package watch reconverts repr dumps as they change on disk. A debounced
// fsnotify watcher feeds changed files back through the converter, so a
// console dump saved from an editor is picked up without rerunning the tool.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mwhitley/reprjson/pkg/convert"
)

// Options configures a Watcher.
type Options struct {
	// DebounceMs groups rapid writes to the same file; 0 uses 200ms.
	DebounceMs int

	// Patterns are filename globs (matched against the base name) that a
	// file must match to be converted. Empty means *.txt and *.repr.
	Patterns []string

	// WriteOutputs writes each successful conversion as <path>.json.
	WriteOutputs bool
}

// DefaultOptions returns the options used by the CLI watch command.
func DefaultOptions() Options {
	return Options{DebounceMs: 200, Patterns: []string{"*.txt", "*.repr"}}
}

// Result is delivered to the OnResult callback after each reconversion.
type Result struct {
	Path   string
	Result convert.ConversionResult
}

// ConvertFunc converts raw text; injected so a memoizing cache can stand in
// for the plain converter.
type ConvertFunc func(string) convert.ConversionResult

// Watcher converts files when they change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	convert  ConvertFunc
	onResult func(Result)
	logger   *slog.Logger
	options  Options

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// New creates a Watcher. onResult receives every conversion outcome,
// including failures; it may be nil when WriteOutputs is the only consumer.
// A nil convertFn uses convert.Convert.
func New(convertFn ConvertFunc, onResult func(Result), options Options, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if convertFn == nil {
		convertFn = convert.Convert
	}
	if logger == nil {
		logger = slog.Default()
	}
	if options.DebounceMs == 0 {
		options.DebounceMs = 200
	}
	if len(options.Patterns) == 0 {
		options.Patterns = DefaultOptions().Patterns
	}

	return &Watcher{
		watcher:        fsw,
		convert:        convertFn,
		onResult:       onResult,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start begins watching rootPath and its subdirectories.
func (w *Watcher) Start(rootPath string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.mu.Unlock()

	if err := w.watcher.Add(rootPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", rootPath, err)
	}

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Continue on error.
		}
		if !info.IsDir() {
			return nil
		}
		if w.shouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	w.logger.Info("file watcher started", "root", rootPath)

	go w.eventLoop()
	return nil
}

// Stop stops the watcher. Idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("file watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if !w.matchesPatterns(path) {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)

	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.debounceConvert(path)
	}
}

// debounceConvert schedules a reconversion after the debounce delay. Rapid
// successive writes to the same file collapse into one conversion.
func (w *Watcher) debounceConvert(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}

	w.debounceTimers[path] = time.AfterFunc(
		time.Duration(w.options.DebounceMs)*time.Millisecond,
		func() {
			w.convertFile(path)

			w.debounceMu.Lock()
			delete(w.debounceTimers, path)
			w.debounceMu.Unlock()
		},
	)
}

// convertFile reads and converts one file, delivering the outcome to the
// callback and optionally writing the .json sibling.
func (w *Watcher) convertFile(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("failed to read changed file", "file", path, "error", err)
		return
	}

	res := w.convert(string(content))
	if res.Success {
		w.logger.Debug("file converted", "file", path)
		if w.options.WriteOutputs {
			outPath := path + ".json"
			if err := os.WriteFile(outPath, []byte(res.JSON+"\n"), 0644); err != nil {
				w.logger.Warn("failed to write converted output", "file", outPath, "error", err)
			}
		}
	} else {
		w.logger.Warn("conversion failed", "file", path, "error", res.Error)
	}

	if w.onResult != nil {
		w.onResult(Result{Path: path, Result: res})
	}
}

// matchesPatterns reports whether the base name of path matches any
// configured glob.
func (w *Watcher) matchesPatterns(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.options.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// shouldIgnoreDir reports whether a directory subtree is skipped entirely.
func (w *Watcher) shouldIgnoreDir(path string) bool {
	switch filepath.Base(path) {
	case ".git", "node_modules", "dist", "build":
		return true
	}
	return false
}
