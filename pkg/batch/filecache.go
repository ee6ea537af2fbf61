package batch

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// FileCache provides read access to batch inputs using memory-mapped files.
// Console dumps can be large, and a watch session may reread the same file
// many times; mapping lets the OS page in only what conversion touches.
//
// If a file cannot be mapped the cache falls back to os.ReadFile, so callers
// never need to care which path was taken. Thread-safe.
type FileCache struct {
	mu     sync.RWMutex
	mapped map[string]mmap.MMap
	plain  map[string][]byte
	files  []*os.File
	logger *slog.Logger
}

// NewFileCache creates an empty cache. A nil logger falls back to
// slog.Default().
func NewFileCache(logger *slog.Logger) *FileCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileCache{
		mapped: make(map[string]mmap.MMap),
		plain:  make(map[string][]byte),
		logger: logger,
	}
}

// Get returns the contents of path, mapping it on first access. The returned
// slice is valid until Close; callers must not modify it.
func (fc *FileCache) Get(path string) ([]byte, error) {
	fc.mu.RLock()
	if data, ok := fc.mapped[path]; ok {
		fc.mu.RUnlock()
		return data, nil
	}
	if data, ok := fc.plain[path]; ok {
		fc.mu.RUnlock()
		return data, nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Another goroutine may have loaded it while we waited for the lock.
	if data, ok := fc.mapped[path]; ok {
		return data, nil
	}
	if data, ok := fc.plain[path]; ok {
		return data, nil
	}

	return fc.loadLocked(path)
}

// loadLocked opens and maps path. Must be called with mu held for writing.
func (fc *FileCache) loadLocked(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}

	// Zero-byte files cannot be mapped.
	if stat.Size() == 0 {
		file.Close()
		fc.plain[path] = []byte{}
		return fc.plain[path], nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		file.Close()
		fc.logger.Warn("mmap failed, using fallback", "file", path, "error", err)

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("mmap and fallback both failed for %q: mmap error: %v, read error: %w",
				path, err, readErr)
		}
		fc.plain[path] = raw
		return raw, nil
	}

	fc.mapped[path] = data
	fc.files = append(fc.files, file)
	return data, nil
}

// Invalidate drops any cached contents for path so the next Get rereads it.
func (fc *FileCache) Invalidate(path string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if data, ok := fc.mapped[path]; ok {
		if err := data.Unmap(); err != nil {
			fc.logger.Warn("failed to unmap file", "file", path, "error", err)
		}
		delete(fc.mapped, path)
	}
	delete(fc.plain, path)
}

// Size returns the number of cached files.
func (fc *FileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.mapped) + len(fc.plain)
}

// Close unmaps all files and releases file descriptors.
func (fc *FileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var firstErr error
	for path, data := range fc.mapped {
		if err := data.Unmap(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("unmap %q: %w", path, err)
		}
	}
	for _, f := range fc.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	fc.mapped = make(map[string]mmap.MMap)
	fc.plain = make(map[string][]byte)
	fc.files = nil
	return firstErr
}
