package batch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheGet(t *testing.T) {
	fc := NewFileCache(nil)
	defer fc.Close()

	path := writeFile(t, t.TempDir(), "dump.txt", "{a: 1}")

	data, err := fc.Get(path)
	require.NoError(t, err)
	assert.Equal(t, "{a: 1}", string(data))
	assert.Equal(t, 1, fc.Size())

	// Second read comes from cache.
	again, err := fc.Get(path)
	require.NoError(t, err)
	assert.Equal(t, data, again)
	assert.Equal(t, 1, fc.Size())
}

func TestFileCacheEmptyFile(t *testing.T) {
	fc := NewFileCache(nil)
	defer fc.Close()

	path := writeFile(t, t.TempDir(), "empty.txt", "")

	data, err := fc.Get(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileCacheMissingFile(t *testing.T) {
	fc := NewFileCache(nil)
	defer fc.Close()

	_, err := fc.Get(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestFileCacheInvalidate(t *testing.T) {
	fc := NewFileCache(nil)
	defer fc.Close()

	root := t.TempDir()
	path := writeFile(t, root, "dump.txt", "old")

	data, err := fc.Get(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	require.NoError(t, os.WriteFile(path, []byte("new!"), 0644))
	fc.Invalidate(path)

	data, err = fc.Get(path)
	require.NoError(t, err)
	assert.Equal(t, "new!", string(data))
}

func TestFileCacheConcurrentAccess(t *testing.T) {
	fc := NewFileCache(nil)
	defer fc.Close()

	path := writeFile(t, t.TempDir(), "dump.txt", "{a: 1}")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := fc.Get(path)
			assert.NoError(t, err)
			assert.Equal(t, "{a: 1}", string(data))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fc.Size())
}

func TestFileCacheClose(t *testing.T) {
	fc := NewFileCache(nil)
	path := writeFile(t, t.TempDir(), "dump.txt", "{a: 1}")

	_, err := fc.Get(path)
	require.NoError(t, err)
	require.NoError(t, fc.Close())
	assert.Equal(t, 0, fc.Size())
}
