package cache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallforfry/harbor/internal/model"
)

func newCache(t *testing.T, sizeMB int, ttl time.Duration) *ImageCache {
	t.Helper()
	c, err := NewImageCache(t.TempDir(), sizeMB, ttl)
	require.NoError(t, err)
	return c
}

func TestPutGet(t *testing.T) {
	c := newCache(t, 10, time.Hour)
	img := model.Image{Registry: "registry.test", Name: "library/nginx", Tag: "latest", Digest: "abc", Size: 42}

	_, ok := c.Get("registry.test", "library/nginx", "latest")
	assert.False(t, ok)

	require.NoError(t, c.Put(img))
	got, ok := c.Get("registry.test", "library/nginx", "latest")
	require.True(t, ok)
	assert.Equal(t, img, *got)

	_, ok = c.Get("registry.test", "library/nginx", "1.27")
	assert.False(t, ok, "other tags of the same repository are separate entries")
}

func TestGetIsPerRegistry(t *testing.T) {
	c := newCache(t, 10, time.Hour)
	require.NoError(t, c.Put(model.Image{Registry: "registry.test", Name: "app", Tag: "v1", Architecture: "arm64"}))

	_, ok := c.Get("other.test", "app", "v1")
	assert.False(t, ok)
	_, ok = c.Get("registry.test", "app", "v1")
	assert.True(t, ok)
}

func TestGetExpired(t *testing.T) {
	c := newCache(t, 10, 0)
	require.NoError(t, c.Put(model.Image{Name: "alpine", Tag: "3"}))

	_, ok := c.Get("", "alpine", "3")
	assert.False(t, ok)
}

func TestListEntriesAndDeleteAll(t *testing.T) {
	c := newCache(t, 10, time.Hour)
	require.NoError(t, c.Put(model.Image{Name: "alpine", Tag: "3"}))
	require.NoError(t, c.Put(model.Image{Registry: "registry.test", Name: "library/nginx", Tag: "latest"}))

	entries, err := c.ListEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	size, err := c.TotalSize()
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))

	require.NoError(t, c.DeleteAll())
	entries, err = c.ListEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEvictOverSize(t *testing.T) {
	c := newCache(t, 0, time.Hour)
	require.NoError(t, c.Put(model.Image{Name: "old", Tag: "1"}))
	old := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(c.entryPath("", "old", "1"), old, old))
	require.NoError(t, c.Put(model.Image{Name: "new", Tag: "1"}))

	require.NoError(t, c.Evict())

	entries, err := c.ListEntries()
	require.NoError(t, err)
	assert.Empty(t, entries, "a zero size cap evicts everything")
}

func TestEvictExpired(t *testing.T) {
	c := newCache(t, 10, time.Minute)
	require.NoError(t, c.Put(model.Image{Name: "stale", Tag: "1"}))
	stale := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(c.entryPath("", "stale", "1"), stale, stale))
	require.NoError(t, c.Put(model.Image{Name: "fresh", Tag: "1"}))

	require.NoError(t, c.Evict())

	entries, err := c.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh", entries[0].Name)
}
