package cache

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wallforfry/harbor/internal/model"
)

// ImageCache keeps image details on disk so that revisiting a tag does not
// hit the registry again within the TTL.
type ImageCache struct {
	dir     string
	maxSize int64         // max total cache size in bytes
	ttl     time.Duration // cache entry TTL
}

// Entry describes one cached image tag.
type Entry struct {
	Registry string
	Name     string
	Tag      string
	StoredAt time.Time
	Size     int64
	Path     string
}

type record struct {
	StoredAt time.Time   `json:"stored_at"`
	Image    model.Image `json:"image"`
}

func NewImageCache(dir string, maxSizeMB int, ttl time.Duration) (*ImageCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image cache dir: %w", err)
	}
	return &ImageCache{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		ttl:     ttl,
	}, nil
}

// entryPath maps registry/name:tag to a single flat file. Repository names
// contain slashes, so the whole key is query-escaped.
func (c *ImageCache) entryPath(registry, name, tag string) string {
	return filepath.Join(c.dir, url.QueryEscape(registry+"/"+name+":"+tag)+".json")
}

// Get returns the cached image for name:tag on registry if present and not
// expired.
func (c *ImageCache) Get(registry, name, tag string) (*model.Image, bool) {
	data, err := os.ReadFile(c.entryPath(registry, name, tag))
	if err != nil {
		return nil, false
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false
	}
	if time.Since(rec.StoredAt) >= c.ttl || rec.Image.Registry != registry {
		return nil, false
	}
	return &rec.Image, true
}

// Put stores img, replacing any previous entry for the same tag.
func (c *ImageCache) Put(img model.Image) error {
	data, err := json.Marshal(record{StoredAt: time.Now(), Image: img})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := os.WriteFile(c.entryPath(img.Registry, img.Name, img.Tag), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// ListEntries scans the cache directory and returns all entries, newest first.
func (c *ImageCache) ListEntries() ([]Entry, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var result []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		path := filepath.Join(c.dir, f.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		result = append(result, Entry{
			Registry: rec.Image.Registry,
			Name:     rec.Image.Name,
			Tag:      rec.Image.Tag,
			StoredAt: rec.StoredAt,
			Size:     int64(len(data)),
			Path:     path,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StoredAt.After(result[j].StoredAt)
	})
	return result, nil
}

// Evict removes expired and oversized cache entries.
func (c *ImageCache) Evict() error {
	type cacheFile struct {
		path    string
		modTime time.Time
		size    int64
	}

	var files []cacheFile
	var totalSize int64

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		files = append(files, cacheFile{path: path, modTime: info.ModTime(), size: info.Size()})
		totalSize += info.Size()
		return nil
	})
	if err != nil {
		return err
	}

	// Evict expired entries
	now := time.Now()
	remaining := files[:0]
	for _, f := range files {
		if now.Sub(f.modTime) > c.ttl {
			os.Remove(f.path)
			totalSize -= f.size
		} else {
			remaining = append(remaining, f)
		}
	}
	files = remaining

	// Evict oldest entries if over size cap
	if totalSize > c.maxSize {
		sort.Slice(files, func(i, j int) bool {
			return files[i].modTime.Before(files[j].modTime)
		})
		for _, f := range files {
			if totalSize <= c.maxSize {
				break
			}
			os.Remove(f.path)
			totalSize -= f.size
		}
	}
	return nil
}

// DeleteAll removes all cache entries.
func (c *ImageCache) DeleteAll() error {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, f := range files {
		os.RemoveAll(filepath.Join(c.dir, f.Name()))
	}
	return nil
}

// TotalSize returns total cache size in bytes.
func (c *ImageCache) TotalSize() (int64, error) {
	var total int64
	err := filepath.Walk(c.dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	return total, nil
}
