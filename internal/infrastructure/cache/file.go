package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// FileCache stores entries as files under a directory, one per key.
// Expiry is measured from file modification time, so a stale entry is
// never served past its TTL even when the process never restarts. No
// locking: a torn concurrent read fails deserialization downstream and is
// treated as a miss there.
type FileCache struct {
	dir string
	ttl time.Duration
}

// NewFile creates a file cache rooted at dir.
func NewFile(dir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, ttl: ttl}, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the entry for key unless it is missing or older than the TTL.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool) {
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		return nil, false
	}
	return data, true
}

// Set writes the entry for key. Write failures only log.
func (c *FileCache) Set(ctx context.Context, key string, data []byte) {
	if err := os.WriteFile(c.path(key), data, 0o644); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Clear removes every cache entry and returns the number deleted.
func (c *FileCache) Clear() int {
	entries, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return 0
	}
	removed := 0
	for _, path := range entries {
		if os.Remove(path) == nil {
			removed++
		}
	}
	return removed
}

// Info describes the state of a file cache for operational commands.
type Info struct {
	Dir        string        `json:"dir"`
	FileCount  int           `json:"file_count"`
	TotalBytes int64         `json:"total_bytes"`
	TTL        time.Duration `json:"ttl"`
}

// Stats reports entry count and total size.
func (c *FileCache) Stats() Info {
	info := Info{Dir: c.dir, TTL: c.ttl}
	entries, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return info
	}
	for _, path := range entries {
		if fi, err := os.Stat(path); err == nil {
			info.FileCount++
			info.TotalBytes += fi.Size()
		}
	}
	return info
}
