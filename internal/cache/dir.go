package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DirCache keeps one <hash>.json file per transaction in a directory.
// Writes go through a tmp file and rename so readers never observe a
// partial entry. No two workers ever own the same hash, so per-key
// locking is not needed.
type DirCache struct {
	dir string
}

// NewDirCache creates the cache directory if needed.
func NewDirCache(dir string) (*DirCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DirCache{dir: dir}, nil
}

func (c *DirCache) entryPath(hash string) string {
	return filepath.Join(c.dir, hash+".json")
}

// Get reads the cached entry for hash. A missing or corrupt entry reads
// as a miss, not an error, so it will be re-fetched.
func (c *DirCache) Get(hash string) (json.RawMessage, bool, error) {
	data, err := os.ReadFile(c.entryPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	if !json.Valid(data) {
		return nil, false, nil
	}
	return json.RawMessage(data), true, nil
}

// Put stores the entry for hash atomically.
func (c *DirCache) Put(hash string, raw json.RawMessage) error {
	path := c.entryPath(hash)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o644); err != nil {
		return fmt.Errorf("write cache tmp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename cache entry: %w", err)
	}
	return nil
}

func (c *DirCache) Close() error {
	return nil
}
