package cache

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var detailsBucket = []byte("tx_details")

// BoltCache stores detail entries in a single-file bbolt database, one
// record per hash. Useful when a directory of small files is too slow
// or too many inodes.
type BoltCache struct {
	db *bolt.DB
}

// NewBoltCache opens (or creates) the database at path.
func NewBoltCache(path string) (*BoltCache, error) {
	if path == "" {
		return nil, fmt.Errorf("cache db path is required")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(detailsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}
	return &BoltCache{db: db}, nil
}

func (c *BoltCache) Get(hash string) (json.RawMessage, bool, error) {
	var out json.RawMessage
	err := c.db.View(func(tx *bolt.Tx) error {
		val := tx.Bucket(detailsBucket).Get([]byte(hash))
		if val == nil {
			return nil
		}
		out = make(json.RawMessage, len(val))
		copy(out, val)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	if out == nil || !json.Valid(out) {
		return nil, false, nil
	}
	return out, true, nil
}

func (c *BoltCache) Put(hash string, raw json.RawMessage) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(detailsBucket).Put([]byte(hash), raw)
	})
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}
