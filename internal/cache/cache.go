package cache

import (
	"bytes"
	"encoding/json"
)

// Null is the stored marker for a confirmed-absent detail. Caching it
// keeps repeated runs from re-fetching permanently missing hashes.
var Null = json.RawMessage("null")

// DetailCache stores raw, already-unwrapped detail JSON keyed exactly
// by transaction hash. Entries are immutable once stored; a forced
// refresh bypasses reads but still writes.
type DetailCache interface {
	Get(hash string) (json.RawMessage, bool, error)
	Put(hash string, raw json.RawMessage) error
	Close() error
}

// IsNull reports whether a cached value is the confirmed-absent marker.
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
