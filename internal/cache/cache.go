package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for memoizing parse results
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration) error
	Delete(key string) error
	Clear() error
	Len() int
}

// Key namespaces a raw value for a given parser
func Key(namespace, raw string) string {
	return "crimeetl:v1:" + namespace + ":" + raw
}

// HashKey is Key for long raw values
func HashKey(namespace, raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return Key(namespace, hex.EncodeToString(hash[:]))
}

// Nop is a Cache that never stores anything. Used when caching is disabled.
type Nop struct{}

func (Nop) Get(string) (any, bool) { return nil, false }
func (Nop) Set(string, any, time.Duration) error { return nil }
func (Nop) Delete(string) error { return nil }
func (Nop) Clear() error { return nil }
func (Nop) Len() int { return 0 }
