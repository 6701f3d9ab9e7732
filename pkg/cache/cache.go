// Package cache stores rendered artifacts so that re-rendering an unchanged
// scene is free.
//
// Keys are derived from content: [ArtifactKey] hashes the DOT source
// together with the output format, so any change to the scene yields a new
// key and stale entries simply age out.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactOpts are the render settings that change an artifact's bytes.
type ArtifactOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// ArtifactKey returns the cache key of the artifact rendered from dot.
func ArtifactKey(dot string, opts ArtifactOpts) string {
	return hashKey("artifact", Hash([]byte(dot)), opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
