// Package cache provides the key/value backends the layout store is built on.
//
// # Backends
//
//   - [FileCache]: one JSON file per key under a directory, for the CLI
//   - [RedisCache]: Redis via go-redis, for servers sharing layouts
//   - [MongoCache]: a MongoDB collection, for servers keeping layouts durably
//   - [NullCache]: stores nothing, for tests and --no-store runs
//
// All backends treat a missing or expired key as a miss, not an error.
//
// # Keys
//
// A [Keyer] turns layout names and grid hashes into backend keys. Wrap it in
// a [ScopedKeyer] to give each tenant or workspace its own namespace.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the value until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey is the key a named layout is stored under.
	LayoutKey(name string) string

	// ShapeKey is the key of a tree shape built from a grid description,
	// identified by the hash of the description.
	ShapeKey(gridHash string) string
}

// DefaultKeyer generates plain, readable keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<name>".
func (DefaultKeyer) LayoutKey(name string) string {
	return "layout:" + name
}

// ShapeKey returns "shape:<hash>" where hash covers the grid hash and the
// version of the builder output.
func (DefaultKeyer) ShapeKey(gridHash string) string {
	return "shape:" + Hash(fmt.Appendf(nil, "%s\x00%d", gridHash, shapeFormat))
}

// shapeFormat is bumped when the shape encoding changes so that stale
// entries are not read back.
const shapeFormat = 1

// Hash returns the hex SHA-256 digest of data. Grid descriptions are keyed by
// it, and [FileCache] names its files after the digest of the key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
