// Package cache stores declutter results keyed by the snapshot and options
// that produced them.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for servers sharing results, and [NullCache] when caching is off. Keys are
// built by a [Keyer] so that callers never assemble key strings by hand.
package cache

import (
	"context"
	"time"

	errs "github.com/matzehuels/wiresep/pkg/errors"
)

// Cache is a byte-oriented store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any held resources.
	Close() error
}

// DeclutterKeyOpts are the settings that change a declutter result.
type DeclutterKeyOpts struct {
	MaxSegmentSeparation float64 `json:"sep"`
	MinNubLength         float64 `json:"nub"`
	Corners              bool    `json:"corners"`
	MaxCornerSize        float64 `json:"corner_size,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// DeclutterKey returns the key of the result of decluttering the
	// snapshot with the given hash.
	DeclutterKey(snapshotHash string, opts DeclutterKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DeclutterKey implements Keyer.
func (DefaultKeyer) DeclutterKey(snapshotHash string, opts DeclutterKeyOpts) string {
	return digestKey("declutter", snapshotHash, opts)
}

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Open returns the cache for a configured backend. An empty backend means
// file; an empty dir means DefaultDir.
func Open(ctx context.Context, backend, dir, redisURL string) (Cache, error) {
	switch backend {
	case "", BackendFile:
		if dir == "" {
			dir = DefaultDir()
		}
		return NewFileCache(dir)
	case BackendRedis:
		if redisURL == "" {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "redis cache backend needs a redis url")
		}
		return NewRedisCache(ctx, redisURL)
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", backend)
}
