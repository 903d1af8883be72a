package cache

import (
	"context"
	"time"
)

// Cache is the contract for the shared low-latency store. Everything kept
// behind it (entity projections, aggregate snapshots, rate-limit counters,
// session tokens) is derived and disposable: the relational store stays
// authoritative and full eviction at any time only costs latency.
type Cache interface {
	// Get reads key and unmarshals it into dest.
	// Returns (false, nil) on a miss; dest is untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with a TTL. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
