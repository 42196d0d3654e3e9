// Package cache provides the distributed cache tier for the Frontegg SDK.
// The SDK caches fetched token verification keys so that multiple processes
// sharing a cache backend avoid refetching key material from the platform.
//
// The [Adapter] interface abstracts the backend. Two implementations are
// provided:
//
//   - [Memory]: a mutex-guarded in-process map with per-entry expiry,
//     suitable for tests and single-process deployments
//   - [Redis]: a go-redis backed adapter with OpenTelemetry tracing and
//     structured error handling, for multi-process deployments
//
// Cache misses are not errors: Get returns ("", false, nil) when the key is
// absent or expired.
package cache

import (
	"context"
	"time"
)

// Adapter is the storage interface for the SDK's distributed cache tier.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Get returns the value stored under key. The second return value is
	// false when the key is absent or expired; absence is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key. A zero or negative ttl stores the value
	// without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources. After Close the adapter must not
	// be used.
	Close() error
}
