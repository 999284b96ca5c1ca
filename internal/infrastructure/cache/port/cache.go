package port

import (
	"context"
	"time"
)

// Cache is the key-value store behind the chat-list preview cache. Values are
// strings; callers own serialization. Implementations must be safe for
// concurrent use, and a cache being down must only ever cost latency, never
// correctness, so every error from this interface is advisory.
type Cache interface {
	// Get returns the value at key, or ErrMiss when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. A zero or negative TTL means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes keys and reports how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Ping verifies connectivity; the health endpoint reports its result.
	Ping(ctx context.Context) error

	Close() error
}

// ErrMiss distinguishes an absent key from a transport failure; preview
// lookups fall through to the store on a miss and log anything else.
var ErrMiss = errMiss{}

type errMiss struct{}

func (errMiss) Error() string { return "cache: miss" }
