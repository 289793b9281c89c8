package idempotency

import (
	"context"
	"time"
)

// KeyRepository persists idempotency keys and their cached responses.
type KeyRepository interface {
	// AcquireLock atomically creates the key or locks an existing one.
	// It returns the stored key and whether this call created it.
	AcquireLock(ctx context.Context, key *IdempotencyKey) (*IdempotencyKey, bool, error)

	// ReleaseLock clears the lock without storing a response, for requests
	// that fail before producing a cacheable result.
	ReleaseLock(ctx context.Context, keyID string) error

	// StoreResponse records the final response and marks the key completed.
	StoreResponse(ctx context.Context, keyID string, responseCode int, responseBody []byte, headers map[string]string) error

	// Get looks up a key by its key string and owning service.
	Get(ctx context.Context, key, serviceID string) (*IdempotencyKey, error)

	// Clean removes keys that expired before the given time.
	Clean(ctx context.Context, before time.Time) (int64, error)

	// EnsureIndexes creates the indexes the repository relies on.
	EnsureIndexes(ctx context.Context) error
}
