package idempotency

import "errors"

var (
	// ErrKeyRequired indicates the Idempotency-Key header was missing.
	ErrKeyRequired = errors.New("idempotency key is required")

	// ErrKeyInvalid indicates the key contains disallowed characters.
	ErrKeyInvalid = errors.New("idempotency key contains invalid characters")

	// ErrKeyTooLong indicates the key exceeds the configured maximum length.
	ErrKeyTooLong = errors.New("idempotency key exceeds maximum length")

	// ErrParameterMismatch indicates a retry reused a key with a different
	// request body.
	ErrParameterMismatch = errors.New("request parameters differ from original request")

	// ErrConcurrentRequest indicates another request holds the key's lock.
	ErrConcurrentRequest = errors.New("request with this idempotency key is in progress")

	// ErrNotFound indicates the key does not exist.
	ErrNotFound = errors.New("idempotency key not found")
)
