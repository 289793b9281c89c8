package idempotency

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultMaxKeyLength is the maximum accepted key length.
	DefaultMaxKeyLength = 255

	// DefaultLockTimeout is how long a lock is honored before it is
	// considered stale.
	DefaultLockTimeout = 5 * time.Minute

	// DefaultRetentionPeriod is how long completed keys are kept.
	DefaultRetentionPeriod = 24 * time.Hour

	// DefaultMaxResponseSize caps the size of cached response bodies.
	DefaultMaxResponseSize = 1024 * 1024
)

// Config controls the idempotency middleware.
type Config struct {
	// ServiceName scopes keys so different services cannot collide.
	ServiceName string

	// Repository stores keys and cached responses.
	Repository KeyRepository

	// RequireKey rejects mutating requests that omit the header.
	RequireKey bool

	// OnlyMutating limits the middleware to POST/PUT/PATCH/DELETE.
	OnlyMutating bool

	// UserIDExtractor optionally derives a user identity for the key record.
	UserIDExtractor func(c *gin.Context) string

	MaxKeyLength    int
	LockTimeout     time.Duration
	RetentionPeriod time.Duration
	MaxResponseSize int
}

// DefaultConfig returns a Config with sane defaults for the given service.
func DefaultConfig(serviceName string, repository KeyRepository) *Config {
	return &Config{
		ServiceName:     serviceName,
		Repository:      repository,
		RequireKey:      false,
		OnlyMutating:    true,
		MaxKeyLength:    DefaultMaxKeyLength,
		LockTimeout:     DefaultLockTimeout,
		RetentionPeriod: DefaultRetentionPeriod,
		MaxResponseSize: DefaultMaxResponseSize,
	}
}
