package idempotency

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdempotencyKey tracks one client-submitted idempotency key and, once the
// request completes, the response to replay for retries.
type IdempotencyKey struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Key                string             `bson:"key"`
	UserID             string             `bson:"userId,omitempty"`
	ServiceID          string             `bson:"serviceId"`
	RequestPath        string             `bson:"requestPath"`
	RequestMethod      string             `bson:"requestMethod"`
	RequestFingerprint string             `bson:"requestFingerprint"`
	LockedAt           *time.Time         `bson:"lockedAt,omitempty"`
	ResponseCode       int                `bson:"responseCode,omitempty"`
	ResponseBody       []byte             `bson:"responseBody,omitempty"`
	ResponseHeaders    map[string]string  `bson:"responseHeaders,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt"`
	CompletedAt        *time.Time         `bson:"completedAt,omitempty"`
	ExpiresAt          time.Time          `bson:"expiresAt"`
}

// IsCompleted reports whether the original request finished and a response
// was cached for replay.
func (k *IdempotencyKey) IsCompleted() bool {
	return k.CompletedAt != nil
}

// IsLocked reports whether another request currently holds the key.
func (k *IdempotencyKey) IsLocked() bool {
	return k.LockedAt != nil && k.CompletedAt == nil
}
