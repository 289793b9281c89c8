package idempotency

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const idempotencyKeysCollection = "idempotency_keys"

// MongoKeyRepository implements KeyRepository on MongoDB.
type MongoKeyRepository struct {
	collection *mongo.Collection
}

// NewMongoKeyRepository creates a MongoDB-backed key repository.
func NewMongoKeyRepository(db *mongo.Database) *MongoKeyRepository {
	return &MongoKeyRepository{
		collection: db.Collection(idempotencyKeysCollection),
	}
}

// AcquireLock upserts the key and sets lockedAt in a single atomic operation.
func (r *MongoKeyRepository) AcquireLock(ctx context.Context, key *IdempotencyKey) (*IdempotencyKey, bool, error) {
	now := time.Now().UTC()
	key.LockedAt = &now

	filter := bson.M{
		"serviceId": key.ServiceID,
		"key":       key.Key,
	}

	update := bson.M{
		"$setOnInsert": bson.M{
			"key":                key.Key,
			"serviceId":          key.ServiceID,
			"userId":             key.UserID,
			"requestPath":        key.RequestPath,
			"requestMethod":      key.RequestMethod,
			"requestFingerprint": key.RequestFingerprint,
			"createdAt":          key.CreatedAt,
			"expiresAt":          key.ExpiresAt,
		},
		"$set": bson.M{
			"lockedAt": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result IdempotencyKey
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return nil, false, err
	}

	isNew := result.CompletedAt == nil && result.CreatedAt.Equal(key.CreatedAt)

	return &result, isNew, nil
}

// ReleaseLock clears the lock without marking the key completed.
func (r *MongoKeyRepository) ReleaseLock(ctx context.Context, keyID string) error {
	objID, err := primitive.ObjectIDFromHex(keyID)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$unset": bson.M{"lockedAt": ""}},
	)
	return err
}

// StoreResponse records the cached response and marks the key completed.
func (r *MongoKeyRepository) StoreResponse(ctx context.Context, keyID string, responseCode int, responseBody []byte, headers map[string]string) error {
	objID, err := primitive.ObjectIDFromHex(keyID)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"responseCode":    responseCode,
			"responseBody":    responseBody,
			"responseHeaders": headers,
			"completedAt":     time.Now().UTC(),
		},
		"$unset": bson.M{"lockedAt": ""},
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	return err
}

// Get retrieves a key by its key string and owning service.
func (r *MongoKeyRepository) Get(ctx context.Context, key, serviceID string) (*IdempotencyKey, error) {
	filter := bson.M{
		"serviceId": serviceID,
		"key":       key,
	}

	var result IdempotencyKey
	if err := r.collection.FindOne(ctx, filter).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &result, nil
}

// Clean removes keys that expired before the given time.
func (r *MongoKeyRepository) Clean(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"expiresAt": bson.M{"$lt": before},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates the unique key index, the TTL index, and a sparse
// index on lockedAt for stale lock cleanup.
func (r *MongoKeyRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "serviceId", Value: 1},
				{Key: "key", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_service_key"),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_ttl"),
		},
		{
			Keys:    bson.D{{Key: "lockedAt", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_locked"),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
