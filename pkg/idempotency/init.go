package idempotency

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
)

// InitializeIndexes creates the idempotency key indexes at startup.
func InitializeIndexes(ctx context.Context, db *mongo.Database) error {
	repo := NewMongoKeyRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		slog.Error("Failed to create idempotency key indexes", "error", err)
		return err
	}
	slog.Info("Idempotency key indexes ready")
	return nil
}
