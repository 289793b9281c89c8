package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/rf-picking-service/internal/domain"
	apperrors "github.com/wms-platform/rf-picking-service/pkg/errors"
	mongoutil "github.com/wms-platform/rf-picking-service/pkg/mongodb"
	"github.com/wms-platform/rf-picking-service/pkg/tenant"
)

type FeatureRepository struct {
	collection   *mongo.Collection
	tenantHelper *tenant.RepositoryHelper
}

func NewFeatureRepository(db *mongo.Database) *FeatureRepository {
	repo := &FeatureRepository{
		collection:   db.Collection("content_features"),
		tenantHelper: tenant.NewRepositoryHelper(false),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *FeatureRepository) ensureIndexes(ctx context.Context) {
	r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "featureId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "contentId", Value: 1}, {Key: "type", Value: 1}}},
	})
}

func (r *FeatureRepository) FindByContentAndType(ctx context.Context, contentID, featureType string) (*domain.ContentFeature, error) {
	filter := bson.M{"contentId": contentID, "type": featureType}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var feature domain.ContentFeature
	err := r.collection.FindOne(ctx, filter).Decode(&feature)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &feature, err
}

// Rebind moves a feature record to another content row. Serialized picks
// use this to keep the serial number attached to the stock it describes.
func (r *FeatureRepository) Rebind(ctx context.Context, featureID, contentID string) error {
	filter := bson.M{"featureId": featureID}
	update := mongoutil.BuildUpdateWithTimestamp(bson.M{"contentId": contentID})

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to rebind feature: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound("content feature")
	}
	return nil
}
