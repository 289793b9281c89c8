package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/rf-picking-service/internal/domain"
	"github.com/wms-platform/rf-picking-service/pkg/tenant"
)

type LocationRepository struct {
	collection   *mongo.Collection
	tenantHelper *tenant.RepositoryHelper
}

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	repo := &LocationRepository{
		collection:   db.Collection("locations"),
		tenantHelper: tenant.NewRepositoryHelper(false),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *LocationRepository) ensureIndexes(ctx context.Context) {
	r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "locationId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "isShipping", Value: 1}, {Key: "isDefault", Value: 1}}},
	})
}

func (r *LocationRepository) FindByID(ctx context.Context, locationID string) (*domain.WarehouseLocation, error) {
	filter := bson.M{"locationId": locationID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var location domain.WarehouseLocation
	err := r.collection.FindOne(ctx, filter).Decode(&location)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &location, err
}

func (r *LocationRepository) FindDefaultShipping(ctx context.Context) (*domain.WarehouseLocation, error) {
	filter := bson.M{"isShipping": true, "isDefault": true}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var location domain.WarehouseLocation
	err := r.collection.FindOne(ctx, filter).Decode(&location)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &location, err
}
