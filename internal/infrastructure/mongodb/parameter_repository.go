package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/rf-picking-service/internal/domain"
	"github.com/wms-platform/rf-picking-service/pkg/tenant"
)

// ParameterRepository reads warehouse configuration parameters. Parameters
// are maintained by the configuration service; this service only reads a
// snapshot at session start.
type ParameterRepository struct {
	collection   *mongo.Collection
	tenantHelper *tenant.RepositoryHelper
}

func NewParameterRepository(db *mongo.Database) *ParameterRepository {
	repo := &ParameterRepository{
		collection:   db.Collection("parameters"),
		tenantHelper: tenant.NewRepositoryHelper(false),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ParameterRepository) ensureIndexes(ctx context.Context) {
	r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "scope", Value: 1}, {Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
}

func (r *ParameterRepository) FindByScope(ctx context.Context, scope string) ([]domain.Parameter, error) {
	filter := bson.M{"scope": scope}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var params []domain.Parameter
	err = cursor.All(ctx, &params)
	return params, err
}
