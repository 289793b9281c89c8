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

// RoundRepository reads picking rounds and their line details. Rounds and
// advised addresses are produced upstream and treated as read-only here;
// only the packed counters on line details are written.
type RoundRepository struct {
	rounds       *mongo.Collection
	addresses    *mongo.Collection
	lineDetails  *mongo.Collection
	tenantHelper *tenant.RepositoryHelper
}

func NewRoundRepository(db *mongo.Database) *RoundRepository {
	repo := &RoundRepository{
		rounds:       db.Collection("rounds"),
		addresses:    db.Collection("round_advised_addresses"),
		lineDetails:  db.Collection("round_line_details"),
		tenantHelper: tenant.NewRepositoryHelper(false),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *RoundRepository) ensureIndexes(ctx context.Context) {
	r.rounds.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "roundId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	r.addresses.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "roundId", Value: 1}, {Key: "locationId", Value: 1}}},
	})
	r.lineDetails.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "lineId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "roundId", Value: 1}, {Key: "articleId", Value: 1}, {Key: "order", Value: 1}}},
	})
}

func (r *RoundRepository) FindByID(ctx context.Context, roundID string) (*domain.Round, error) {
	filter := bson.M{"roundId": roundID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var round domain.Round
	err := r.rounds.FindOne(ctx, filter).Decode(&round)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &round, err
}

func (r *RoundRepository) FindByName(ctx context.Context, name string) (*domain.Round, error) {
	filter := bson.M{"name": name}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var round domain.Round
	err := r.rounds.FindOne(ctx, filter).Decode(&round)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &round, err
}

func (r *RoundRepository) FindAdvisedAddresses(ctx context.Context, roundID string) ([]domain.RoundAdvisedAddress, error) {
	filter := bson.M{"roundId": roundID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	opts := options.Find().SetSort(bson.D{{Key: "locationId", Value: 1}})
	cursor, err := r.addresses.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var addresses []domain.RoundAdvisedAddress
	err = cursor.All(ctx, &addresses)
	return addresses, err
}

// FindLineDetails returns the lines for one article of a round in
// ascending order. The allocation loop depends on this ordering.
func (r *RoundRepository) FindLineDetails(ctx context.Context, roundID, articleID string) ([]domain.RoundLineDetail, error) {
	filter := bson.M{"roundId": roundID, "articleId": articleID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.lineDetails.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var lines []domain.RoundLineDetail
	err = cursor.All(ctx, &lines)
	return lines, err
}

func (r *RoundRepository) AddPackedQuantity(ctx context.Context, lineID string, delta int, expectedVersion int64) error {
	filter := bson.M{"lineId": lineID, "version": expectedVersion}
	update := mongoutil.BuildIncrementUpdate(bson.M{"packedQuantity": delta, "version": 1})

	result, err := r.lineDetails.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update packed quantity: %w", err)
	}
	if result.ModifiedCount == 0 {
		return apperrors.ErrVersionConflict("round line detail")
	}
	return nil
}
