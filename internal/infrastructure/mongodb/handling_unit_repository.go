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

// HandlingUnitRepository persists handling units, their outbound bindings
// and their contents across four collections. Quantity writes are guarded
// by document versions so concurrent packing validations cannot double
// count stock.
type HandlingUnitRepository struct {
	units            *mongo.Collection
	outbounds        *mongo.Collection
	contents         *mongo.Collection
	contentOutbounds *mongo.Collection
	tenantHelper     *tenant.RepositoryHelper
}

func NewHandlingUnitRepository(db *mongo.Database) *HandlingUnitRepository {
	repo := &HandlingUnitRepository{
		units:            db.Collection("handling_units"),
		outbounds:        db.Collection("handling_unit_outbounds"),
		contents:         db.Collection("handling_unit_contents"),
		contentOutbounds: db.Collection("handling_unit_content_outbounds"),
		tenantHelper:     tenant.NewRepositoryHelper(false),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *HandlingUnitRepository) ensureIndexes(ctx context.Context) {
	r.units.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "unitId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sscc", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "locationId", Value: 1}}},
	})
	r.outbounds.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "outboundId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "roundId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "handlingUnitId", Value: 1}}},
	})
	r.contents.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "contentId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "handlingUnitId", Value: 1}, {Key: "articleId", Value: 1}}},
	})
	r.contentOutbounds.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "contentOutboundId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "contentId", Value: 1}, {Key: "deliveryLineId", Value: 1}}},
		{Keys: bson.D{{Key: "outboundId", Value: 1}}},
	})
}

func (r *HandlingUnitRepository) SaveUnit(ctx context.Context, unit *domain.HandlingUnit) error {
	expected := unit.Version
	unit.Version = expected + 1
	unit.UpdatedAt = mongoutil.Now()

	if expected == 0 {
		if _, err := r.units.InsertOne(ctx, unit); err != nil {
			unit.Version = expected
			if mongo.IsDuplicateKeyError(err) {
				return apperrors.ErrVersionConflict("handling unit")
			}
			return fmt.Errorf("failed to insert handling unit: %w", err)
		}
		return nil
	}

	filter := bson.M{"unitId": unit.UnitID, "version": expected}
	result, err := r.units.ReplaceOne(ctx, filter, unit)
	if err != nil {
		unit.Version = expected
		return fmt.Errorf("failed to update handling unit: %w", err)
	}
	if result.ModifiedCount == 0 {
		unit.Version = expected
		return apperrors.ErrVersionConflict("handling unit")
	}
	return nil
}

func (r *HandlingUnitRepository) FindUnitByID(ctx context.Context, unitID string) (*domain.HandlingUnit, error) {
	filter := bson.M{"unitId": unitID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var unit domain.HandlingUnit
	err := r.units.FindOne(ctx, filter).Decode(&unit)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &unit, err
}

func (r *HandlingUnitRepository) DeleteUnit(ctx context.Context, unitID string) error {
	_, err := r.units.DeleteOne(ctx, bson.M{"unitId": unitID})
	return err
}

func (r *HandlingUnitRepository) SaveOutbound(ctx context.Context, outbound *domain.HandlingUnitOutbound) error {
	expected := outbound.Version
	outbound.Version = expected + 1
	outbound.UpdatedAt = mongoutil.Now()

	if expected == 0 {
		if _, err := r.outbounds.InsertOne(ctx, outbound); err != nil {
			outbound.Version = expected
			if mongo.IsDuplicateKeyError(err) {
				return apperrors.ErrVersionConflict("handling unit outbound")
			}
			return fmt.Errorf("failed to insert outbound: %w", err)
		}
		return nil
	}

	filter := bson.M{"outboundId": outbound.OutboundID, "version": expected}
	result, err := r.outbounds.ReplaceOne(ctx, filter, outbound)
	if err != nil {
		outbound.Version = expected
		return fmt.Errorf("failed to update outbound: %w", err)
	}
	if result.ModifiedCount == 0 {
		outbound.Version = expected
		return apperrors.ErrVersionConflict("handling unit outbound")
	}
	return nil
}

func (r *HandlingUnitRepository) FindOutboundByID(ctx context.Context, outboundID string) (*domain.HandlingUnitOutbound, error) {
	filter := bson.M{"outboundId": outboundID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var outbound domain.HandlingUnitOutbound
	err := r.outbounds.FindOne(ctx, filter).Decode(&outbound)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &outbound, err
}

func (r *HandlingUnitRepository) FindInProgressOutboundByRound(ctx context.Context, roundID string) (*domain.HandlingUnitOutbound, error) {
	filter := bson.M{"roundId": roundID, "status": domain.HandlingUnitStatusInProgress}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var outbound domain.HandlingUnitOutbound
	err := r.outbounds.FindOne(ctx, filter).Decode(&outbound)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &outbound, err
}

func (r *HandlingUnitRepository) DeleteOutbound(ctx context.Context, outboundID string) error {
	_, err := r.outbounds.DeleteOne(ctx, bson.M{"outboundId": outboundID})
	return err
}

func (r *HandlingUnitRepository) SaveContent(ctx context.Context, content *domain.HandlingUnitContent) error {
	expected := content.Version
	content.Version = expected + 1
	content.UpdatedAt = mongoutil.Now()

	if expected == 0 {
		if _, err := r.contents.InsertOne(ctx, content); err != nil {
			content.Version = expected
			if mongo.IsDuplicateKeyError(err) {
				return apperrors.ErrVersionConflict("handling unit content")
			}
			return fmt.Errorf("failed to insert content: %w", err)
		}
		return nil
	}

	filter := bson.M{"contentId": content.ContentID, "version": expected}
	result, err := r.contents.ReplaceOne(ctx, filter, content)
	if err != nil {
		content.Version = expected
		return fmt.Errorf("failed to update content: %w", err)
	}
	if result.ModifiedCount == 0 {
		content.Version = expected
		return apperrors.ErrVersionConflict("handling unit content")
	}
	return nil
}

func (r *HandlingUnitRepository) FindContentByID(ctx context.Context, contentID string) (*domain.HandlingUnitContent, error) {
	filter := bson.M{"contentId": contentID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var content domain.HandlingUnitContent
	err := r.contents.FindOne(ctx, filter).Decode(&content)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &content, err
}

func (r *HandlingUnitRepository) FindContentByUnitAndArticle(ctx context.Context, unitID, articleID string) (*domain.HandlingUnitContent, error) {
	filter := bson.M{"handlingUnitId": unitID, "articleId": articleID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var content domain.HandlingUnitContent
	err := r.contents.FindOne(ctx, filter).Decode(&content)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &content, err
}

// AddContentQuantity applies a signed quantity delta in one write. The
// version filter makes the write lose against any concurrent change.
func (r *HandlingUnitRepository) AddContentQuantity(ctx context.Context, contentID string, delta int, expectedVersion int64) error {
	filter := bson.M{"contentId": contentID, "version": expectedVersion}
	update := mongoutil.BuildIncrementUpdate(bson.M{"quantity": delta, "version": 1})

	result, err := r.contents.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update content quantity: %w", err)
	}
	if result.ModifiedCount == 0 {
		return apperrors.ErrVersionConflict("handling unit content")
	}
	return nil
}

func (r *HandlingUnitRepository) DeleteContent(ctx context.Context, contentID string) error {
	_, err := r.contents.DeleteOne(ctx, bson.M{"contentId": contentID})
	return err
}

func (r *HandlingUnitRepository) SaveContentOutbound(ctx context.Context, co *domain.HandlingUnitContentOutbound) error {
	expected := co.Version
	co.Version = expected + 1
	co.UpdatedAt = mongoutil.Now()

	if expected == 0 {
		if _, err := r.contentOutbounds.InsertOne(ctx, co); err != nil {
			co.Version = expected
			if mongo.IsDuplicateKeyError(err) {
				return apperrors.ErrVersionConflict("content outbound")
			}
			return fmt.Errorf("failed to insert content outbound: %w", err)
		}
		return nil
	}

	filter := bson.M{"contentOutboundId": co.ContentOutboundID, "version": expected}
	result, err := r.contentOutbounds.ReplaceOne(ctx, filter, co)
	if err != nil {
		co.Version = expected
		return fmt.Errorf("failed to update content outbound: %w", err)
	}
	if result.ModifiedCount == 0 {
		co.Version = expected
		return apperrors.ErrVersionConflict("content outbound")
	}
	return nil
}

func (r *HandlingUnitRepository) FindContentOutbound(ctx context.Context, contentID, deliveryLineID string) (*domain.HandlingUnitContentOutbound, error) {
	filter := bson.M{"contentId": contentID, "deliveryLineId": deliveryLineID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var co domain.HandlingUnitContentOutbound
	err := r.contentOutbounds.FindOne(ctx, filter).Decode(&co)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &co, err
}

func (r *HandlingUnitRepository) CountContentOutboundsByOutbound(ctx context.Context, outboundID string) (int, error) {
	filter := bson.M{"outboundId": outboundID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	count, err := r.contentOutbounds.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count content outbounds: %w", err)
	}
	return int(count), nil
}

func (r *HandlingUnitRepository) AddContentOutboundQuantity(ctx context.Context, contentOutboundID string, delta int, expectedVersion int64) error {
	filter := bson.M{"contentOutboundId": contentOutboundID, "version": expectedVersion}
	update := mongoutil.BuildIncrementUpdate(bson.M{"pickedQuantity": delta, "version": 1})

	result, err := r.contentOutbounds.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update content outbound quantity: %w", err)
	}
	if result.ModifiedCount == 0 {
		return apperrors.ErrVersionConflict("content outbound")
	}
	return nil
}

func (r *HandlingUnitRepository) DeleteContentOutbound(ctx context.Context, contentOutboundID string) error {
	_, err := r.contentOutbounds.DeleteOne(ctx, bson.M{"contentOutboundId": contentOutboundID})
	return err
}
