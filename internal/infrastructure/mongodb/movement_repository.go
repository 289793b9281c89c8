package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/rf-picking-service/internal/domain"
	"github.com/wms-platform/rf-picking-service/pkg/cloudevents"
	"github.com/wms-platform/rf-picking-service/pkg/kafka"
	"github.com/wms-platform/rf-picking-service/pkg/outbox"
	outboxMongo "github.com/wms-platform/rf-picking-service/pkg/outbox/mongodb"
	"github.com/wms-platform/rf-picking-service/pkg/tenant"
)

type MovementRepository struct {
	collection   *mongo.Collection
	db           *mongo.Database
	outboxRepo   *outboxMongo.OutboxRepository
	eventFactory *cloudevents.EventFactory
	tenantHelper *tenant.RepositoryHelper
}

func NewMovementRepository(db *mongo.Database, eventFactory *cloudevents.EventFactory) *MovementRepository {
	repo := &MovementRepository{
		collection:   db.Collection("movements"),
		db:           db,
		outboxRepo:   outboxMongo.NewOutboxRepository(db),
		eventFactory: eventFactory,
		tenantHelper: tenant.NewRepositoryHelper(false),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *MovementRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "movementId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "transactionId", Value: 1}}},
		{Keys: bson.D{{Key: "articleId", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)

	_ = r.outboxRepo.EnsureIndexes(ctx)
}

// Save writes the movement record and the packing transaction's events in
// one transaction. The events ride the outbox so a crash between the
// commit and the publish cannot lose them.
func (r *MovementRepository) Save(ctx context.Context, movement *domain.Movement, events []domain.DomainEvent) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := r.collection.InsertOne(sessCtx, movement); err != nil {
			return nil, fmt.Errorf("failed to insert movement: %w", err)
		}

		outboxEvents := make([]*outbox.OutboxEvent, 0, len(events))
		for _, event := range events {
			var cloudEvent *cloudevents.WMSCloudEvent
			var topic string
			switch e := event.(type) {
			case *domain.RoundPackingValidatedEvent:
				cloudEvent = r.eventFactory.CreateEventWithTransaction(sessCtx, e.EventType(), "round/"+e.RoundID, e, e.TransactionID)
				topic = kafka.Topics.RFPickingEvents
			case *domain.MovementCreatedEvent:
				cloudEvent = r.eventFactory.CreateEventWithTransaction(sessCtx, e.EventType(), "movement/"+e.MovementID, e, e.TransactionID)
				topic = kafka.Topics.MovementEvents
			case *domain.HandlingUnitCreatedEvent:
				cloudEvent = r.eventFactory.CreateEvent(sessCtx, e.EventType(), "handling-unit/"+e.UnitID, e)
				topic = kafka.Topics.RFPickingEvents
			default:
				continue
			}

			outboxEvent, err := outbox.NewOutboxEventFromCloudEvent(
				movement.MovementID,
				"Movement",
				topic,
				cloudEvent,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create outbox event: %w", err)
			}
			outboxEvents = append(outboxEvents, outboxEvent)
		}

		if len(outboxEvents) > 0 {
			if err := r.outboxRepo.SaveAll(sessCtx, outboxEvents); err != nil {
				return nil, fmt.Errorf("failed to save outbox events: %w", err)
			}
		}

		return nil, nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (r *MovementRepository) Delete(ctx context.Context, movementID string) error {
	filter := bson.M{"movementId": movementID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	_, err := r.collection.DeleteOne(ctx, filter)
	return err
}
