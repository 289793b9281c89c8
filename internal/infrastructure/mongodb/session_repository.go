package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/rf-picking-service/internal/domain"
	"github.com/wms-platform/rf-picking-service/pkg/cloudevents"
	apperrors "github.com/wms-platform/rf-picking-service/pkg/errors"
	"github.com/wms-platform/rf-picking-service/pkg/kafka"
	mongoutil "github.com/wms-platform/rf-picking-service/pkg/mongodb"
	"github.com/wms-platform/rf-picking-service/pkg/outbox"
	outboxMongo "github.com/wms-platform/rf-picking-service/pkg/outbox/mongodb"
	"github.com/wms-platform/rf-picking-service/pkg/tenant"
)

type SessionRepository struct {
	collection   *mongo.Collection
	db           *mongo.Database
	outboxRepo   *outboxMongo.OutboxRepository
	eventFactory *cloudevents.EventFactory
	tenantHelper *tenant.RepositoryHelper
}

func NewSessionRepository(db *mongo.Database, eventFactory *cloudevents.EventFactory) *SessionRepository {
	collection := db.Collection("picking_sessions")
	outboxRepo := outboxMongo.NewOutboxRepository(db)

	repo := &SessionRepository{
		collection:   collection,
		db:           db,
		outboxRepo:   outboxRepo,
		eventFactory: eventFactory,
		tenantHelper: tenant.NewRepositoryHelper(false),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *SessionRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sessionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		// One active session per owner and process; completed history stays.
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "processName", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.SessionStatusActive}),
		},
		{Keys: bson.D{{Key: "roundId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)

	_ = r.outboxRepo.EnsureIndexes(ctx)
}

// Save persists a session and its domain events in a single transaction.
// A stale in-memory version loses against the stored document and returns
// a conflict instead of overwriting it.
func (r *SessionRepository) Save(ctx context.Context, s *domain.PickingSession) error {
	expected := s.Version
	s.Version = expected + 1
	s.UpdatedAt = mongoutil.Now()

	session, err := r.db.Client().StartSession()
	if err != nil {
		s.Version = expected
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if expected == 0 {
			if _, err := r.collection.InsertOne(sessCtx, s); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return nil, apperrors.ErrVersionConflict("picking session")
				}
				return nil, fmt.Errorf("failed to insert session: %w", err)
			}
		} else {
			filter := bson.M{"sessionId": s.SessionID, "version": expected}
			result, err := r.collection.ReplaceOne(sessCtx, filter, s)
			if err != nil {
				return nil, fmt.Errorf("failed to update session: %w", err)
			}
			if result.ModifiedCount == 0 {
				return nil, apperrors.ErrVersionConflict("picking session")
			}
		}

		if err := r.saveOutboxEvents(sessCtx, s); err != nil {
			return nil, err
		}

		s.ClearDomainEvents()
		return nil, nil
	})

	if err != nil {
		s.Version = expected
		return err
	}
	return nil
}

func (r *SessionRepository) saveOutboxEvents(sessCtx mongo.SessionContext, s *domain.PickingSession) error {
	domainEvents := s.GetDomainEvents()
	if len(domainEvents) == 0 {
		return nil
	}

	outboxEvents := make([]*outbox.OutboxEvent, 0, len(domainEvents))
	for _, event := range domainEvents {
		var cloudEvent *cloudevents.WMSCloudEvent
		switch e := event.(type) {
		case *domain.SessionStartedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, e.EventType(), "session/"+e.SessionID, e)
		case *domain.StepCompletedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, e.EventType(), "session/"+e.SessionID, e)
		case *domain.SessionResetEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, e.EventType(), "session/"+e.SessionID, e)
		case *domain.SessionCompletedEvent:
			cloudEvent = r.eventFactory.CreateEvent(sessCtx, e.EventType(), "session/"+e.SessionID, e)
		default:
			continue
		}

		outboxEvent, err := outbox.NewOutboxEventFromCloudEvent(
			s.SessionID,
			"PickingSession",
			kafka.Topics.RFPickingEvents,
			cloudEvent,
		)
		if err != nil {
			return fmt.Errorf("failed to create outbox event: %w", err)
		}
		outboxEvents = append(outboxEvents, outboxEvent)
	}

	if len(outboxEvents) > 0 {
		if err := r.outboxRepo.SaveAll(sessCtx, outboxEvents); err != nil {
			return fmt.Errorf("failed to save outbox events: %w", err)
		}
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.PickingSession, error) {
	filter := bson.M{"sessionId": sessionID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var s domain.PickingSession
	err := r.collection.FindOne(ctx, filter).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &s, err
}

func (r *SessionRepository) FindActiveByOwner(ctx context.Context, ownerID string, processName domain.ProcessName) (*domain.PickingSession, error) {
	filter := bson.M{
		"ownerId":     ownerID,
		"processName": processName,
		"status":      domain.SessionStatusActive,
	}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	var s domain.PickingSession
	err := r.collection.FindOne(ctx, filter).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &s, err
}

func (r *SessionRepository) FindPaged(ctx context.Context, sessionFilter domain.SessionFilter, limit, offset int64) ([]*domain.PickingSession, int64, error) {
	filter := bson.M{}
	if sessionFilter.Status != "" {
		filter["status"] = sessionFilter.Status
	}
	if sessionFilter.OwnerID != "" {
		filter["ownerId"] = sessionFilter.OwnerID
	}
	if sessionFilter.RoundID != "" {
		filter["roundId"] = sessionFilter.RoundID
	}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	opts := options.Find().
		SetSort(mongoutil.SortDescending("createdAt")).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*domain.PickingSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	filter := bson.M{"sessionId": sessionID}
	filter = r.tenantHelper.WithTenantFilterOptional(ctx, filter)

	_, err := r.collection.DeleteOne(ctx, filter)
	return err
}

// GetOutboxRepository returns the outbox repository for this service
func (r *SessionRepository) GetOutboxRepository() outbox.Repository {
	return r.outboxRepo
}
