package events

import (
	"context"

	"github.com/wms-platform/rf-picking-service/internal/domain"
	"github.com/wms-platform/rf-picking-service/pkg/cloudevents"
	"github.com/wms-platform/rf-picking-service/pkg/kafka"
	"github.com/wms-platform/rf-picking-service/pkg/logging"
)

// EventProducer is the publishing surface this package needs from a
// Kafka producer. Both the plain producer and its circuit breaker
// wrapper satisfy it.
type EventProducer interface {
	PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error
}

// KafkaEventPublisher publishes domain events directly to Kafka. Events
// that must survive a crash go through the outbox instead; this publisher
// carries the best-effort notifications, compensation reports in
// particular, that have no transactional write to ride with.
type KafkaEventPublisher struct {
	producer     EventProducer
	eventFactory *cloudevents.EventFactory
	logger       *logging.Logger
}

func NewKafkaEventPublisher(producer EventProducer, eventFactory *cloudevents.EventFactory, logger *logging.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer:     producer,
		eventFactory: eventFactory,
		logger:       logger,
	}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	cloudEvent, topic := p.toCloudEvent(ctx, event)
	if cloudEvent == nil {
		return nil
	}

	if err := p.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		p.logger.WithError(err).Error("Failed to publish event",
			"eventType", event.EventType(),
			"topic", topic,
		)
		return err
	}
	return nil
}

func (p *KafkaEventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (p *KafkaEventPublisher) toCloudEvent(ctx context.Context, event domain.DomainEvent) (*cloudevents.WMSCloudEvent, string) {
	switch e := event.(type) {
	case *domain.PackingCompensatedEvent:
		return p.eventFactory.CreateEventWithTransaction(ctx, e.EventType(), "round/"+e.RoundID, e, e.TransactionID), kafka.Topics.RFPickingEvents
	case *domain.RoundPackingValidatedEvent:
		return p.eventFactory.CreateEventWithTransaction(ctx, e.EventType(), "round/"+e.RoundID, e, e.TransactionID), kafka.Topics.RFPickingEvents
	case *domain.MovementCreatedEvent:
		return p.eventFactory.CreateEventWithTransaction(ctx, e.EventType(), "movement/"+e.MovementID, e, e.TransactionID), kafka.Topics.MovementEvents
	case *domain.HandlingUnitCreatedEvent:
		return p.eventFactory.CreateEvent(ctx, e.EventType(), "handling-unit/"+e.UnitID, e), kafka.Topics.RFPickingEvents
	default:
		p.logger.Warn("No topic mapping for event type", "eventType", event.EventType())
		return nil, ""
	}
}
