package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wms-platform/rf-picking-service/pkg/tenant"
)

// EventFactory creates CloudEvents for RF picking domain events
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// CreateEvent creates a new WMSCloudEvent with the given parameters
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *WMSCloudEvent {
	event := &WMSCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
		Extensions:      make(map[string]interface{}),
	}
	event.SetTenantContext(tenant.FromContextOptional(ctx))
	return event
}

// CreateEventWithTransaction creates an event tagged with a packing transaction ID
func (f *EventFactory) CreateEventWithTransaction(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
	transactionID string,
) *WMSCloudEvent {
	event := f.CreateEvent(ctx, eventType, subject, data)
	event.TransactionID = transactionID
	return event
}

// CreateSessionStartedEvent creates a SessionStarted event
func (f *EventFactory) CreateSessionStartedEvent(
	ctx context.Context,
	sessionID string,
	owner string,
	process string,
) *WMSCloudEvent {
	data := SessionStartedData{
		SessionID: sessionID,
		Owner:     owner,
		Process:   process,
	}
	return f.CreateEvent(ctx, SessionStarted, "session/"+sessionID, data)
}

// CreateStepCompletedEvent creates a StepCompleted event
func (f *EventFactory) CreateStepCompletedEvent(
	ctx context.Context,
	sessionID string,
	stepCode int,
	stepName string,
	nextStep int,
) *WMSCloudEvent {
	data := StepCompletedData{
		SessionID: sessionID,
		StepCode:  stepCode,
		StepName:  stepName,
		NextStep:  nextStep,
	}
	return f.CreateEvent(ctx, StepCompleted, "session/"+sessionID, data)
}

// CreateSessionCompletedEvent creates a SessionCompleted event
func (f *EventFactory) CreateSessionCompletedEvent(
	ctx context.Context,
	sessionID string,
	owner string,
	process string,
) *WMSCloudEvent {
	data := SessionCompletedData{
		SessionID: sessionID,
		Owner:     owner,
		Process:   process,
	}
	return f.CreateEvent(ctx, SessionCompleted, "session/"+sessionID, data)
}

// CreateRoundPackingValidatedEvent creates a RoundPackingValidated event
func (f *EventFactory) CreateRoundPackingValidatedEvent(
	ctx context.Context,
	transactionID string,
	roundID string,
	articleID string,
	quantity int,
	finalHandlingUnit string,
	sourceHandlingUnit string,
) *WMSCloudEvent {
	data := RoundPackingValidatedData{
		TransactionID:      transactionID,
		RoundID:            roundID,
		ArticleID:          articleID,
		Quantity:           quantity,
		FinalHandlingUnit:  finalHandlingUnit,
		SourceHandlingUnit: sourceHandlingUnit,
	}
	return f.CreateEventWithTransaction(ctx, RoundPackingValidated, "round/"+roundID, data, transactionID)
}

// CreateMovementCreatedEvent creates a MovementCreated event
func (f *EventFactory) CreateMovementCreatedEvent(
	ctx context.Context,
	movementID string,
	transactionID string,
	articleID string,
	quantity int,
	originLocation string,
	destinationLocation string,
	movementType string,
	movementModel string,
) *WMSCloudEvent {
	data := MovementCreatedData{
		MovementID:          movementID,
		TransactionID:       transactionID,
		ArticleID:           articleID,
		Quantity:            quantity,
		OriginLocation:      originLocation,
		DestinationLocation: destinationLocation,
		MovementType:        movementType,
		MovementModel:       movementModel,
	}
	return f.CreateEventWithTransaction(ctx, MovementCreated, "movement/"+movementID, data, transactionID)
}

// CreatePackingCompensatedEvent creates a PackingCompensated event
func (f *EventFactory) CreatePackingCompensatedEvent(
	ctx context.Context,
	transactionID string,
	roundID string,
	stepsUndone int,
	reason string,
) *WMSCloudEvent {
	data := PackingCompensatedData{
		TransactionID: transactionID,
		RoundID:       roundID,
		StepsUndone:   stepsUndone,
		Reason:        reason,
	}
	return f.CreateEventWithTransaction(ctx, PackingCompensated, "round/"+roundID, data, transactionID)
}

// CreateHandlingUnitCreatedEvent creates a HandlingUnitCreated event
func (f *EventFactory) CreateHandlingUnitCreatedEvent(
	ctx context.Context,
	handlingUnitID string,
	locationID string,
	modelType string,
	category string,
	transactionID string,
) *WMSCloudEvent {
	data := HandlingUnitCreatedData{
		HandlingUnitID: handlingUnitID,
		LocationID:     locationID,
		ModelType:      modelType,
		Category:       category,
		TransactionID:  transactionID,
	}
	return f.CreateEventWithTransaction(ctx, HandlingUnitCreated, "handling-unit/"+handlingUnitID, data, transactionID)
}
