package domain

import "context"

// SessionRepository defines the interface for picking session persistence.
// Save enforces the aggregate's optimistic version.
type SessionRepository interface {
	Save(ctx context.Context, session *PickingSession) error
	FindByID(ctx context.Context, sessionID string) (*PickingSession, error)
	FindActiveByOwner(ctx context.Context, ownerID string, processName ProcessName) (*PickingSession, error)
	FindPaged(ctx context.Context, filter SessionFilter, limit, offset int64) ([]*PickingSession, int64, error)
	Delete(ctx context.Context, sessionID string) error
}

// SessionFilter narrows paged session queries.
type SessionFilter struct {
	Status  SessionStatus
	OwnerID string
	RoundID string
}

// HandlingUnitRepository persists handling units and their content graph.
// The *Quantity mutators apply version-checked increments.
type HandlingUnitRepository interface {
	SaveUnit(ctx context.Context, unit *HandlingUnit) error
	FindUnitByID(ctx context.Context, unitID string) (*HandlingUnit, error)
	DeleteUnit(ctx context.Context, unitID string) error

	SaveOutbound(ctx context.Context, outbound *HandlingUnitOutbound) error
	FindOutboundByID(ctx context.Context, outboundID string) (*HandlingUnitOutbound, error)
	FindInProgressOutboundByRound(ctx context.Context, roundID string) (*HandlingUnitOutbound, error)
	DeleteOutbound(ctx context.Context, outboundID string) error

	SaveContent(ctx context.Context, content *HandlingUnitContent) error
	FindContentByID(ctx context.Context, contentID string) (*HandlingUnitContent, error)
	FindContentByUnitAndArticle(ctx context.Context, unitID, articleID string) (*HandlingUnitContent, error)
	AddContentQuantity(ctx context.Context, contentID string, delta int, expectedVersion int64) error
	DeleteContent(ctx context.Context, contentID string) error

	SaveContentOutbound(ctx context.Context, co *HandlingUnitContentOutbound) error
	FindContentOutbound(ctx context.Context, contentID, deliveryLineID string) (*HandlingUnitContentOutbound, error)
	CountContentOutboundsByOutbound(ctx context.Context, outboundID string) (int, error)
	AddContentOutboundQuantity(ctx context.Context, contentOutboundID string, delta int, expectedVersion int64) error
	DeleteContentOutbound(ctx context.Context, contentOutboundID string) error
}

// RoundRepository reads rounds and mutates round-line progress counters.
type RoundRepository interface {
	FindByID(ctx context.Context, roundID string) (*Round, error)
	FindByName(ctx context.Context, name string) (*Round, error)
	FindAdvisedAddresses(ctx context.Context, roundID string) ([]RoundAdvisedAddress, error)
	FindLineDetails(ctx context.Context, roundID, articleID string) ([]RoundLineDetail, error)
	AddPackedQuantity(ctx context.Context, lineID string, delta int, expectedVersion int64) error
}

// MovementRepository persists stock movements together with their outbox
// events.
type MovementRepository interface {
	Save(ctx context.Context, movement *Movement, events []DomainEvent) error
	Delete(ctx context.Context, movementID string) error
}

// ParameterRepository resolves scoped configuration parameters.
type ParameterRepository interface {
	FindByScope(ctx context.Context, scope string) ([]Parameter, error)
}

// LocationRepository reads warehouse locations.
type LocationRepository interface {
	FindByID(ctx context.Context, locationID string) (*WarehouseLocation, error)
	FindDefaultShipping(ctx context.Context) (*WarehouseLocation, error)
}

// FeatureRepository binds tracked content features.
type FeatureRepository interface {
	FindByContentAndType(ctx context.Context, contentID, featureType string) (*ContentFeature, error)
	Rebind(ctx context.Context, featureID, contentID string) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishAll(ctx context.Context, events []DomainEvent) error
}
