package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandlingUnitStatus represents the status of a handling unit
type HandlingUnitStatus string

const (
	HandlingUnitStatusValidated  HandlingUnitStatus = "VALIDATED"
	HandlingUnitStatusInProgress HandlingUnitStatus = "IN_PROGRESS"
	HandlingUnitStatusShipped    HandlingUnitStatus = "SHIPPED"
)

// HandlingUnitCategory distinguishes inbound stock containers from
// outbound shipping containers.
type HandlingUnitCategory string

const (
	HandlingUnitCategoryStock    HandlingUnitCategory = "STOCK"
	HandlingUnitCategoryOutbound HandlingUnitCategory = "OUTBOUND"
)

// HandlingUnitModelType identifies the physical container model.
type HandlingUnitModelType string

const (
	HandlingUnitModelPallet HandlingUnitModelType = "pallet"
	HandlingUnitModelBox    HandlingUnitModelType = "box"
	HandlingUnitModelTote   HandlingUnitModelType = "tote"
)

// StockStatus classifies the stock held by a content row.
type StockStatus string

const (
	StockStatusSale       StockStatus = "SALE"
	StockStatusQuarantine StockStatus = "QUARANTINE"
)

// HandlingUnit is a physical container in the warehouse.
type HandlingUnit struct {
	ID         primitive.ObjectID    `bson:"_id,omitempty"`
	UnitID     string                `bson:"unitId"`
	SSCC       string                `bson:"sscc,omitempty"`
	ModelType  HandlingUnitModelType `bson:"modelType"`
	Status     HandlingUnitStatus    `bson:"status"`
	Category   HandlingUnitCategory  `bson:"category"`
	LocationID string                `bson:"locationId"`
	Version    int64                 `bson:"version"`
	CreatedAt  time.Time             `bson:"createdAt"`
	UpdatedAt  time.Time             `bson:"updatedAt"`
}

// HandlingUnitOutbound binds a handling unit to an outbound delivery.
type HandlingUnitOutbound struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	OutboundID     string             `bson:"outboundId"`
	HandlingUnitID string             `bson:"handlingUnitId"`
	DeliveryID     string             `bson:"deliveryId"`
	RoundID        string             `bson:"roundId"`
	Status         HandlingUnitStatus `bson:"status"`
	Version        int64              `bson:"version"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

// HandlingUnitContent is the stock of one article inside a handling unit.
type HandlingUnitContent struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ContentID      string             `bson:"contentId"`
	HandlingUnitID string             `bson:"handlingUnitId"`
	ArticleID      string             `bson:"articleId"`
	Quantity       int                `bson:"quantity"`
	StockStatus    StockStatus        `bson:"stockStatus"`
	Version        int64              `bson:"version"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

// HandlingUnitContentOutbound allocates part of a content row to one
// outbound delivery line.
type HandlingUnitContentOutbound struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	ContentOutboundID     string             `bson:"contentOutboundId"`
	ContentID             string             `bson:"contentId"`
	OutboundID            string             `bson:"outboundId"`
	DeliveryLineID        string             `bson:"deliveryLineId"`
	PickingHandlingUnitID string             `bson:"pickingHandlingUnitId"`
	PickedQuantity        int                `bson:"pickedQuantity"`
	LineNumber            int                `bson:"lineNumber"`
	Version               int64              `bson:"version"`
	CreatedAt             time.Time          `bson:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt"`
}

// RoundLineDetail tracks picking progress for one (round, article) pairing.
// PackedQuantity is the cumulative quantity already packed against the
// processed total.
type RoundLineDetail struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	LineID            string             `bson:"lineId"`
	RoundID           string             `bson:"roundId"`
	ArticleID         string             `bson:"articleId"`
	DeliveryLineID    string             `bson:"deliveryLineId"`
	Order             int                `bson:"order"`
	ProcessedQuantity int                `bson:"processedQuantity"`
	PackedQuantity    int                `bson:"packedQuantity"`
	Version           int64              `bson:"version"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

// Remaining returns the quantity on this line still available to pack.
func (d *RoundLineDetail) Remaining() int {
	remaining := d.ProcessedQuantity - d.PackedQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Round is a picking round grouping delivery lines.
type Round struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	RoundID        string             `bson:"roundId"`
	Name           string             `bson:"name"`
	DeliveryID     string             `bson:"deliveryId"`
	HandlingUnitID string             `bson:"handlingUnitId"`
	Status         string             `bson:"status"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

// RoundAdvisedAddress is a server-supplied recommendation of what to pick
// next. Immutable once attached to a session.
type RoundAdvisedAddress struct {
	LocationID       string `bson:"locationId" json:"locationId"`
	ArticleID        string `bson:"articleId" json:"articleId"`
	ArticleCode      string `bson:"articleCode" json:"articleCode"`
	ContentID        string `bson:"contentId" json:"contentId"`
	AdvisedQuantity  int    `bson:"advisedQuantity" json:"advisedQuantity"`
	ExpectedQuantity int    `bson:"expectedQuantity" json:"expectedQuantity"`
}

// ContentFeature is a tracked attribute (serial number, batch) bound to a
// content row.
type ContentFeature struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FeatureID string             `bson:"featureId"`
	ContentID string             `bson:"contentId"`
	Type      string             `bson:"type"`
	Value     string             `bson:"value"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// FeatureTypeSerialNumber marks serialized articles whose feature record
// must follow the content to its destination.
const FeatureTypeSerialNumber = "serialNumber"

// WarehouseLocation is a physical address in the warehouse.
type WarehouseLocation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	LocationID string             `bson:"locationId"`
	Code       string             `bson:"code"`
	Zone       string             `bson:"zone"`
	IsShipping bool               `bson:"isShipping"`
	IsDefault  bool               `bson:"isDefault"`
}

// Movement record codes.
const (
	MovementStatusValidated = "VALIDATED"
	MovementTypePreparation = "PREPARATION"
	MovementModelNormal     = "NORMAL"
	MovementCodeProductPick = "PRODUCT_PICK"
	MovementPriorityNormal  = "NORMAL"
)

// Movement is one stock-ledger record of a transfer between locations.
type Movement struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	MovementID           string             `bson:"movementId"`
	TransactionID        string             `bson:"transactionId"`
	ArticleID            string             `bson:"articleId"`
	Quantity             int                `bson:"quantity"`
	SourceLocationID     string             `bson:"sourceLocationId"`
	SourceHandlingUnitID string             `bson:"sourceHandlingUnitId"`
	SourceContentID      string             `bson:"sourceContentId"`
	TargetLocationID     string             `bson:"targetLocationId"`
	TargetHandlingUnitID string             `bson:"targetHandlingUnitId"`
	TargetContentID      string             `bson:"targetContentId"`
	Status               string             `bson:"status"`
	Type                 string             `bson:"type"`
	Model                string             `bson:"model"`
	Code                 string             `bson:"code"`
	Priority             string             `bson:"priority"`
	CreatedAt            time.Time          `bson:"createdAt"`
}

// NewMovement creates a product-pick movement with the fixed preparation
// codes applied.
func NewMovement(transactionID, articleID string, quantity int, sourceLocationID, sourceHUID, sourceContentID, targetLocationID, targetHUID, targetContentID string) *Movement {
	return &Movement{
		MovementID:           generateMovementID(),
		TransactionID:        transactionID,
		ArticleID:            articleID,
		Quantity:             quantity,
		SourceLocationID:     sourceLocationID,
		SourceHandlingUnitID: sourceHUID,
		SourceContentID:      sourceContentID,
		TargetLocationID:     targetLocationID,
		TargetHandlingUnitID: targetHUID,
		TargetContentID:      targetContentID,
		Status:               MovementStatusValidated,
		Type:                 MovementTypePreparation,
		Model:                MovementModelNormal,
		Code:                 MovementCodeProductPick,
		Priority:             MovementPriorityNormal,
		CreatedAt:            time.Now(),
	}
}

func generateMovementID() string {
	return "MOV-" + time.Now().UTC().Format("20060102150405.000000000")
}
