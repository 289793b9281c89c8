package cloudevents

import (
	"time"
)

// EventType constants for RF picking domain events
const (
	// Session events
	SessionStarted   = "wms.rfpicking.session-started"
	StepCompleted    = "wms.rfpicking.step-completed"
	SessionReset     = "wms.rfpicking.session-reset"
	SessionCompleted = "wms.rfpicking.session-completed"

	// Packing events
	RoundPackingValidated = "wms.rfpicking.round-packing-validated"
	MovementCreated       = "wms.rfpicking.movement-created"
	PackingCompensated    = "wms.rfpicking.packing-compensated"

	// Handling unit events
	HandlingUnitCreated = "wms.rfpicking.handling-unit-created"
)

// Source constants for event sources
const (
	SourceRFPicking = "/wms/rf-picking-service"
)

// WMSCloudEvent represents a CloudEvents v1.0 compliant event for WMS
type WMSCloudEvent struct {
	SpecVersion     string                 `json:"specversion"`
	Type            string                 `json:"type"`
	Source          string                 `json:"source"`
	Subject         string                 `json:"subject,omitempty"`
	ID              string                 `json:"id"`
	Time            time.Time              `json:"time"`
	DataContentType string                 `json:"datacontenttype"`
	Data            interface{}            `json:"data"`
	Extensions      map[string]interface{} `json:"-"`

	// WMS-specific extensions
	CorrelationID string `json:"wmscorrelationid,omitempty"`
	TransactionID string `json:"wmstransactionid,omitempty"`
	WorkflowID    string `json:"wmsworkflowid,omitempty"`
}

// SessionStartedData represents the data payload for SessionStarted event
type SessionStartedData struct {
	SessionID string `json:"sessionId"`
	Owner     string `json:"owner"`
	Process   string `json:"process"`
}

// StepCompletedData represents the data payload for StepCompleted event
type StepCompletedData struct {
	SessionID string `json:"sessionId"`
	StepCode  int    `json:"stepCode"`
	StepName  string `json:"stepName"`
	NextStep  int    `json:"nextStep"`
}

// SessionCompletedData represents the data payload for SessionCompleted event
type SessionCompletedData struct {
	SessionID string `json:"sessionId"`
	Owner     string `json:"owner"`
	Process   string `json:"process"`
}

// RoundPackingValidatedData represents the data payload for RoundPackingValidated event
type RoundPackingValidatedData struct {
	TransactionID      string `json:"transactionId"`
	RoundID            string `json:"roundId"`
	ArticleID          string `json:"articleId"`
	Quantity           int    `json:"quantity"`
	FinalHandlingUnit  string `json:"finalHandlingUnit"`
	SourceHandlingUnit string `json:"sourceHandlingUnit"`
}

// MovementCreatedData represents the data payload for MovementCreated event
type MovementCreatedData struct {
	MovementID          string `json:"movementId"`
	TransactionID       string `json:"transactionId"`
	ArticleID           string `json:"articleId"`
	Quantity            int    `json:"quantity"`
	OriginLocation      string `json:"originLocation"`
	DestinationLocation string `json:"destinationLocation"`
	MovementType        string `json:"movementType"`
	MovementModel       string `json:"movementModel"`
}

// PackingCompensatedData represents the data payload for PackingCompensated event
type PackingCompensatedData struct {
	TransactionID string `json:"transactionId"`
	RoundID       string `json:"roundId"`
	StepsUndone   int    `json:"stepsUndone"`
	Reason        string `json:"reason"`
}

// HandlingUnitCreatedData represents the data payload for HandlingUnitCreated event
type HandlingUnitCreatedData struct {
	HandlingUnitID string `json:"handlingUnitId"`
	LocationID     string `json:"locationId"`
	ModelType      string `json:"modelType"`
	Category       string `json:"category"`
	TransactionID  string `json:"transactionId"`
}
