package application

import "time"

// SessionDTO represents a picking session in responses
type SessionDTO struct {
	SessionID      string             `json:"sessionId"`
	OwnerID        string             `json:"ownerId"`
	ProcessName    string             `json:"processName"`
	SchemaVersion  int                `json:"schemaVersion"`
	Status         string             `json:"status"`
	CurrentStep    int                `json:"currentStep"`
	Decision       DecisionDTO        `json:"decision"`
	Header         []SummaryFieldDTO  `json:"header"`
	Steps          map[int]StepDTO    `json:"steps"`
	Flags          FlagsDTO           `json:"flags"`
	RoundID        string             `json:"roundId,omitempty"`
	RoundName      string             `json:"roundName,omitempty"`
	Candidate      *AdvisedAddressDTO `json:"candidate,omitempty"`
	CandidateIndex int                `json:"candidateIndex"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty"`
}

// DecisionDTO is the engine's verdict for the client
type DecisionDTO struct {
	Step        int    `json:"step"`
	Name        string `json:"name"`
	AutoLoading bool   `json:"autoLoading"`
	Terminal    bool   `json:"terminal"`
}

// SummaryFieldDTO is one ordered header field
type SummaryFieldDTO struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StepDTO represents one submitted step record
type StepDTO struct {
	PreviousStep int          `json:"previousStep"`
	Data         *StepDataDTO `json:"data,omitempty"`
}

// StepDataDTO mirrors the step data union
type StepDataDTO struct {
	EquipmentID          string `json:"equipmentId,omitempty"`
	RoundName            string `json:"roundName,omitempty"`
	ParentHandlingUnitID string `json:"parentHandlingUnitId,omitempty"`
	LocationID           string `json:"locationId,omitempty"`
	ArticleCode          string `json:"articleCode,omitempty"`
	SerialNumber         string `json:"serialNumber,omitempty"`
	Quantity             int    `json:"quantity,omitempty"`
	DestinationUnitID    string `json:"destinationUnitId,omitempty"`
}

// FlagsDTO exposes the resolved preparation flag snapshot
type FlagsDTO struct {
	ManuallyGenerateParent    bool `json:"manuallyGenerateParent"`
	ForceArticleScan          bool `json:"forceArticleScan"`
	EquipmentScanAtPrep       bool `json:"equipmentScanAtPrep"`
	NoAskBeforeLocationChange bool `json:"noAskBeforeLocationChange"`
	PickDefaultQuantity       bool `json:"pickDefaultQuantity"`
}

// AdvisedAddressDTO is the currently targeted pick recommendation
type AdvisedAddressDTO struct {
	LocationID       string `json:"locationId"`
	ArticleID        string `json:"articleId"`
	ArticleCode      string `json:"articleCode"`
	ContentID        string `json:"contentId"`
	AdvisedQuantity  int    `json:"advisedQuantity"`
	ExpectedQuantity int    `json:"expectedQuantity"`
}

// HandlingUnitDTO represents a handling unit in responses
type HandlingUnitDTO struct {
	UnitID     string    `json:"unitId"`
	SSCC       string    `json:"sscc,omitempty"`
	ModelType  string    `json:"modelType"`
	Status     string    `json:"status"`
	Category   string    `json:"category"`
	LocationID string    `json:"locationId"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// HandlingUnitOutboundDTO represents an outbound binding in responses
type HandlingUnitOutboundDTO struct {
	OutboundID     string    `json:"outboundId"`
	HandlingUnitID string    `json:"handlingUnitId"`
	DeliveryID     string    `json:"deliveryId"`
	RoundID        string    `json:"roundId"`
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// HandlingUnitContentDTO represents a content row in responses
type HandlingUnitContentDTO struct {
	ContentID      string `json:"contentId"`
	HandlingUnitID string `json:"handlingUnitId"`
	ArticleID      string `json:"articleId"`
	Quantity       int    `json:"quantity"`
	StockStatus    string `json:"stockStatus"`
}

// RoundPackingResultDTO is the terminal-step commit response payload.
type RoundPackingResultDTO struct {
	UpdatedRoundHU            *HandlingUnitDTO         `json:"updatedRoundHU"`
	OriginHandlingUnitContent *HandlingUnitContentDTO  `json:"originHandlingUnitContent"`
	FinalHandlingUnit         *HandlingUnitDTO         `json:"finalHandlingUnit"`
	FinalHandlingUnitOutbound *HandlingUnitOutboundDTO `json:"finalHandlingUnitOutbound"`
	LastTransactionID         string                   `json:"lastTransactionId"`
}
