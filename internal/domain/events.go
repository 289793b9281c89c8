package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// SessionStartedEvent is published when a picking session is created
type SessionStartedEvent struct {
	SessionID   string    `json:"sessionId"`
	OwnerID     string    `json:"ownerId"`
	ProcessName string    `json:"processName"`
	FirstStep   int       `json:"firstStep"`
	StartedAt   time.Time `json:"startedAt"`
}

func (e *SessionStartedEvent) EventType() string     { return "wms.rfpicking.session-started" }
func (e *SessionStartedEvent) OccurredAt() time.Time { return e.StartedAt }

// StepCompletedEvent is published when a workflow step is submitted
type StepCompletedEvent struct {
	SessionID   string    `json:"sessionId"`
	StepCode    int       `json:"stepCode"`
	StepName    string    `json:"stepName"`
	NextStep    int       `json:"nextStep"`
	CompletedAt time.Time `json:"completedAt"`
}

func (e *StepCompletedEvent) EventType() string     { return "wms.rfpicking.step-completed" }
func (e *StepCompletedEvent) OccurredAt() time.Time { return e.CompletedAt }

// SessionResetEvent is published when a session is cleared back to its
// first step
type SessionResetEvent struct {
	SessionID string    `json:"sessionId"`
	FirstStep int       `json:"firstStep"`
	ResetAt   time.Time `json:"resetAt"`
}

func (e *SessionResetEvent) EventType() string     { return "wms.rfpicking.session-reset" }
func (e *SessionResetEvent) OccurredAt() time.Time { return e.ResetAt }

// SessionCompletedEvent is published after the terminal step committed
type SessionCompletedEvent struct {
	SessionID   string    `json:"sessionId"`
	ProcessName string    `json:"processName"`
	RoundID     string    `json:"roundId"`
	CompletedAt time.Time `json:"completedAt"`
}

func (e *SessionCompletedEvent) EventType() string     { return "wms.rfpicking.session-completed" }
func (e *SessionCompletedEvent) OccurredAt() time.Time { return e.CompletedAt }

// RoundPackingValidatedEvent is published when a packing transaction
// commits
type RoundPackingValidatedEvent struct {
	TransactionID      string    `json:"transactionId"`
	RoundID            string    `json:"roundId"`
	ArticleID          string    `json:"articleId"`
	Quantity           int       `json:"quantity"`
	FinalHandlingUnit  string    `json:"finalHandlingUnit"`
	SourceHandlingUnit string    `json:"sourceHandlingUnit"`
	ValidatedAt        time.Time `json:"validatedAt"`
}

func (e *RoundPackingValidatedEvent) EventType() string     { return "wms.rfpicking.round-packing-validated" }
func (e *RoundPackingValidatedEvent) OccurredAt() time.Time { return e.ValidatedAt }

// MovementCreatedEvent is published when a stock movement is recorded
type MovementCreatedEvent struct {
	MovementID     string    `json:"movementId"`
	TransactionID  string    `json:"transactionId"`
	ArticleID      string    `json:"articleId"`
	Quantity       int       `json:"quantity"`
	SourceLocation string    `json:"sourceLocation"`
	TargetLocation string    `json:"targetLocation"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (e *MovementCreatedEvent) EventType() string     { return "wms.movements.movement-created" }
func (e *MovementCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// HandlingUnitCreatedEvent is published when a destination handling unit
// is created during packing
type HandlingUnitCreatedEvent struct {
	UnitID    string    `json:"unitId"`
	SSCC      string    `json:"sscc"`
	RoundID   string    `json:"roundId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e *HandlingUnitCreatedEvent) EventType() string     { return "wms.rfpicking.handling-unit-created" }
func (e *HandlingUnitCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// PackingCompensatedEvent is published after a failed packing transaction
// ran its undo stack
type PackingCompensatedEvent struct {
	TransactionID string    `json:"transactionId"`
	RoundID       string    `json:"roundId"`
	StepsUndone   int       `json:"stepsUndone"`
	Reason        string    `json:"reason"`
	CompensatedAt time.Time `json:"compensatedAt"`
}

func (e *PackingCompensatedEvent) EventType() string     { return "wms.rfpicking.packing-compensated" }
func (e *PackingCompensatedEvent) OccurredAt() time.Time { return e.CompensatedAt }
