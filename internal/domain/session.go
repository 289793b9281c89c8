package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors
var (
	ErrUnknownStep          = errors.New("unknown step code")
	ErrStepNotActive        = errors.New("step is not the active step")
	ErrSessionCompleted     = errors.New("session is already completed")
	ErrSessionNotTerminal   = errors.New("session has not reached the terminal step")
	ErrNoCandidates         = errors.New("no candidate addresses available")
	ErrRoundAlreadyAttached = errors.New("round is already attached to session")
	ErrRoundNotAttached     = errors.New("no round attached to session")
)

// SessionSchemaVersion is bumped whenever the persisted session shape
// changes incompatibly.
const SessionSchemaVersion = 1

// ProcessName identifies the guided workflow type.
type ProcessName string

const (
	ProcessPick        ProcessName = "pick"
	ProcessPickAndPack ProcessName = "pick-and-pack"
)

// SessionStatus represents the lifecycle state of a picking session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// StepData holds the validated output of one submitted step. Only the
// fields relevant to the submitted step are populated.
type StepData struct {
	EquipmentID          string `bson:"equipmentId,omitempty" json:"equipmentId,omitempty"`
	RoundName            string `bson:"roundName,omitempty" json:"roundName,omitempty"`
	ParentHandlingUnitID string `bson:"parentHandlingUnitId,omitempty" json:"parentHandlingUnitId,omitempty"`
	LocationID           string `bson:"locationId,omitempty" json:"locationId,omitempty"`
	ArticleCode          string `bson:"articleCode,omitempty" json:"articleCode,omitempty"`
	SerialNumber         string `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
	Quantity             int    `bson:"quantity,omitempty" json:"quantity,omitempty"`
	DestinationUnitID    string `bson:"destinationUnitId,omitempty" json:"destinationUnitId,omitempty"`
}

// StepRecord stores the outcome of one step. Data stays nil until the
// step's form is submitted, which is what marks the step complete.
type StepRecord struct {
	PreviousStep int       `bson:"previousStep"`
	Data         *StepData `bson:"data,omitempty"`
}

// PickingSession is the aggregate root for one guided picking operation.
// It replaces the per-tab state blob of RF terminals with a server-side
// aggregate keyed by session id: step records, the flag snapshot resolved
// at start, and the advised-address candidates all live here.
type PickingSession struct {
	ID               primitive.ObjectID    `bson:"_id,omitempty"`
	SessionID        string                `bson:"sessionId"`
	OwnerID          string                `bson:"ownerId"`
	ProcessName      ProcessName           `bson:"processName"`
	SchemaVersion    int                   `bson:"schemaVersion"`
	Status           SessionStatus         `bson:"status"`
	CurrentStep      int                   `bson:"currentStep"`
	Steps            map[int]StepRecord    `bson:"steps"`
	Flags            PreparationFlags      `bson:"flags"`
	RoundID          string                `bson:"roundId,omitempty"`
	RoundName        string                `bson:"roundName,omitempty"`
	HasOutboundHU    bool                  `bson:"hasOutboundHu"`
	SerializedPick   bool                  `bson:"serializedPick"`
	AdvisedAddresses []RoundAdvisedAddress `bson:"advisedAddresses,omitempty"`
	CandidateIndex   int                   `bson:"candidateIndex"`
	Version          int64                 `bson:"version"`
	CreatedAt        time.Time             `bson:"createdAt"`
	UpdatedAt        time.Time             `bson:"updatedAt"`
	CompletedAt      *time.Time            `bson:"completedAt,omitempty"`
	DomainEvents     []DomainEvent         `bson:"-"`
}

// NewPickingSession creates a session with the flag snapshot resolved by
// the caller. The flag snapshot is fixed for the session's lifetime.
func NewPickingSession(sessionID, ownerID string, processName ProcessName, flags PreparationFlags) (*PickingSession, error) {
	if processName != ProcessPick && processName != ProcessPickAndPack {
		return nil, errors.New("invalid process name")
	}

	now := time.Now()
	session := &PickingSession{
		SessionID:     sessionID,
		OwnerID:       ownerID,
		ProcessName:   processName,
		SchemaVersion: SessionSchemaVersion,
		Status:        SessionStatusActive,
		Steps:         make(map[int]StepRecord),
		Flags:         flags,
		CreatedAt:     now,
		UpdatedAt:     now,
		DomainEvents:  make([]DomainEvent, 0),
	}
	session.CurrentStep = session.Decide().Step

	session.AddDomainEvent(&SessionStartedEvent{
		SessionID:   sessionID,
		OwnerID:     ownerID,
		ProcessName: string(processName),
		FirstStep:   session.CurrentStep,
		StartedAt:   now,
	})

	return session, nil
}

// AttachRound binds the scanned round and its advised-address snapshot to
// the session. The snapshot is immutable afterwards.
func (s *PickingSession) AttachRound(round *Round, addresses []RoundAdvisedAddress, hasOutboundHU, serialized bool) error {
	if s.Status == SessionStatusCompleted {
		return ErrSessionCompleted
	}
	if s.RoundID != "" {
		return ErrRoundAlreadyAttached
	}

	s.RoundID = round.RoundID
	s.RoundName = round.Name
	s.HasOutboundHU = hasOutboundHU
	s.SerializedPick = serialized
	s.AdvisedAddresses = addresses
	s.CandidateIndex = 0
	s.UpdatedAt = time.Now()

	return nil
}

// SubmitStep records the output of the currently active step. Submitting
// any other step is rejected so completed steps are never re-entered.
func (s *PickingSession) SubmitStep(code int, data *StepData) error {
	if s.Status == SessionStatusCompleted {
		return ErrSessionCompleted
	}
	if _, ok := stepIndex[code]; !ok {
		return ErrUnknownStep
	}

	decision := s.Decide()
	if decision.Step != code {
		return ErrStepNotActive
	}

	now := time.Now()
	s.Steps[code] = StepRecord{
		PreviousStep: s.CurrentStep,
		Data:         data,
	}

	next := s.Decide()
	s.CurrentStep = next.Step
	s.UpdatedAt = now

	s.AddDomainEvent(&StepCompletedEvent{
		SessionID:   s.SessionID,
		StepCode:    code,
		StepName:    StepName(code),
		NextStep:    next.Step,
		CompletedAt: now,
	})

	return nil
}

// ActiveCandidate returns the advised address the session currently
// targets, or nil when no round is attached.
func (s *PickingSession) ActiveCandidate() *RoundAdvisedAddress {
	if len(s.AdvisedAddresses) == 0 {
		return nil
	}
	return &s.AdvisedAddresses[s.CandidateIndex]
}

// NextCandidate advances to the next advised address without leaving the
// current step. This is a same-step mutation, not a step transition.
func (s *PickingSession) NextCandidate() error {
	if s.Status == SessionStatusCompleted {
		return ErrSessionCompleted
	}
	if len(s.AdvisedAddresses) == 0 {
		return ErrNoCandidates
	}

	s.CandidateIndex = (s.CandidateIndex + 1) % len(s.AdvisedAddresses)
	s.UpdatedAt = time.Now()

	return nil
}

// Reset clears every step record and returns the session to the first
// step the flag snapshot allows. The round binding is cleared too.
func (s *PickingSession) Reset() error {
	if s.Status == SessionStatusCompleted {
		return ErrSessionCompleted
	}

	now := time.Now()
	s.Steps = make(map[int]StepRecord)
	s.RoundID = ""
	s.RoundName = ""
	s.HasOutboundHU = false
	s.SerializedPick = false
	s.AdvisedAddresses = nil
	s.CandidateIndex = 0
	s.CurrentStep = s.Decide().Step
	s.UpdatedAt = now

	s.AddDomainEvent(&SessionResetEvent{
		SessionID: s.SessionID,
		FirstStep: s.CurrentStep,
		ResetAt:   now,
	})

	return nil
}

// Complete marks the session finished after the terminal step committed.
func (s *PickingSession) Complete() error {
	if s.Status == SessionStatusCompleted {
		return ErrSessionCompleted
	}
	if !s.Decide().Terminal {
		return ErrSessionNotTerminal
	}

	now := time.Now()
	s.Status = SessionStatusCompleted
	s.CompletedAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(&SessionCompletedEvent{
		SessionID:   s.SessionID,
		ProcessName: string(s.ProcessName),
		RoundID:     s.RoundID,
		CompletedAt: now,
	})

	return nil
}

// StepDataFor returns the submitted data for a step, or nil when the step
// has not been submitted.
func (s *PickingSession) StepDataFor(code int) *StepData {
	record, ok := s.Steps[code]
	if !ok {
		return nil
	}
	return record.Data
}

// AddDomainEvent adds a domain event
func (s *PickingSession) AddDomainEvent(event DomainEvent) {
	s.DomainEvents = append(s.DomainEvents, event)
}

// ClearDomainEvents clears all domain events
func (s *PickingSession) ClearDomainEvents() {
	s.DomainEvents = make([]DomainEvent, 0)
}

// GetDomainEvents returns all domain events
func (s *PickingSession) GetDomainEvents() []DomainEvent {
	return s.DomainEvents
}
