package application

// StartSessionCommand represents the command to start a picking session
type StartSessionCommand struct {
	OwnerID     string
	ProcessName string
}

// GetSessionQuery represents the query to get a session by ID
type GetSessionQuery struct {
	SessionID string
}

// ListSessionsQuery represents a paged query over sessions
type ListSessionsQuery struct {
	Status  string
	OwnerID string
	RoundID string
	Limit   int64
	Offset  int64
}

// SubmitStepCommand represents the command to submit the active step's data
type SubmitStepCommand struct {
	SessionID         string
	StepCode          int
	EquipmentID       string
	RoundName         string
	ParentUnitID      string
	LocationID        string
	ArticleCode       string
	SerialNumber      string
	Quantity          int
	DestinationUnitID string
}

// NextCandidateCommand represents the command to advance to the next
// advised address without leaving the current step
type NextCandidateCommand struct {
	SessionID string
}

// ResetSessionCommand represents the command to reset a session
type ResetSessionCommand struct {
	SessionID string
}

// CompleteSessionCommand represents the command to complete a session
// after its terminal step committed
type CompleteSessionCommand struct {
	SessionID string
}

// ValidateRoundPackingCommand carries one terminal-step commit request.
type ValidateRoundPackingCommand struct {
	RoundID           string
	ArticleID         string
	ArticleCode       string
	FeatureValue      string
	MovingQuantity    int
	ResType           string
	RoundHandlingUnit string
	SourceContentID   string
	SourceLocationID  string
	ExistingFinalHUO  string
	HandlingUnitModel string
	SessionID         string
}
