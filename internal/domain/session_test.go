package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPickingSession(t *testing.T) {
	tests := []struct {
		name        string
		processName ProcessName
		expectError bool
	}{
		{
			name:        "pick process",
			processName: ProcessPick,
			expectError: false,
		},
		{
			name:        "pick and pack process",
			processName: ProcessPickAndPack,
			expectError: false,
		},
		{
			name:        "unknown process",
			processName: "put-away",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := NewPickingSession("SES-001", "operator-1", tt.processName, PreparationFlags{})
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, SessionStatusActive, session.Status)
			assert.Equal(t, SessionSchemaVersion, session.SchemaVersion)
			assert.Equal(t, StepRoundScan, session.CurrentStep)
			require.Len(t, session.GetDomainEvents(), 1)
			assert.Equal(t, "wms.rfpicking.session-started", session.GetDomainEvents()[0].EventType())
		})
	}
}

func TestPickingSession_AttachRound(t *testing.T) {
	session := newTestSession(t, PreparationFlags{})
	round := &Round{RoundID: "R-100", Name: "ROUND-A"}

	require.NoError(t, session.AttachRound(round, nil, false, false))
	assert.Equal(t, "R-100", session.RoundID)

	err := session.AttachRound(round, nil, false, false)
	assert.ErrorIs(t, err, ErrRoundAlreadyAttached)
}

func TestPickingSession_SubmitStep(t *testing.T) {
	session := newTestSession(t, PreparationFlags{})

	err := session.SubmitStep(99, &StepData{})
	assert.ErrorIs(t, err, ErrUnknownStep)

	err = session.SubmitStep(StepQuantityEntry, &StepData{Quantity: 3})
	assert.ErrorIs(t, err, ErrStepNotActive)

	require.NoError(t, session.SubmitStep(StepRoundScan, &StepData{RoundName: "ROUND-A"}))
	assert.Equal(t, StepLocationSelect, session.CurrentStep)

	events := session.GetDomainEvents()
	last := events[len(events)-1].(*StepCompletedEvent)
	assert.Equal(t, StepRoundScan, last.StepCode)
	assert.Equal(t, StepLocationSelect, last.NextStep)
}

func TestPickingSession_NextCandidate(t *testing.T) {
	addresses := []RoundAdvisedAddress{
		{LocationID: "LOC-1", ArticleCode: "ART-1"},
		{LocationID: "LOC-1", ArticleCode: "ART-2"},
		{LocationID: "LOC-2", ArticleCode: "ART-3"},
	}

	session := newTestSession(t, PreparationFlags{})
	round := &Round{RoundID: "R-100", Name: "ROUND-A"}
	require.NoError(t, session.AttachRound(round, addresses, false, false))

	before := session.Decide()

	require.NoError(t, session.NextCandidate())
	assert.Equal(t, "ART-2", session.ActiveCandidate().ArticleCode)

	// Same-step mutation: the decided step does not change.
	assert.Equal(t, before.Step, session.Decide().Step)

	require.NoError(t, session.NextCandidate())
	require.NoError(t, session.NextCandidate())
	assert.Equal(t, "ART-1", session.ActiveCandidate().ArticleCode)
}

func TestPickingSession_NextCandidateWithoutRound(t *testing.T) {
	session := newTestSession(t, PreparationFlags{})
	err := session.NextCandidate()
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestPickingSession_Reset(t *testing.T) {
	session := newTestSession(t, PreparationFlags{EquipmentScanAtPrep: true})

	submit(t, session, StepEquipmentScan, &StepData{EquipmentID: "EQ-7"})
	round := &Round{RoundID: "R-100", Name: "ROUND-A"}
	require.NoError(t, session.AttachRound(round, nil, false, false))
	submit(t, session, StepRoundScan, &StepData{RoundName: "ROUND-A"})

	require.NoError(t, session.Reset())

	assert.Empty(t, session.Steps)
	assert.Empty(t, session.RoundID)
	assert.Empty(t, session.AdvisedAddresses)
	// Back to the flag-appropriate first step.
	assert.Equal(t, StepEquipmentScan, session.CurrentStep)
}

func TestPickingSession_Complete(t *testing.T) {
	session := newTestSession(t, PreparationFlags{})
	round := &Round{RoundID: "R-100", Name: "ROUND-A"}
	require.NoError(t, session.AttachRound(round, nil, false, false))

	err := session.Complete()
	assert.ErrorIs(t, err, ErrSessionNotTerminal)

	submit(t, session, StepRoundScan, &StepData{RoundName: "ROUND-A"})
	submit(t, session, StepLocationSelect, &StepData{LocationID: "LOC-1"})
	submit(t, session, StepQuantityEntry, &StepData{Quantity: 5})
	submit(t, session, StepDestinationScan, &StepData{DestinationUnitID: "HU-77"})

	require.NoError(t, session.Complete())
	assert.Equal(t, SessionStatusCompleted, session.Status)
	require.NotNil(t, session.CompletedAt)

	assert.ErrorIs(t, session.Complete(), ErrSessionCompleted)
	assert.ErrorIs(t, session.Reset(), ErrSessionCompleted)
	assert.ErrorIs(t, session.SubmitStep(StepAutoValidate, &StepData{}), ErrSessionCompleted)
}

func TestParseFlags(t *testing.T) {
	params := []Parameter{
		{Scope: ParameterScopeOutbound, Key: FlagManuallyGenerateParent, Value: "1"},
		{Scope: ParameterScopeOutbound, Key: FlagForceArticleScan, Value: "0"},
		{Scope: ParameterScopeOutbound, Key: FlagPickDefaultQuantity, Value: "1"},
		{Scope: "inbound", Key: FlagEquipmentScanAtPrep, Value: "1"},
		{Scope: ParameterScopeOutbound, Key: "UNKNOWN_FLAG", Value: "1"},
	}

	flags := ParseFlags(params)

	assert.True(t, flags.ManuallyGenerateParent)
	assert.False(t, flags.ForceArticleScan)
	assert.True(t, flags.PickDefaultQuantity)
	// Wrong scope is ignored.
	assert.False(t, flags.EquipmentScanAtPrep)
	assert.False(t, flags.NoAskBeforeLocationChange)
}
