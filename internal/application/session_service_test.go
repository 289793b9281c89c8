package application

import (
	"context"
	goerrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/rf-picking-service/internal/domain"
	"github.com/wms-platform/rf-picking-service/pkg/errors"
	"github.com/wms-platform/rf-picking-service/pkg/logging"
	"github.com/wms-platform/rf-picking-service/pkg/metrics"
)

type fakeSessionRepository struct {
	sessions map[string]*domain.PickingSession
	saveErr  error
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: make(map[string]*domain.PickingSession)}
}

func (r *fakeSessionRepository) Save(ctx context.Context, session *domain.PickingSession) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.sessions[session.SessionID] = session
	return nil
}

func (r *fakeSessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.PickingSession, error) {
	return r.sessions[sessionID], nil
}

func (r *fakeSessionRepository) FindActiveByOwner(ctx context.Context, ownerID string, processName domain.ProcessName) (*domain.PickingSession, error) {
	for _, s := range r.sessions {
		if s.OwnerID == ownerID && s.ProcessName == processName && s.Status == domain.SessionStatusActive {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepository) FindPaged(ctx context.Context, filter domain.SessionFilter, limit, offset int64) ([]*domain.PickingSession, int64, error) {
	var matched []*domain.PickingSession
	for _, s := range r.sessions {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.OwnerID != "" && s.OwnerID != filter.OwnerID {
			continue
		}
		if filter.RoundID != "" && s.RoundID != filter.RoundID {
			continue
		}
		matched = append(matched, s)
	}
	total := int64(len(matched))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeSessionRepository) Delete(ctx context.Context, sessionID string) error {
	delete(r.sessions, sessionID)
	return nil
}

type fakeParameterRepository struct {
	params []domain.Parameter
}

func (r *fakeParameterRepository) FindByScope(ctx context.Context, scope string) ([]domain.Parameter, error) {
	return r.params, nil
}

func outboundParams(enabled ...string) []domain.Parameter {
	params := make([]domain.Parameter, 0, len(enabled))
	for _, key := range enabled {
		params = append(params, domain.Parameter{
			Scope:     domain.ParameterScopeOutbound,
			Key:       key,
			Value:     "1",
			UpdatedAt: time.Now(),
		})
	}
	return params
}

func newSessionService(sessions *fakeSessionRepository, wh *fakeWarehouse, params *fakeParameterRepository) *SessionApplicationService {
	logger := logging.New(logging.DefaultConfig("rf-picking-service-test"))
	m := metrics.New(metrics.DefaultConfig("rf-picking-service-test"))
	return NewSessionApplicationService(sessions, wh, wh, params, wh, logger, m)
}

func TestStartSession_FlagSnapshot(t *testing.T) {
	tests := []struct {
		name         string
		enabledFlags []string
		expectedStep int
		expectedName string
	}{
		{
			name:         "no flags starts at round scan",
			enabledFlags: nil,
			expectedStep: domain.StepRoundScan,
			expectedName: "round-scan",
		},
		{
			name:         "equipment scan flag starts at equipment scan",
			enabledFlags: []string{domain.FlagEquipmentScanAtPrep},
			expectedStep: domain.StepEquipmentScan,
			expectedName: "equipment-scan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := newFakeSessionRepository()
			params := &fakeParameterRepository{params: outboundParams(tt.enabledFlags...)}
			svc := newSessionService(sessions, newFakeWarehouse(), params)

			dto, err := svc.StartSession(context.Background(), StartSessionCommand{
				OwnerID:     "operator-1",
				ProcessName: string(domain.ProcessPickAndPack),
			})

			require.NoError(t, err)
			assert.NotEmpty(t, dto.SessionID)
			assert.Equal(t, "active", dto.Status)
			assert.Equal(t, tt.expectedStep, dto.Decision.Step)
			assert.Equal(t, tt.expectedName, dto.Decision.Name)
			assert.Len(t, sessions.sessions, 1)
		})
	}
}

func TestStartSession_ReturnsExistingActiveSession(t *testing.T) {
	sessions := newFakeSessionRepository()
	params := &fakeParameterRepository{}
	svc := newSessionService(sessions, newFakeWarehouse(), params)

	first, err := svc.StartSession(context.Background(), StartSessionCommand{
		OwnerID:     "operator-1",
		ProcessName: string(domain.ProcessPickAndPack),
	})
	require.NoError(t, err)

	second, err := svc.StartSession(context.Background(), StartSessionCommand{
		OwnerID:     "operator-1",
		ProcessName: string(domain.ProcessPickAndPack),
	})
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Len(t, sessions.sessions, 1)
}

func TestStartSession_RejectsUnknownProcess(t *testing.T) {
	svc := newSessionService(newFakeSessionRepository(), newFakeWarehouse(), &fakeParameterRepository{})

	_, err := svc.StartSession(context.Background(), StartSessionCommand{
		OwnerID:     "operator-1",
		ProcessName: "inventory-count",
	})

	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestSubmitStep_RoundScanAttachesRound(t *testing.T) {
	sessions := newFakeSessionRepository()
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.advised = []domain.RoundAdvisedAddress{
		{LocationID: "LOC-A", ArticleID: "ART-1", ArticleCode: "EAN-1", ContentID: "C-SRC", AdvisedQuantity: 10, ExpectedQuantity: 10},
		{LocationID: "LOC-B", ArticleID: "ART-2", ArticleCode: "EAN-2", ContentID: "C-2", AdvisedQuantity: 4, ExpectedQuantity: 4},
	}
	svc := newSessionService(sessions, wh, &fakeParameterRepository{})

	started, err := svc.StartSession(context.Background(), StartSessionCommand{
		OwnerID:     "operator-1",
		ProcessName: string(domain.ProcessPickAndPack),
	})
	require.NoError(t, err)

	dto, err := svc.SubmitStep(context.Background(), SubmitStepCommand{
		SessionID: started.SessionID,
		StepCode:  domain.StepRoundScan,
		RoundName: "ROUND-A",
	})
	require.NoError(t, err)

	assert.Equal(t, "R-100", dto.RoundID)
	assert.Equal(t, "ROUND-A", dto.RoundName)
	require.NotNil(t, dto.Candidate)
	assert.Equal(t, "LOC-A", dto.Candidate.LocationID)
	assert.Equal(t, domain.StepLocationSelect, dto.Decision.Step)

	stored := sessions.sessions[started.SessionID]
	require.NotNil(t, stored)
	assert.False(t, stored.HasOutboundHU)
	assert.False(t, stored.SerializedPick)
}

func TestSubmitStep_SerializedRoundEnablesSerialScan(t *testing.T) {
	sessions := newFakeSessionRepository()
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.advised = []domain.RoundAdvisedAddress{
		{LocationID: "LOC-A", ArticleID: "ART-1", ContentID: "C-SRC", AdvisedQuantity: 1, ExpectedQuantity: 1},
	}
	wh.features["F-1"] = &domain.ContentFeature{
		FeatureID: "F-1",
		ContentID: "C-SRC",
		Type:      domain.FeatureTypeSerialNumber,
		Value:     "SN-0001",
	}
	svc := newSessionService(sessions, wh, &fakeParameterRepository{})

	started, err := svc.StartSession(context.Background(), StartSessionCommand{
		OwnerID:     "operator-1",
		ProcessName: string(domain.ProcessPickAndPack),
	})
	require.NoError(t, err)

	_, err = svc.SubmitStep(context.Background(), SubmitStepCommand{
		SessionID: started.SessionID,
		StepCode:  domain.StepRoundScan,
		RoundName: "ROUND-A",
	})
	require.NoError(t, err)

	dto, err := svc.SubmitStep(context.Background(), SubmitStepCommand{
		SessionID:  started.SessionID,
		StepCode:   domain.StepLocationSelect,
		LocationID: "LOC-A",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StepSerialScan, dto.Decision.Step)
}

func TestSubmitStep_UnknownRound(t *testing.T) {
	sessions := newFakeSessionRepository()
	wh := newFakeWarehouse()
	svc := newSessionService(sessions, wh, &fakeParameterRepository{})

	started, err := svc.StartSession(context.Background(), StartSessionCommand{
		OwnerID:     "operator-1",
		ProcessName: string(domain.ProcessPick),
	})
	require.NoError(t, err)

	_, err = svc.SubmitStep(context.Background(), SubmitStepCommand{
		SessionID: started.SessionID,
		StepCode:  domain.StepRoundScan,
		RoundName: "ROUND-MISSING",
	})

	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestSubmitStep_WrongStepRejected(t *testing.T) {
	sessions := newFakeSessionRepository()
	svc := newSessionService(sessions, newFakeWarehouse(), &fakeParameterRepository{})

	started, err := svc.StartSession(context.Background(), StartSessionCommand{
		OwnerID:     "operator-1",
		ProcessName: string(domain.ProcessPickAndPack),
	})
	require.NoError(t, err)

	_, err = svc.SubmitStep(context.Background(), SubmitStepCommand{
		SessionID: started.SessionID,
		StepCode:  domain.StepQuantityEntry,
		Quantity:  3,
	})

	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestGetSession_NotFound(t *testing.T) {
	svc := newSessionService(newFakeSessionRepository(), newFakeWarehouse(), &fakeParameterRepository{})

	_, err := svc.GetSession(context.Background(), GetSessionQuery{SessionID: "missing"})

	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestNextCandidate_WrapsAround(t *testing.T) {
	sessions := newFakeSessionRepository()
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.advised = []domain.RoundAdvisedAddress{
		{LocationID: "LOC-A", ArticleID: "ART-1", ContentID: "C-SRC"},
		{LocationID: "LOC-B", ArticleID: "ART-2", ContentID: "C-2"},
	}
	svc := newSessionService(sessions, wh, &fakeParameterRepository{})

	started, err := svc.StartSession(context.Background(), StartSessionCommand{
		OwnerID:     "operator-1",
		ProcessName: string(domain.ProcessPickAndPack),
	})
	require.NoError(t, err)

	_, err = svc.SubmitStep(context.Background(), SubmitStepCommand{
		SessionID: started.SessionID,
		StepCode:  domain.StepRoundScan,
		RoundName: "ROUND-A",
	})
	require.NoError(t, err)

	dto, err := svc.NextCandidate(context.Background(), NextCandidateCommand{SessionID: started.SessionID})
	require.NoError(t, err)
	assert.Equal(t, "LOC-B", dto.Candidate.LocationID)
	assert.Equal(t, domain.StepLocationSelect, dto.Decision.Step)

	dto, err = svc.NextCandidate(context.Background(), NextCandidateCommand{SessionID: started.SessionID})
	require.NoError(t, err)
	assert.Equal(t, "LOC-A", dto.Candidate.LocationID)
}

func TestResetSession_BackToFirstStep(t *testing.T) {
	sessions := newFakeSessionRepository()
	wh := newFakeWarehouse()
	seedRound(wh)
	svc := newSessionService(sessions, wh, &fakeParameterRepository{})

	started, err := svc.StartSession(context.Background(), StartSessionCommand{
		OwnerID:     "operator-1",
		ProcessName: string(domain.ProcessPickAndPack),
	})
	require.NoError(t, err)

	_, err = svc.SubmitStep(context.Background(), SubmitStepCommand{
		SessionID: started.SessionID,
		StepCode:  domain.StepRoundScan,
		RoundName: "ROUND-A",
	})
	require.NoError(t, err)

	dto, err := svc.ResetSession(context.Background(), ResetSessionCommand{SessionID: started.SessionID})
	require.NoError(t, err)

	assert.Equal(t, domain.StepRoundScan, dto.Decision.Step)
	assert.Empty(t, dto.Steps)
	assert.Empty(t, dto.RoundID)
}

func TestCompleteSession_Lifecycle(t *testing.T) {
	sessions := newFakeSessionRepository()
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.advised = []domain.RoundAdvisedAddress{
		{LocationID: "LOC-A", ArticleID: "ART-1", ContentID: "C-SRC", AdvisedQuantity: 5, ExpectedQuantity: 5},
	}
	svc := newSessionService(sessions, wh, &fakeParameterRepository{})

	started, err := svc.StartSession(context.Background(), StartSessionCommand{
		OwnerID:     "operator-1",
		ProcessName: string(domain.ProcessPickAndPack),
	})
	require.NoError(t, err)

	err = svc.CompleteSession(context.Background(), CompleteSessionCommand{SessionID: started.SessionID})
	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPStatus)

	steps := []SubmitStepCommand{
		{SessionID: started.SessionID, StepCode: domain.StepRoundScan, RoundName: "ROUND-A"},
		{SessionID: started.SessionID, StepCode: domain.StepLocationSelect, LocationID: "LOC-A"},
		{SessionID: started.SessionID, StepCode: domain.StepQuantityEntry, Quantity: 5},
		{SessionID: started.SessionID, StepCode: domain.StepDestinationScan, DestinationUnitID: "HU-DEST"},
	}
	for _, cmd := range steps {
		_, err = svc.SubmitStep(context.Background(), cmd)
		require.NoError(t, err)
	}

	dto, err := svc.GetSession(context.Background(), GetSessionQuery{SessionID: started.SessionID})
	require.NoError(t, err)
	assert.True(t, dto.Decision.Terminal)

	err = svc.CompleteSession(context.Background(), CompleteSessionCommand{SessionID: started.SessionID})
	require.NoError(t, err)

	dto, err = svc.GetSession(context.Background(), GetSessionQuery{SessionID: started.SessionID})
	require.NoError(t, err)
	assert.Equal(t, "completed", dto.Status)
	require.NotNil(t, dto.CompletedAt)
}

func TestListSessions_FiltersByStatus(t *testing.T) {
	sessions := newFakeSessionRepository()
	wh := newFakeWarehouse()
	seedRound(wh)
	svc := newSessionService(sessions, wh, &fakeParameterRepository{})

	first, err := svc.StartSession(context.Background(), StartSessionCommand{OwnerID: "user-1", ProcessName: "outbound"})
	require.NoError(t, err)
	_, err = svc.StartSession(context.Background(), StartSessionCommand{OwnerID: "user-2", ProcessName: "outbound"})
	require.NoError(t, err)

	steps := []SubmitStepCommand{
		{SessionID: first.SessionID, StepCode: domain.StepRoundScan, RoundName: "ROUND-A"},
		{SessionID: first.SessionID, StepCode: domain.StepLocationSelect, LocationID: "LOC-A"},
		{SessionID: first.SessionID, StepCode: domain.StepQuantityEntry, Quantity: 5},
		{SessionID: first.SessionID, StepCode: domain.StepDestinationScan, DestinationUnitID: "HU-DEST"},
	}
	for _, cmd := range steps {
		_, err = svc.SubmitStep(context.Background(), cmd)
		require.NoError(t, err)
	}
	require.NoError(t, svc.CompleteSession(context.Background(), CompleteSessionCommand{SessionID: first.SessionID}))

	active, total, err := svc.ListSessions(context.Background(), ListSessionsQuery{Status: "active", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, active, 1)
	assert.Equal(t, "user-2", active[0].OwnerID)

	all, total, err := svc.ListSessions(context.Background(), ListSessionsQuery{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}
