package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wms-platform/rf-picking-service/internal/domain"
	"github.com/wms-platform/rf-picking-service/pkg/errors"
	"github.com/wms-platform/rf-picking-service/pkg/logging"
	"github.com/wms-platform/rf-picking-service/pkg/metrics"
)

// SessionApplicationService handles guided-workflow session use cases
type SessionApplicationService struct {
	sessions domain.SessionRepository
	rounds   domain.RoundRepository
	units    domain.HandlingUnitRepository
	params   domain.ParameterRepository
	features domain.FeatureRepository
	logger   *logging.Logger
	metrics  *metrics.Metrics
}

// NewSessionApplicationService creates a new SessionApplicationService
func NewSessionApplicationService(
	sessions domain.SessionRepository,
	rounds domain.RoundRepository,
	units domain.HandlingUnitRepository,
	params domain.ParameterRepository,
	features domain.FeatureRepository,
	logger *logging.Logger,
	m *metrics.Metrics,
) *SessionApplicationService {
	return &SessionApplicationService{
		sessions: sessions,
		rounds:   rounds,
		units:    units,
		params:   params,
		features: features,
		logger:   logger,
		metrics:  m,
	}
}

// StartSession resolves the preparation flag snapshot and creates a new
// session for the owner. An existing active session for the same owner and
// process is returned instead of creating a duplicate.
func (s *SessionApplicationService) StartSession(ctx context.Context, cmd StartSessionCommand) (*SessionDTO, error) {
	processName := domain.ProcessName(cmd.ProcessName)

	existing, err := s.sessions.FindActiveByOwner(ctx, cmd.OwnerID, processName)
	if err != nil {
		s.logger.WithError(err).Error("Failed to look up active session", "ownerId", cmd.OwnerID)
		return nil, fmt.Errorf("failed to look up active session: %w", err)
	}
	if existing != nil {
		return ToSessionDTO(existing), nil
	}

	// The flag snapshot is the one upstream fetch of a session's life; it
	// happens here and never again.
	params, err := s.params.FindByScope(ctx, domain.ParameterScopeOutbound)
	if err != nil {
		s.logger.WithError(err).Error("Failed to resolve preparation flags")
		return nil, fmt.Errorf("failed to resolve preparation flags: %w", err)
	}
	flags := domain.ParseFlags(params)

	session, err := domain.NewPickingSession(uuid.NewString(), cmd.OwnerID, processName, flags)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.WithError(err).Error("Failed to save session", "sessionId", session.SessionID)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.metrics.RecordSessionStarted(cmd.ProcessName)
	s.logger.Info("Started picking session",
		"sessionId", session.SessionID,
		"ownerId", cmd.OwnerID,
		"processName", cmd.ProcessName,
	)

	return ToSessionDTO(session), nil
}

// GetSession returns the session with its current decision and header.
func (s *SessionApplicationService) GetSession(ctx context.Context, query GetSessionQuery) (*SessionDTO, error) {
	session, err := s.loadSession(ctx, query.SessionID)
	if err != nil {
		return nil, err
	}
	return ToSessionDTO(session), nil
}

// ListSessions returns a page of sessions matching the filter, newest
// first, with the total match count for pagination.
func (s *SessionApplicationService) ListSessions(ctx context.Context, query ListSessionsQuery) ([]*SessionDTO, int64, error) {
	filter := domain.SessionFilter{
		Status:  domain.SessionStatus(query.Status),
		OwnerID: query.OwnerID,
		RoundID: query.RoundID,
	}

	sessions, total, err := s.sessions.FindPaged(ctx, filter, query.Limit, query.Offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list sessions")
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	dtos := make([]*SessionDTO, 0, len(sessions))
	for _, session := range sessions {
		dtos = append(dtos, ToSessionDTO(session))
	}
	return dtos, total, nil
}

// SubmitStep records the active step's data. Submitting the round scan
// additionally binds the scanned round and its advised addresses to the
// session.
func (s *SessionApplicationService) SubmitStep(ctx context.Context, cmd SubmitStepCommand) (*SessionDTO, error) {
	session, err := s.loadSession(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	if cmd.StepCode == domain.StepRoundScan {
		if err := s.attachRound(ctx, session, cmd.RoundName); err != nil {
			return nil, err
		}
	}

	data := &domain.StepData{
		EquipmentID:          cmd.EquipmentID,
		RoundName:            cmd.RoundName,
		ParentHandlingUnitID: cmd.ParentUnitID,
		LocationID:           cmd.LocationID,
		ArticleCode:          cmd.ArticleCode,
		SerialNumber:         cmd.SerialNumber,
		Quantity:             cmd.Quantity,
		DestinationUnitID:    cmd.DestinationUnitID,
	}

	if err := session.SubmitStep(cmd.StepCode, data); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.WithError(err).Error("Failed to save session", "sessionId", cmd.SessionID)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.metrics.RecordStepSubmitted(domain.StepName(cmd.StepCode))
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType: "session.step-submitted",
		EntityID:  cmd.SessionID,
		Details: map[string]any{
			"stepCode": fmt.Sprintf("%d", cmd.StepCode),
			"stepName": domain.StepName(cmd.StepCode),
		},
	})

	return ToSessionDTO(session), nil
}

// NextCandidate advances the session to the next advised address.
func (s *SessionApplicationService) NextCandidate(ctx context.Context, cmd NextCandidateCommand) (*SessionDTO, error) {
	session, err := s.loadSession(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	if err := session.NextCandidate(); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.WithError(err).Error("Failed to save session", "sessionId", cmd.SessionID)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return ToSessionDTO(session), nil
}

// ResetSession clears every step record back to the first step.
func (s *SessionApplicationService) ResetSession(ctx context.Context, cmd ResetSessionCommand) (*SessionDTO, error) {
	session, err := s.loadSession(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Reset(); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.WithError(err).Error("Failed to save session", "sessionId", cmd.SessionID)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.metrics.RecordSessionReset(string(session.ProcessName))
	s.logger.Info("Reset picking session", "sessionId", cmd.SessionID)

	return ToSessionDTO(session), nil
}

// CompleteSession marks the session finished after its terminal step
// committed.
func (s *SessionApplicationService) CompleteSession(ctx context.Context, cmd CompleteSessionCommand) error {
	session, err := s.loadSession(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	if err := session.Complete(); err != nil {
		return errors.ErrValidation(err.Error())
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.WithError(err).Error("Failed to save session", "sessionId", cmd.SessionID)
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.metrics.RecordSessionCompleted(string(session.ProcessName))
	s.logger.Info("Completed picking session",
		"sessionId", cmd.SessionID,
		"roundId", session.RoundID,
	)

	return nil
}

func (s *SessionApplicationService) loadSession(ctx context.Context, sessionID string) (*domain.PickingSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get session", "sessionId", sessionID)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, errors.ErrNotFound("session")
	}
	return session, nil
}

func (s *SessionApplicationService) attachRound(ctx context.Context, session *domain.PickingSession, roundName string) error {
	if roundName == "" {
		return errors.ErrValidation("round name is required")
	}

	round, err := s.rounds.FindByName(ctx, roundName)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get round", "roundName", roundName)
		return fmt.Errorf("failed to get round: %w", err)
	}
	if round == nil {
		return errors.ErrNotFound("round")
	}

	addresses, err := s.rounds.FindAdvisedAddresses(ctx, round.RoundID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get advised addresses", "roundId", round.RoundID)
		return fmt.Errorf("failed to get advised addresses: %w", err)
	}

	outbound, err := s.units.FindInProgressOutboundByRound(ctx, round.RoundID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to check outbound handling unit", "roundId", round.RoundID)
		return fmt.Errorf("failed to check outbound handling unit: %w", err)
	}

	serialized := false
	if len(addresses) > 0 {
		feature, err := s.features.FindByContentAndType(ctx, addresses[0].ContentID, domain.FeatureTypeSerialNumber)
		if err != nil {
			s.logger.WithError(err).Error("Failed to check serial feature", "roundId", round.RoundID)
			return fmt.Errorf("failed to check serial feature: %w", err)
		}
		serialized = feature != nil
	}

	if err := session.AttachRound(round, addresses, outbound != nil, serialized); err != nil {
		return errors.ErrValidation(err.Error())
	}

	return nil
}
