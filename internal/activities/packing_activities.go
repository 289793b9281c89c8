package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"github.com/wms-platform/rf-picking-service/internal/application"
)

// PackingActivities contains activities for the round packing workflow
type PackingActivities struct {
	packing  *application.PackingApplicationService
	sessions *application.SessionApplicationService
}

// NewPackingActivities creates a new PackingActivities instance
func NewPackingActivities(packing *application.PackingApplicationService, sessions *application.SessionApplicationService) *PackingActivities {
	return &PackingActivities{
		packing:  packing,
		sessions: sessions,
	}
}

// ValidateRoundPacking runs one packing transaction. The service generates
// a fresh transaction id per call and compensates its own writes on
// failure, so this activity must not be retried.
func (a *PackingActivities) ValidateRoundPacking(ctx context.Context, cmd application.ValidateRoundPackingCommand) (*application.RoundPackingResultDTO, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Validating round packing", "roundId", cmd.RoundID, "articleId", cmd.ArticleID, "quantity", cmd.MovingQuantity)

	result, err := a.packing.ValidateRoundPacking(ctx, cmd)
	if err != nil {
		logger.Error("Round packing validation failed", "roundId", cmd.RoundID, "error", err)
		return nil, err
	}

	logger.Info("Round packing validated",
		"roundId", cmd.RoundID,
		"transactionId", result.LastTransactionID,
	)
	return result, nil
}

// CompleteSession marks the picking session finished after the packing
// transaction committed
func (a *PackingActivities) CompleteSession(ctx context.Context, sessionID string) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Completing session", "sessionId", sessionID)

	return a.sessions.CompleteSession(ctx, application.CompleteSessionCommand{SessionID: sessionID})
}
