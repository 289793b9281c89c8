package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/wms-platform/rf-picking-service/internal/application"
)

// RoundPackingWorkflowInput carries one packing validation request.
// Using a typed struct input to ensure determinism and type safety.
type RoundPackingWorkflowInput struct {
	RoundID           string `json:"roundId"`
	ArticleID         string `json:"articleId"`
	ArticleCode       string `json:"articleCode"`
	FeatureValue      string `json:"featureValue,omitempty"`
	MovingQuantity    int    `json:"movingQuantity"`
	ResType           string `json:"resType,omitempty"`
	RoundHandlingUnit string `json:"roundHandlingUnit"`
	SourceContentID   string `json:"sourceContentId"`
	SourceLocationID  string `json:"sourceLocationId"`
	ExistingFinalHUO  string `json:"existingFinalHuo,omitempty"`
	HandlingUnitModel string `json:"handlingUnitModel"`
	SessionID         string `json:"sessionId,omitempty"`
	// Multi-tenant context
	TenantID    string `json:"tenantId"`
	FacilityID  string `json:"facilityId"`
	WarehouseID string `json:"warehouseId"`
}

// RoundPackingWorkflowResult represents the outcome of the workflow
type RoundPackingWorkflowResult struct {
	Result  *application.RoundPackingResultDTO `json:"result,omitempty"`
	Success bool                               `json:"success"`
	Error   string                             `json:"error,omitempty"`
}

// RoundPackingWorkflow runs a packing validation and, once it committed,
// closes the guiding session. The validation activity runs exactly once:
// it generates its own transaction id and compensates its own writes, so
// a Temporal retry would start a second transaction, not resume the first.
func RoundPackingWorkflow(ctx workflow.Context, input RoundPackingWorkflowInput) (*RoundPackingWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting round packing workflow", "roundId", input.RoundID, "articleId", input.ArticleID)

	result := &RoundPackingWorkflowResult{}

	// Set tenant context for activities
	if input.TenantID != "" {
		ctx = workflow.WithValue(ctx, "tenantId", input.TenantID)
	}
	if input.FacilityID != "" {
		ctx = workflow.WithValue(ctx, "facilityId", input.FacilityID)
	}
	if input.WarehouseID != "" {
		ctx = workflow.WithValue(ctx, "warehouseId", input.WarehouseID)
	}

	validateOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	validateCtx := workflow.WithActivityOptions(ctx, validateOptions)

	cmd := application.ValidateRoundPackingCommand{
		RoundID:           input.RoundID,
		ArticleID:         input.ArticleID,
		ArticleCode:       input.ArticleCode,
		FeatureValue:      input.FeatureValue,
		MovingQuantity:    input.MovingQuantity,
		ResType:           input.ResType,
		RoundHandlingUnit: input.RoundHandlingUnit,
		SourceContentID:   input.SourceContentID,
		SourceLocationID:  input.SourceLocationID,
		ExistingFinalHUO:  input.ExistingFinalHUO,
		HandlingUnitModel: input.HandlingUnitModel,
		SessionID:         input.SessionID,
	}

	var packingResult application.RoundPackingResultDTO
	err := workflow.ExecuteActivity(validateCtx, "ValidateRoundPacking", cmd).Get(validateCtx, &packingResult)
	if err != nil {
		result.Error = fmt.Sprintf("packing validation failed: %v", err)
		return result, err
	}
	result.Result = &packingResult
	result.Success = true

	// Session completion is advisory. The stock writes committed above;
	// losing the session close must not fail the workflow.
	if input.SessionID != "" {
		completeOptions := workflow.ActivityOptions{
			StartToCloseTimeout: 30 * time.Second,
			RetryPolicy: &temporal.RetryPolicy{
				InitialInterval:    time.Second,
				BackoffCoefficient: 2.0,
				MaximumInterval:    30 * time.Second,
				MaximumAttempts:    3,
			},
		}
		completeCtx := workflow.WithActivityOptions(ctx, completeOptions)

		if err := workflow.ExecuteActivity(completeCtx, "CompleteSession", input.SessionID).Get(completeCtx, nil); err != nil {
			logger.Warn("Failed to complete session", "sessionId", input.SessionID, "error", err)
		}
	}

	logger.Info("Round packing workflow completed",
		"roundId", input.RoundID,
		"transactionId", packingResult.LastTransactionID,
	)

	return result, nil
}
