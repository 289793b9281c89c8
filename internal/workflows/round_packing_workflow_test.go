package workflows

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/wms-platform/rf-picking-service/internal/application"
)

func packingInput() RoundPackingWorkflowInput {
	return RoundPackingWorkflowInput{
		RoundID:           "R-100",
		ArticleID:         "ART-1",
		ArticleCode:       "EAN-1",
		MovingQuantity:    5,
		RoundHandlingUnit: "HU-SRC",
		SourceContentID:   "C-SRC",
		SourceLocationID:  "LOC-A",
		HandlingUnitModel: "box",
		SessionID:         "S-1",
	}
}

func TestRoundPackingWorkflow_Success(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	env.RegisterWorkflow(RoundPackingWorkflow)

	var validateCalls int
	var completedSession string
	env.RegisterActivityWithOptions(func(ctx context.Context, cmd application.ValidateRoundPackingCommand) (*application.RoundPackingResultDTO, error) {
		validateCalls++
		assert.Equal(t, "R-100", cmd.RoundID)
		assert.Equal(t, 5, cmd.MovingQuantity)
		return &application.RoundPackingResultDTO{LastTransactionID: "tx-1"}, nil
	}, activity.RegisterOptions{Name: "ValidateRoundPacking"})
	env.RegisterActivityWithOptions(func(ctx context.Context, sessionID string) error {
		completedSession = sessionID
		return nil
	}, activity.RegisterOptions{Name: "CompleteSession"})

	env.ExecuteWorkflow(RoundPackingWorkflow, packingInput())
	require.NoError(t, env.GetWorkflowError())

	var result RoundPackingWorkflowResult
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.True(t, result.Success)
	require.NotNil(t, result.Result)
	assert.Equal(t, "tx-1", result.Result.LastTransactionID)
	assert.Equal(t, 1, validateCalls)
	assert.Equal(t, "S-1", completedSession)
}

func TestRoundPackingWorkflow_ValidationRunsOnce(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	env.RegisterWorkflow(RoundPackingWorkflow)

	var validateCalls int
	env.RegisterActivityWithOptions(func(ctx context.Context, cmd application.ValidateRoundPackingCommand) (*application.RoundPackingResultDTO, error) {
		validateCalls++
		return nil, goerrors.New("source content gone")
	}, activity.RegisterOptions{Name: "ValidateRoundPacking"})
	env.RegisterActivityWithOptions(func(ctx context.Context, sessionID string) error {
		t.Fatal("session must not complete after a failed validation")
		return nil
	}, activity.RegisterOptions{Name: "CompleteSession"})

	env.ExecuteWorkflow(RoundPackingWorkflow, packingInput())
	require.Error(t, env.GetWorkflowError())
	assert.Equal(t, 1, validateCalls)
}

func TestRoundPackingWorkflow_SessionCompletionIsAdvisory(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	env.RegisterWorkflow(RoundPackingWorkflow)

	env.RegisterActivityWithOptions(func(ctx context.Context, cmd application.ValidateRoundPackingCommand) (*application.RoundPackingResultDTO, error) {
		return &application.RoundPackingResultDTO{LastTransactionID: "tx-2"}, nil
	}, activity.RegisterOptions{Name: "ValidateRoundPacking"})
	env.RegisterActivityWithOptions(func(ctx context.Context, sessionID string) error {
		return goerrors.New("session store unavailable")
	}, activity.RegisterOptions{Name: "CompleteSession"})

	env.ExecuteWorkflow(RoundPackingWorkflow, packingInput())
	require.NoError(t, env.GetWorkflowError())

	var result RoundPackingWorkflowResult
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.True(t, result.Success)
}

func TestRoundPackingWorkflow_SkipsSessionWhenAbsent(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	env.RegisterWorkflow(RoundPackingWorkflow)

	env.RegisterActivityWithOptions(func(ctx context.Context, cmd application.ValidateRoundPackingCommand) (*application.RoundPackingResultDTO, error) {
		return &application.RoundPackingResultDTO{LastTransactionID: "tx-3"}, nil
	}, activity.RegisterOptions{Name: "ValidateRoundPacking"})
	env.RegisterActivityWithOptions(func(ctx context.Context, sessionID string) error {
		t.Fatal("no session to complete")
		return nil
	}, activity.RegisterOptions{Name: "CompleteSession"})

	input := packingInput()
	input.SessionID = ""
	env.ExecuteWorkflow(RoundPackingWorkflow, input)
	require.NoError(t, env.GetWorkflowError())
}
