package workflows

import (
	"context"
	"errors"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/forestgeo/internal/core/domain"
)

// TemporalRunner implements ports.BatchRunner by starting a
// BatchReverseGeocodeWorkflow per request.
type TemporalRunner struct {
	client    client.Client
	taskQueue string
}

// NewTemporalRunner creates a runner that schedules on taskQueue.
func NewTemporalRunner(c client.Client, taskQueue string) *TemporalRunner {
	return &TemporalRunner{client: c, taskQueue: taskQueue}
}

// WorkflowID is the workflow ID used for a batch. Redelivered requests map
// to the same ID and are ignored.
func WorkflowID(batchID string) string {
	return "batch-" + batchID
}

// StartBatch starts the workflow and returns without waiting for it.
func (r *TemporalRunner) StartBatch(ctx context.Context, req *domain.BatchRequest) error {
	_, err := r.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                    WorkflowID(req.ID),
		TaskQueue:             r.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}, BatchReverseGeocodeWorkflow, *req)

	var started *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &started) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("start batch %s: %w", req.ID, err)
	}
	return nil
}
