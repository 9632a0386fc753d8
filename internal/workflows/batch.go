package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/forestgeo/internal/core/domain"
)

// batchParallelism bounds concurrent provider calls per batch.
const batchParallelism = 8

// BatchReverseGeocodeWorkflow reverse geocodes every point of a batch and
// publishes the result. A point that fails after its retries is counted and
// skipped; the batch itself only fails if the result cannot be published.
func BatchReverseGeocodeWorkflow(ctx workflow.Context, req domain.BatchRequest) (*domain.BatchResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting batch reverse geocoding", "batchID", req.ID, "points", len(req.Points))

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	})

	res := &domain.BatchResult{ID: req.ID}

	for start := 0; start < len(req.Points); start += batchParallelism {
		end := min(start+batchParallelism, len(req.Points))

		futures := make([]workflow.Future, 0, end-start)
		for _, p := range req.Points[start:end] {
			futures = append(futures, workflow.ExecuteActivity(ctx, ActivityReverseGeocode, p))
		}

		for i, f := range futures {
			var place *domain.Place
			if err := f.Get(ctx, &place); err != nil || place == nil {
				res.Failed++
				logger.Warn("point not resolved", "batchID", req.ID, "index", start+i, "error", err)
				continue
			}
			res.Resolved++
			res.Places = append(res.Places, *place)
		}
	}

	res.CompletedAt = workflow.Now(ctx).UTC()
	if err := workflow.ExecuteActivity(ctx, ActivityPublishBatchCompleted, res).Get(ctx, nil); err != nil {
		logger.Error("publish batch result failed", "batchID", req.ID, "error", err)
		return res, err
	}

	logger.Info("Batch reverse geocoding finished", "batchID", req.ID, "resolved", res.Resolved, "failed", res.Failed)
	return res, nil
}
