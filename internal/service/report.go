package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/client"
	"catalog/harvester/internal/domain/task"
	"catalog/harvester/internal/queue"
)

// failureReporter appends dropped products and failed assets to the failure
// stream. A nil reporter drops reports.
type failureReporter struct {
	queue queue.Queue
	runID string
}

func (r *failureReporter) productFailed(ctx context.Context, productID, categoryPath, stage string, attempts int, err error) {
	if r == nil || r.queue == nil {
		return
	}

	r.add(ctx, &task.ProductFailureTask{
		RunID:        r.runID,
		ProductID:    productID,
		CategoryPath: categoryPath,
		Attempts:     attempts,
		Error:        err.Error(),
		FailureStage: stage,
	})
}

func (r *failureReporter) assetFailed(ctx context.Context, productID string, req client.AssetRequest, attempts int, err error) {
	if r == nil || r.queue == nil {
		return
	}

	r.add(ctx, &task.AssetFailureTask{
		RunID:     r.runID,
		ProductID: productID,
		Kind:      req.Kind,
		URL:       req.String(),
		Attempts:  attempts,
		Error:     err.Error(),
	})
}

func (r *failureReporter) add(ctx context.Context, t task.Task) {
	if _, err := r.queue.AddTask(ctx, t); err != nil {
		log.Errorf("❌ Failed to record %s: %v", t.TaskType(), err)
	}
}
