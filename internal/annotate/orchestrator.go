package annotate

import (
	"context"

	"github.com/pathwatch-data/hallway.report/internal/detect"
	"github.com/pathwatch-data/hallway.report/internal/monitoring"
	"github.com/pathwatch-data/hallway.report/internal/vision"
)

// Service is the batch-analysis capability the orchestrator drives.
type Service interface {
	AnalyzeBatch(ctx context.Context, frames []vision.Frame, startIndex, batchNumber int, detections [][]detect.Detection) (*BatchAnalysis, error)
}

// BatchSize balances per-call payload size against total call count.
func BatchSize(frameCount int) int {
	size := frameCount / 2
	if size < 1 {
		size = 1
	}
	if size > 3 {
		size = 3
	}
	return size
}

// Orchestrator partitions frames into batches and drives the service
// strictly sequentially. A failed batch is logged and skipped; partial
// results from earlier batches are retained. No batch is retried.
type Orchestrator struct {
	Service Service
}

// Run analyzes all frames in batches and returns the aggregated
// per-frame details. detections is indexed parallel to frames and may
// be nil.
func (o *Orchestrator) Run(ctx context.Context, frames []vision.Frame, detections [][]detect.Detection) []FrameDetail {
	if len(frames) == 0 {
		return nil
	}

	size := BatchSize(len(frames))
	total := (len(frames) + size - 1) / size
	monitoring.Logf("processing %d frames in %d batches of %d", len(frames), total, size)

	var details []FrameDetail
	for batch := 0; batch < total; batch++ {
		start := batch * size
		end := start + size
		if end > len(frames) {
			end = len(frames)
		}

		var batchDets [][]detect.Detection
		if detections != nil && end <= len(detections) {
			batchDets = detections[start:end]
		}

		analysis, err := o.Service.AnalyzeBatch(ctx, frames[start:end], start, batch, batchDets)
		if err != nil {
			monitoring.Warnf("batch %d/%d failed: %v", batch+1, total, err)
			continue
		}
		details = append(details, analysis.FrameDetails...)
		monitoring.Logf("batch %d/%d completed, %d frames analyzed", batch+1, total, len(analysis.FrameDetails))
	}
	return details
}
