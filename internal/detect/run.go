package detect

import (
	"context"
	"image"

	"github.com/pathwatch-data/hallway.report/internal/monitoring"
)

// iouFloor passed to every variant: high so the model's own suppression
// removes most overlapping duplicates before we pool across variants.
const iouFloor = 0.7

// Run executes the full per-frame detection sequence against one frame:
// every model variant in order, normalization and plausibility
// filtering, hazard classification, then cross-variant deduplication.
// A failing variant is logged and skipped; an unavailable detector
// yields an empty result. Variants run strictly sequentially.
func Run(ctx context.Context, det Detector, img image.Image, classifier *HazardClassifier, baseConfidence float64) []Detection {
	if det == nil || !det.Available() || img == nil {
		return nil
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var pooled []Detection
	for _, variant := range DefaultVariants {
		raws, err := det.Detect(ctx, img, baseConfidence*variant.ConfidenceScale, iouFloor)
		if err != nil {
			monitoring.Warnf("detector variant %s failed: %v", variant.Name, err)
			continue
		}
		for _, raw := range raws {
			d, ok := Normalize(raw, width, height)
			if !ok {
				continue
			}
			d.ModelVariant = variant.Name
			d.PotentialHazard = classifier.IsHazard(d.ClassName, d.Confidence, d.BBox)
			pooled = append(pooled, d)
		}
	}
	return Deduplicate(pooled)
}
