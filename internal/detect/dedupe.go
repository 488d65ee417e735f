package detect

import "math"

// proximityThreshold is the maximum center distance (normalized units)
// at which two same-class detections are considered the same object.
const proximityThreshold = 0.1

// Deduplicate merges near-duplicate detections pooled across every
// model pass over a frame. Two detections collide only when they share
// a class and their box centers lie within the proximity threshold; the
// higher-confidence one survives, replacing the weaker in place.
// Different classes never collide, even at zero distance. Quadratic in
// the per-frame detection count, which the per-pass caps keep small.
func Deduplicate(detections []Detection) []Detection {
	unique := make([]Detection, 0, len(detections))

	for _, d := range detections {
		duplicate := false
		for i, existing := range unique {
			if d.ClassName != existing.ClassName {
				continue
			}
			if centerDistance(d.BBox, existing.BBox) < proximityThreshold {
				if d.Confidence > existing.Confidence {
					unique[i] = d
				}
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, d)
		}
	}
	return unique
}

func centerDistance(a, b Box) float64 {
	ax, ay := a.Center()
	bx, by := b.Center()
	return math.Hypot(ax-bx, ay-by)
}
