package vision

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Comparison canvas. Both frames are shrunk to this size before any
// similarity method runs.
const (
	compareWidth  = 160
	compareHeight = 120
)

// StructuralScorer is the optional structural-similarity capability.
// Implementations return a score and true, or false when the capability
// is unavailable and the score must be omitted.
type StructuralScorer interface {
	Score(a, b *image.Gray) (float64, bool)
}

// SSIMScorer computes a windowed structural similarity index.
type SSIMScorer struct{}

// NoStructural is the null structural-similarity capability. Selecting
// it degrades the scorer to histogram correlation and cross-correlation
// only, matching the behaviour when the capability is not installed.
type NoStructural struct{}

// Score implements StructuralScorer with 8x8 windows and the standard
// stabilising constants for 8-bit dynamic range.
func (SSIMScorer) Score(a, b *image.Gray) (float64, bool) {
	const win = 8
	const c1 = (0.01 * 255) * (0.01 * 255)
	const c2 = (0.03 * 255) * (0.03 * 255)

	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	if w != b.Bounds().Dx() || h != b.Bounds().Dy() || w < win || h < win {
		return 0, false
	}

	var total float64
	var windows int
	for wy := 0; wy+win <= h; wy += win {
		for wx := 0; wx+win <= w; wx += win {
			var sumA, sumB float64
			for y := 0; y < win; y++ {
				for x := 0; x < win; x++ {
					sumA += float64(a.GrayAt(wx+x, wy+y).Y)
					sumB += float64(b.GrayAt(wx+x, wy+y).Y)
				}
			}
			n := float64(win * win)
			muA, muB := sumA/n, sumB/n

			var varA, varB, cov float64
			for y := 0; y < win; y++ {
				for x := 0; x < win; x++ {
					da := float64(a.GrayAt(wx+x, wy+y).Y) - muA
					db := float64(b.GrayAt(wx+x, wy+y).Y) - muB
					varA += da * da
					varB += db * db
					cov += da * db
				}
			}
			varA /= n - 1
			varB /= n - 1
			cov /= n - 1

			num := (2*muA*muB + c1) * (2*cov + c2)
			den := (muA*muA + muB*muB + c1) * (varA + varB + c2)
			total += num / den
			windows++
		}
	}
	if windows == 0 {
		return 0, false
	}
	return total / float64(windows), true
}

// Score implements StructuralScorer as permanently unavailable.
func (NoStructural) Score(a, b *image.Gray) (float64, bool) { return 0, false }

// SimilarityScorer decides whether two frames look alike. It combines
// up to three independent methods and takes the maximum, so a blind
// spot in any single method (a recolored but spatially identical scene,
// a uniform background) cannot mark two alike frames as different.
type SimilarityScorer struct {
	// Structural is the optional structural-similarity capability.
	Structural StructuralScorer
	// Threshold is the similarity decision boundary; scores strictly
	// above it mean "similar".
	Threshold float64
}

// NewSimilarityScorer returns a scorer with the structural capability
// enabled and the given decision threshold.
func NewSimilarityScorer(threshold float64) *SimilarityScorer {
	return &SimilarityScorer{Structural: SSIMScorer{}, Threshold: threshold}
}

// Score computes the combined similarity of two frames. Histogram
// correlation is the guaranteed path; the structural and
// cross-correlation scores join when they are computable.
func (s *SimilarityScorer) Score(a, b image.Image) float64 {
	ga := ResizeGray(ToGray(a), compareWidth, compareHeight)
	gb := ResizeGray(ToGray(b), compareWidth, compareHeight)

	var scores []float64

	structural := s.Structural
	if structural == nil {
		structural = NoStructural{}
	}
	if v, ok := structural.Score(ga, gb); ok {
		scores = append(scores, v)
	}

	scores = append(scores, histogramCorrelation(ga, gb))

	if v, ok := crossCorrelation(ga, gb); ok {
		scores = append(scores, v)
	}

	max := math.Inf(-1)
	for _, v := range scores {
		if v > max {
			max = v
		}
	}
	return max
}

// Similar reports whether a and b score above the configured threshold.
func (s *SimilarityScorer) Similar(a, b image.Image) bool {
	return s.SimilarAt(a, b, s.Threshold)
}

// SimilarAt is Similar with an explicit threshold override.
func (s *SimilarityScorer) SimilarAt(a, b image.Image, threshold float64) bool {
	return s.Score(a, b) > threshold
}

// histogramCorrelation compares 256-bin intensity histograms with the
// Pearson correlation coefficient. Always computable; a degenerate
// correlation collapses to 0 rather than NaN.
func histogramCorrelation(a, b *image.Gray) float64 {
	ha := intensityHistogram(a)
	hb := intensityHistogram(b)
	r := stat.Correlation(ha, hb, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

func intensityHistogram(g *image.Gray) []float64 {
	hist := make([]float64, 256)
	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := g.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			hist[g.Pix[i+x]]++
		}
	}
	return hist
}

// crossCorrelation computes the zero-mean normalized cross-correlation
// of two equally sized images, the peak value of normalized template
// matching when template and scene coincide. Returns false when either
// image has no intensity variance.
func crossCorrelation(a, b *image.Gray) (float64, bool) {
	va := grayValues(a)
	vb := grayValues(b)
	if len(va) != len(vb) || len(va) == 0 {
		return 0, false
	}
	r := stat.Correlation(va, vb, nil)
	if math.IsNaN(r) {
		return 0, false
	}
	return r, true
}
