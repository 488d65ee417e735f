package vision

import "image"

// MeanBrightness returns the average grayscale intensity of img.
func MeanBrightness(img image.Image) float64 {
	g := ToGray(img)
	vals := grayValues(g)
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// LaplacianVariance returns the variance of the 4-neighbour Laplacian
// of img. Low values indicate a blurred or featureless frame.
func LaplacianVariance(img image.Image) float64 {
	g := ToGray(img)
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	if w < 3 || h < 3 {
		return 0
	}
	src := grayValues(g)

	lap := make([]float64, 0, (w-2)*(h-2))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			v := src[(y-1)*w+x] + src[(y+1)*w+x] + src[y*w+x-1] + src[y*w+x+1] - 4*src[y*w+x]
			lap = append(lap, v)
		}
	}

	var mean float64
	for _, v := range lap {
		mean += v
	}
	mean /= float64(len(lap))

	var variance float64
	for _, v := range lap {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(lap))
}

// QualityAcceptable reports whether a frame clears the minimal quality
// gate: mean brightness and blur score each above a low floor. The gate
// is intentionally permissive so only truly unusable frames are
// dropped. Errors never surface; an unmeasurable frame is accepted.
func QualityAcceptable(img image.Image, brightnessFloor, blurFloor float64) bool {
	if img == nil {
		return true
	}
	if MeanBrightness(img) < brightnessFloor {
		return false
	}
	if LaplacianVariance(img) < blurFloor {
		return false
	}
	return true
}
