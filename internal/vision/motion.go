package vision

import (
	"image"
	"math"
)

// Motion scoring canvas and tuning. The intensity cutoff and minimum
// region area follow the extraction pipeline this replaces: 25/255
// binarization with single-pixel noise regions (< 50 px) ignored.
const (
	motionWidth    = 320
	motionHeight   = 240
	motionBlurTaps = 21
	diffCutoff     = 25
	minRegionArea  = 50
)

// MotionDetector computes a coarse motion magnitude between two frames
// by thresholded frame differencing. The score is an unbounded
// non-negative area sum; callers compare it against their own motion
// threshold, which is independent of any similarity threshold.
type MotionDetector struct{}

// Score returns the total area of changed regions between prev and cur.
// Nil frames score zero.
func (MotionDetector) Score(prev, cur image.Image) float64 {
	if prev == nil || cur == nil {
		return 0
	}
	a := gaussianBlur(ResizeGray(ToGray(prev), motionWidth, motionHeight), motionBlurTaps)
	b := gaussianBlur(ResizeGray(ToGray(cur), motionWidth, motionHeight), motionBlurTaps)

	// Binarize the absolute difference.
	fg := make([]bool, motionWidth*motionHeight)
	for i := range fg {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		fg[i] = d > diffCutoff
	}

	return float64(sumRegionAreas(fg, motionWidth, motionHeight, minRegionArea))
}

// gaussianBlur applies a separable Gaussian with the given (odd) tap
// count, suppressing sensor noise before differencing.
func gaussianBlur(g *image.Gray, taps int) []float64 {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	radius := taps / 2
	// Sigma per the conventional kernel-size heuristic.
	sigma := 0.3*(float64(taps-1)*0.5-1) + 0.8

	kernel := make([]float64, taps)
	var ksum float64
	for i := range kernel {
		x := float64(i - radius)
		kernel[i] = math.Exp(-x * x / (2 * sigma * sigma))
		ksum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= ksum
	}

	src := grayValues(g)
	tmp := make([]float64, len(src))
	dst := make([]float64, len(src))

	// Horizontal pass with clamped borders.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				xx := x + k
				if xx < 0 {
					xx = 0
				} else if xx >= w {
					xx = w - 1
				}
				acc += src[y*w+xx] * kernel[k+radius]
			}
			tmp[y*w+x] = acc
		}
	}
	// Vertical pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				yy := y + k
				if yy < 0 {
					yy = 0
				} else if yy >= h {
					yy = h - 1
				}
				acc += tmp[yy*w+x] * kernel[k+radius]
			}
			dst[y*w+x] = acc
		}
	}
	return dst
}

// sumRegionAreas labels 8-connected foreground regions and sums the
// areas of those at or above minArea.
func sumRegionAreas(fg []bool, w, h, minArea int) int {
	visited := make([]bool, len(fg))
	var total int
	var stack []int

	for start := range fg {
		if !fg[start] || visited[start] {
			continue
		}
		area := 0
		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			area++
			x, y := i%w, i/w
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					j := ny*w + nx
					if fg[j] && !visited[j] {
						visited[j] = true
						stack = append(stack, j)
					}
				}
			}
		}
		if area >= minArea {
			total += area
		}
	}
	return total
}
