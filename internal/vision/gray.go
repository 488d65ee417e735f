package vision

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// ToGray converts any image to 8-bit grayscale. Images that are already
// *image.Gray are returned as-is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(g, g.Bounds(), img, b.Min, xdraw.Src)
	return g
}

// ResizeGray scales a grayscale image to w x h using bilinear
// interpolation. Comparison and motion scoring always run on a fixed
// small canvas so cost is bounded regardless of source resolution.
func ResizeGray(g *image.Gray, w, h int) *image.Gray {
	if g.Bounds().Dx() == w && g.Bounds().Dy() == h {
		return g
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), g, g.Bounds(), xdraw.Src, nil)
	return dst
}

// grayValues flattens the pixel values of g into a float64 slice.
func grayValues(g *image.Gray) []float64 {
	b := g.Bounds()
	vals := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := g.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			vals = append(vals, float64(g.Pix[i+x]))
		}
	}
	return vals
}
