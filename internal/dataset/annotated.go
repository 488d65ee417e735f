package dataset

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/pathwatch-data/hallway.report/internal/detect"
	"github.com/pathwatch-data/hallway.report/internal/fusion"
)

// Box colors by severity, with per-source fallbacks for boxes that
// carry no severity.
var (
	colorCritical   = color.RGBA{R: 255, A: 255}
	colorHigh       = color.RGBA{R: 255, G: 165, A: 255}
	colorMedium     = color.RGBA{R: 255, G: 255, A: 255}
	colorLow        = color.RGBA{G: 255, B: 255, A: 255}
	colorModel      = color.RGBA{R: 20, G: 200, B: 20, A: 255}
	colorAnnotation = color.RGBA{R: 240, G: 180, B: 40, A: 255}
)

const boxThickness = 2

// DrawAnnotations returns a copy of img with every bounding box and its
// label painted on.
func DrawAnnotations(img image.Image, boxes []fusion.BoundingBox) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	for _, b := range boxes {
		c := boxColor(b)
		r := image.Rect(
			bounds.Min.X+int(b.X*w),
			bounds.Min.Y+int(b.Y*h),
			bounds.Min.X+int((b.X+b.W)*w),
			bounds.Min.Y+int((b.Y+b.H)*h),
		).Intersect(bounds)
		if r.Empty() {
			continue
		}
		drawRect(out, r, c)
		drawLabel(out, r.Min.X, r.Min.Y, labelText(b), c)
	}
	return out
}

// WriteAnnotatedPNG writes the annotated frame to path as PNG.
func WriteAnnotatedPNG(path string, img image.Image, boxes []fusion.BoundingBox) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create annotated image: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, DrawAnnotations(img, boxes)); err != nil {
		return fmt.Errorf("encode annotated image: %w", err)
	}
	return nil
}

func boxColor(b fusion.BoundingBox) color.RGBA {
	switch b.Severity {
	case "critical":
		return colorCritical
	case "high":
		return colorHigh
	case "medium":
		return colorMedium
	case "low":
		return colorLow
	}
	if b.Source == detect.SourceExternalModel {
		return colorModel
	}
	return colorAnnotation
}

func labelText(b fusion.BoundingBox) string {
	label := b.Label
	if label == "" {
		label = "object"
	}
	if b.Confidence > 0 {
		label = fmt.Sprintf("%s (%.2f)", label, b.Confidence)
	}
	return label
}

// drawRect paints an unfilled rectangle outline.
func drawRect(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	u := image.NewUniform(c)
	// top, bottom, left, right edges
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+boxThickness), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-boxThickness, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+boxThickness, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-boxThickness, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// drawLabel paints the label text on a filled background just above
// (x, y), clamped into the image.
func drawLabel(dst *image.RGBA, x, y int, text string, c color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil() + 6
	height := face.Metrics().Height.Ceil() + 2

	top := y - height
	if top < dst.Bounds().Min.Y {
		top = dst.Bounds().Min.Y
	}
	bg := image.Rect(x, top, x+width, top+height).Intersect(dst.Bounds())
	draw.Draw(dst, bg, image.NewUniform(c), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x+3, top+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}
