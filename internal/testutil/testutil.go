// Package testutil provides shared synthetic-image fixtures for the
// pipeline tests. Frames are generated in memory so tests never depend
// on binary fixtures checked into the repository.
package testutil

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

// UniformGray returns a w x h frame filled with a single intensity.
func UniformGray(w, h int, value uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = value
	}
	return g
}

// NoisyGray returns a frame of deterministic pseudo-random texture. The
// same seed always yields the same frame, so "identical" and
// "different" pairs are reproducible.
func NoisyGray(w, h int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = uint8(rng.Intn(256))
	}
	return g
}

// DrawRect paints an axis-aligned filled rectangle onto g, clamped to
// the frame. Coordinates are pixels.
func DrawRect(g *image.Gray, x, y, w, h int, value uint8) {
	b := g.Bounds()
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if xx >= b.Min.X && xx < b.Max.X && yy >= b.Min.Y && yy < b.Max.Y {
				g.SetGray(xx, yy, color.Gray{Y: value})
			}
		}
	}
}

// TexturedFrame returns a frame with enough texture to pass the blur
// gate: a deterministic checker pattern over a noisy base.
func TexturedFrame(w, h int, seed int64) *image.Gray {
	g := NoisyGray(w, h, seed)
	for y := 0; y < h; y += 8 {
		for x := 0; x < w; x += 8 {
			if (x/8+y/8)%2 == 0 {
				DrawRect(g, x, y, 8, 8, 200)
			}
		}
	}
	return g
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
