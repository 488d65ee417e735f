package vision

import (
	"testing"

	"github.com/pathwatch-data/hallway.report/internal/testutil"
)

func TestQualityAcceptable(t *testing.T) {
	t.Run("textured frame passes", func(t *testing.T) {
		if !QualityAcceptable(testutil.TexturedFrame(160, 120, 1), 15, 25) {
			t.Error("textured frame should clear the permissive gate")
		}
	})

	t.Run("dark frame fails brightness floor", func(t *testing.T) {
		if QualityAcceptable(testutil.UniformGray(160, 120, 5), 15, 25) {
			t.Error("near-black frame should fail the brightness floor")
		}
	})

	t.Run("featureless frame fails blur floor", func(t *testing.T) {
		if QualityAcceptable(testutil.UniformGray(160, 120, 128), 15, 25) {
			t.Error("uniform frame has zero Laplacian variance and should fail")
		}
	})

	t.Run("nil frame is accepted", func(t *testing.T) {
		if !QualityAcceptable(nil, 15, 25) {
			t.Error("unmeasurable frames default to accepted")
		}
	})
}

func TestMeanBrightness(t *testing.T) {
	if got := MeanBrightness(testutil.UniformGray(10, 10, 100)); got != 100 {
		t.Errorf("MeanBrightness = %v, want 100", got)
	}
}

func TestLaplacianVariance(t *testing.T) {
	if got := LaplacianVariance(testutil.UniformGray(32, 32, 77)); got != 0 {
		t.Errorf("uniform frame Laplacian variance = %v, want 0", got)
	}
	if got := LaplacianVariance(testutil.TexturedFrame(32, 32, 1)); got <= 25 {
		t.Errorf("textured frame Laplacian variance = %v, want well above the floor", got)
	}
}
