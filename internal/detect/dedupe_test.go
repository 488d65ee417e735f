package detect

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeduplicateKeepsHigherConfidence(t *testing.T) {
	weak := Detection{ClassName: "car", Confidence: 0.4, BBox: Box{X: 0.40, Y: 0.40, W: 0.2, H: 0.2}}
	strong := Detection{ClassName: "car", Confidence: 0.8, BBox: Box{X: 0.42, Y: 0.42, W: 0.2, H: 0.2}}

	t.Run("weak first", func(t *testing.T) {
		got := Deduplicate([]Detection{weak, strong})
		if len(got) != 1 {
			t.Fatalf("survivors = %d, want 1", len(got))
		}
		if got[0].Confidence != 0.8 {
			t.Errorf("survivor confidence = %v, want 0.8", got[0].Confidence)
		}
	})

	t.Run("strong first", func(t *testing.T) {
		got := Deduplicate([]Detection{strong, weak})
		if len(got) != 1 || got[0].Confidence != 0.8 {
			t.Errorf("survivors = %+v, want just the 0.8 detection", got)
		}
	})
}

func TestDeduplicateDifferentClassesNeverCollide(t *testing.T) {
	a := Detection{ClassName: "car", Confidence: 0.9, BBox: Box{X: 0.4, Y: 0.4, W: 0.2, H: 0.2}}
	b := Detection{ClassName: "box", Confidence: 0.3, BBox: Box{X: 0.4, Y: 0.4, W: 0.2, H: 0.2}}

	got := Deduplicate([]Detection{a, b})
	if len(got) != 2 {
		t.Fatalf("survivors = %d, want 2 (identical centers, different classes)", len(got))
	}
}

func TestDeduplicateDistantSameClass(t *testing.T) {
	left := Detection{ClassName: "car", Confidence: 0.5, BBox: Box{X: 0.1, Y: 0.4, W: 0.1, H: 0.1}}
	right := Detection{ClassName: "car", Confidence: 0.5, BBox: Box{X: 0.7, Y: 0.4, W: 0.1, H: 0.1}}

	got := Deduplicate([]Detection{left, right})
	if diff := cmp.Diff([]Detection{left, right}, got); diff != "" {
		t.Errorf("distant same-class detections changed (-want +got):\n%s", diff)
	}
}

func TestDeduplicateEmpty(t *testing.T) {
	if got := Deduplicate(nil); len(got) != 0 {
		t.Errorf("Deduplicate(nil) = %v, want empty", got)
	}
}
