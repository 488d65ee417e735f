package sampler

import (
	"fmt"
	"image"
	"testing"

	"github.com/pathwatch-data/hallway.report/internal/testutil"
	"github.com/pathwatch-data/hallway.report/internal/vision"
)

// fakeSource serves one frame per second from a fixed slice.
type fakeSource struct {
	frames []image.Image
}

func (f *fakeSource) Duration() float64 { return float64(len(f.frames)) }

func (f *fakeSource) FrameAt(seconds float64) (image.Image, error) {
	i := int(seconds)
	if i < 0 || i >= len(f.frames) {
		return nil, fmt.Errorf("no frame at %.1fs", seconds)
	}
	if f.frames[i] == nil {
		return nil, fmt.Errorf("unreadable frame at %.1fs", seconds)
	}
	return f.frames[i], nil
}

// burstFrame returns a frame visually unrelated to the static scene,
// with a bright moving block so both motion and dissimilarity trigger.
func burstFrame(offset int) image.Image {
	g := testutil.UniformGray(320, 240, 0)
	testutil.DrawRect(g, 40+offset*80, 80, 100, 80, 255)
	return g
}

func staticScene(n int) []image.Image {
	static := testutil.TexturedFrame(320, 240, 1)
	frames := make([]image.Image, n)
	for i := range frames {
		frames[i] = static
	}
	return frames
}

func frameList(images []image.Image) []vision.Frame {
	frames := make([]vision.Frame, len(images))
	for i, img := range images {
		frames[i] = vision.Frame{
			Index:     i,
			Timestamp: vision.Timestamp(float64(i)),
			Filename:  vision.FrameFilename(i, float64(i)),
			Image:     img,
		}
	}
	return frames
}

func TestSampleStreamKeepsFirstFrame(t *testing.T) {
	s := New(DefaultConfig())
	kept := s.SampleStream(&fakeSource{frames: staticScene(5)})

	if len(kept) == 0 {
		t.Fatal("no frames kept from non-empty source")
	}
	if kept[0].Index != 0 || kept[0].Timestamp != "00:00" {
		t.Errorf("first kept frame = %+v, want frame 0 at 00:00", kept[0])
	}
}

func TestSampleStreamPeriodicKeepInStaticScene(t *testing.T) {
	s := New(DefaultConfig())
	kept := s.SampleStream(&fakeSource{frames: staticScene(10)})

	// Frame 0 plus every third consecutive similar frame.
	if len(kept) < 2 {
		t.Errorf("static scene kept %d frames, want periodic coverage keeps", len(kept))
	}
	if len(kept) >= 10 {
		t.Errorf("static scene kept %d of 10 frames, similarity filter did nothing", len(kept))
	}
}

func TestSampleStreamMotionPreemptsSimilarity(t *testing.T) {
	frames := staticScene(12)
	frames[6] = burstFrame(0)

	s := New(DefaultConfig())
	kept := s.SampleStream(&fakeSource{frames: frames})

	found := false
	for _, f := range kept {
		if f.Timestamp == "00:06" {
			found = true
		}
	}
	if !found {
		t.Error("motion-burst frame at 00:06 was not kept")
	}
}

func TestSampleStreamSkipsUnreadableAndDarkFrames(t *testing.T) {
	frames := staticScene(6)
	frames[2] = nil                                // unreadable
	frames[3] = testutil.UniformGray(320, 240, 5) // fails quality gate

	s := New(DefaultConfig())
	kept := s.SampleStream(&fakeSource{frames: frames})

	for _, f := range kept {
		if f.Timestamp == "00:02" || f.Timestamp == "00:03" {
			t.Errorf("kept excluded frame at %s", f.Timestamp)
		}
	}
}

func TestSampleListAlwaysRetainsFirstFrame(t *testing.T) {
	s := New(DefaultConfig())
	frames := frameList(staticScene(8))

	kept := s.SampleList(frames)
	if len(kept) == 0 || kept[0].Index != 0 {
		t.Fatalf("kept = %+v, want frame 0 first", kept)
	}
}

func TestSampleListEmpty(t *testing.T) {
	s := New(DefaultConfig())
	if got := s.SampleList(nil); got != nil {
		t.Errorf("SampleList(nil) = %v, want nil", got)
	}
}

func TestSampleDispatchesOnStrategy(t *testing.T) {
	images := staticScene(8)
	images[4] = burstFrame(0)
	frames := frameList(images)

	t.Run("list is the default", func(t *testing.T) {
		s := New(Config{})
		kept := s.Sample(frames)
		if len(kept) == 0 || kept[0].Index != 0 {
			t.Fatalf("kept = %+v, want frame 0 first", kept)
		}
		// List-strategy keeps carry their original filenames.
		if kept[0].Filename != frames[0].Filename {
			t.Errorf("filename = %q, want %q", kept[0].Filename, frames[0].Filename)
		}
	})

	t.Run("stream", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Strategy = StrategyStream
		kept := New(cfg).Sample(frames)
		if len(kept) == 0 {
			t.Fatal("stream strategy kept nothing")
		}
		found := false
		for _, f := range kept {
			if f.Timestamp == "00:04" {
				found = true
			}
		}
		if !found {
			t.Error("motion-burst frame at 00:04 was not kept")
		}
	})
}

func TestSampleListRecordsScores(t *testing.T) {
	images := staticScene(6)
	images[3] = burstFrame(0)

	s := New(DefaultConfig())
	s.Log = &ScoreLog{}
	s.SampleList(frameList(images))

	samples := s.Log.Samples()
	// One score per candidate after frame 0.
	if len(samples) != 5 {
		t.Fatalf("recorded %d samples, want 5", len(samples))
	}
	// The static duplicates score high, the burst frame low.
	if samples[0].Similarity <= samples[2].Similarity {
		t.Errorf("duplicate frame scored %.3f, burst frame %.3f, want duplicate higher",
			samples[0].Similarity, samples[2].Similarity)
	}
}

// The end-to-end sampling property: 40 near-identical frames with a
// 3-frame burst reduce to at most 12 frames including the burst.
func TestSampleListStaticSceneWithBurst(t *testing.T) {
	images := staticScene(40)
	for i := 0; i < 3; i++ {
		images[20+i] = burstFrame(i)
	}

	s := New(DefaultConfig())
	kept := s.SampleList(frameList(images))

	if len(kept) > 12 {
		t.Errorf("kept %d frames, cap is 12", len(kept))
	}
	foundBurst := false
	for _, f := range kept {
		if f.Index >= 20 && f.Index <= 22 {
			foundBurst = true
		}
	}
	if !foundBurst {
		t.Error("no burst frame survived sampling")
	}
}

func TestSampleListBoundedAndOrdered(t *testing.T) {
	images := make([]image.Image, 30)
	for i := range images {
		images[i] = testutil.NoisyGray(160, 120, int64(i+1))
	}

	s := New(DefaultConfig())
	kept := s.SampleList(frameList(images))

	if len(kept) == 0 || len(kept) > 12 {
		t.Fatalf("kept %d frames, want 1..12", len(kept))
	}
	if kept[0].Index != 0 {
		t.Errorf("first kept = %d, want 0", kept[0].Index)
	}
	for i := 1; i < len(kept); i++ {
		if kept[i].Index <= kept[i-1].Index {
			t.Fatalf("kept indices not strictly increasing: %v then %v", kept[i-1].Index, kept[i].Index)
		}
	}
}

func TestStrideCap(t *testing.T) {
	frames := frameList(staticScene(30))
	got := stride(frames, 12)

	if len(got) > 12 {
		t.Fatalf("stride kept %d, cap is 12", len(got))
	}
	if got[0].Index != 0 {
		t.Errorf("stride first = %d, want 0", got[0].Index)
	}
	if len(stride(frames[:5], 12)) != 5 {
		t.Error("stride must pass short lists through unchanged")
	}
}

func TestSampleListFallbackOnBadFrames(t *testing.T) {
	// A nil image aborts the similarity pass; the stride fallback still
	// produces a bounded, ordered selection.
	images := staticScene(20)
	images[4] = nil

	s := New(DefaultConfig())
	kept := s.SampleList(frameList(images))

	if len(kept) == 0 || len(kept) > 12 {
		t.Fatalf("fallback kept %d frames, want 1..12", len(kept))
	}
	if kept[0].Index != 0 {
		t.Errorf("fallback first frame = %d, want 0", kept[0].Index)
	}
}

func TestStrideBands(t *testing.T) {
	tests := []struct {
		n       int
		maxKept int
	}{
		{3, 3},   // few frames: keep all
		{10, 4},  // step 3
		{25, 5},  // step 5
		{100, 12},
	}
	for _, tt := range tests {
		frames := frameList(staticScene(tt.n))
		got := strideBands(frames, 12)
		if len(got) > tt.maxKept {
			t.Errorf("strideBands(n=%d) kept %d, want <= %d", tt.n, len(got), tt.maxKept)
		}
		if got[0].Index != 0 {
			t.Errorf("strideBands(n=%d) first = %d, want 0", tt.n, got[0].Index)
		}
	}
}

func TestScoreLogNilSafe(t *testing.T) {
	var l *ScoreLog
	l.Add(0, 1, 2) // must not panic
	if l.Samples() != nil {
		t.Error("nil log should have no samples")
	}
}

func TestScoreLogWritePlots(t *testing.T) {
	l := &ScoreLog{}
	for i := 0; i < 10; i++ {
		l.Add(float64(i), 0.9, float64(i*100))
	}
	dir := t.TempDir()
	if err := l.WritePlots(dir); err != nil {
		t.Fatalf("WritePlots: %v", err)
	}
}
