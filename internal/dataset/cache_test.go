package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwatch-data/hallway.report/internal/fusion"
	"github.com/pathwatch-data/hallway.report/internal/report"
	"github.com/pathwatch-data/hallway.report/internal/testutil"
	"github.com/pathwatch-data/hallway.report/internal/vision"
)

func TestIdentityPreferenceOrder(t *testing.T) {
	assert.Equal(t, "hallway_cam", Identity("/videos/hallway cam.mp4", "/frames/run1", "job-9"))
	assert.Equal(t, "run1", Identity("", "/frames/run1", "job-9"))
	assert.Equal(t, "job-9", Identity("", "", "job-9"))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"clip-01_v2.final", "clip-01_v2.final"},
		{"a b/c:d", "a_b_c_d"},
		{"видео", "_____"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func sampleResult() *report.Result {
	return &report.Result{
		Success:        true,
		FramesAnalyzed: 2,
		Method:         report.Method,
		Analysis: &report.Analysis{
			Explanation: "Analyzed 2 unique frames - no safety violations detected.",
		},
	}
}

func TestCacheStoreAndLoad(t *testing.T) {
	c := &Cache{Root: t.TempDir()}
	res := sampleResult()

	frames := []vision.Frame{
		{Index: 0, Filename: "frame_0_00m00s.jpg", Image: testutil.TexturedFrame(64, 48, 1)},
	}
	boxes := map[string][]fusion.BoundingBox{
		"frame_0_00m00s.jpg": {{Label: "Car - CRITICAL", Severity: "critical", X: 0.2, Y: 0.2, W: 0.3, H: 0.3}},
	}

	require.NoError(t, c.Store("clip1", res, Metadata{JobID: "job-1"}, frames, boxes))

	// Cached analysis content must round-trip byte-identically.
	stored, err := os.ReadFile(filepath.Join(c.Root, "clip1", "analysis.json"))
	require.NoError(t, err)
	direct, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t, direct, stored)

	loaded, ok := c.Load("clip1")
	require.True(t, ok)
	assert.Equal(t, res, loaded)

	// Annotated image written as PNG.
	_, err = os.Stat(filepath.Join(c.Root, "clip1", "images", "frame_0_00m00s.png"))
	assert.NoError(t, err)

	// Metadata present with format and dir filled in.
	var meta Metadata
	data, err := os.ReadFile(filepath.Join(c.Root, "clip1", "metadata.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "png", meta.ImageFormat)
	assert.Equal(t, "job-1", meta.JobID)
	assert.NotEmpty(t, meta.CreatedAt)
}

func TestCacheLoadMissing(t *testing.T) {
	c := &Cache{Root: t.TempDir()}
	_, ok := c.Load("nope")
	assert.False(t, ok)
}

func TestCacheLoadCorrupt(t *testing.T) {
	c := &Cache{Root: t.TempDir()}
	dir := filepath.Join(c.Root, "bad")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "analysis.json"), []byte("{not json"), 0o644))

	_, ok := c.Load("bad")
	assert.False(t, ok)
}

func TestCacheIndexAccumulates(t *testing.T) {
	c := &Cache{Root: t.TempDir()}
	require.NoError(t, c.Store("first", sampleResult(), Metadata{}, nil, nil))
	require.NoError(t, c.Store("second", sampleResult(), Metadata{}, nil, nil))
	// Re-storing overwrites in place.
	require.NoError(t, c.Store("first", sampleResult(), Metadata{}, nil, nil))

	data, err := os.ReadFile(filepath.Join(c.Root, "index.json"))
	require.NoError(t, err)
	var index map[string]indexEntry
	require.NoError(t, json.Unmarshal(data, &index))

	assert.Len(t, index, 2)
	assert.Equal(t, filepath.Join(c.Root, "first"), index["first"].DatasetDir)
	assert.NotEmpty(t, index["second"].AnalysisPath)
}
