package vision

import (
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/pathwatch-data/hallway.report/internal/testutil"
)

func TestFrameFilename(t *testing.T) {
	tests := []struct {
		index   int
		seconds float64
		want    string
	}{
		{0, 0, "frame_0_00m00s.jpg"},
		{7, 65, "frame_7_01m05s.jpg"},
		{12, 3599, "frame_12_59m59s.jpg"},
	}
	for _, tt := range tests {
		if got := FrameFilename(tt.index, tt.seconds); got != tt.want {
			t.Errorf("FrameFilename(%d, %v) = %q, want %q", tt.index, tt.seconds, got, tt.want)
		}
	}
}

func TestTimestampFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"frame_3_01m05s.jpg", "01:05"},
		{"frame_0_00m00s.jpg", "00:00"},
		{"frame_12_10m42s.jpg", "10:42"},
		{"not_a_frame.jpg", "00:00"},
		{"frame_bad.jpg", "00:00"},
	}
	for _, tt := range tests {
		if got := TimestampFromFilename(tt.name); got != tt.want {
			t.Errorf("TimestampFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()

	writeFrame := func(name string) {
		f, err := os.Create(filepath.Join(dir, name))
		testutil.AssertNoError(t, err)
		defer f.Close()
		testutil.AssertNoError(t, jpeg.Encode(f, testutil.TexturedFrame(64, 48, 1), nil))
	}
	writeFrame("frame_0_00m00s.jpg")
	writeFrame("frame_1_00m01s.jpg")
	// Unrelated and unreadable entries are skipped, not fatal.
	testutil.AssertNoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	testutil.AssertNoError(t, os.WriteFile(filepath.Join(dir, "frame_2_00m02s.jpg"), []byte("not a jpeg"), 0o644))

	frames, err := LoadDirectory(dir)
	testutil.AssertNoError(t, err)

	if len(frames) != 2 {
		t.Fatalf("loaded %d frames, want 2", len(frames))
	}
	if frames[0].Filename != "frame_0_00m00s.jpg" || frames[1].Filename != "frame_1_00m01s.jpg" {
		t.Errorf("frames out of order: %v, %v", frames[0].Filename, frames[1].Filename)
	}
	if frames[1].Index != 1 || frames[1].Timestamp != "00:01" {
		t.Errorf("frame metadata = %+v", frames[1])
	}
}

func TestLoadDirectoryMissing(t *testing.T) {
	if _, err := LoadDirectory(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("missing directory should error")
	}
}
