// Package vision implements the image-level primitives of the hallway
// analysis pipeline: frame identity, grayscale conversion and resizing,
// visual similarity scoring, coarse motion detection, and the frame
// quality gate used during extraction.
package vision

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pathwatch-data/hallway.report/internal/monitoring"
)

// Frame is one extracted video frame. Index increases monotonically in
// extraction order and Timestamp is the MM:SS position in the source.
type Frame struct {
	Index     int
	Timestamp string
	Filename  string
	Image     image.Image
}

// FrameFilename returns the canonical on-disk name for a frame at the
// given index and position in seconds: frame_<index>_<MMmSSs>.jpg.
func FrameFilename(index int, seconds float64) string {
	m := int(seconds) / 60
	s := int(seconds) % 60
	return fmt.Sprintf("frame_%d_%02dm%02ds.jpg", index, m, s)
}

// Timestamp returns the MM:SS position for a time offset in seconds.
func Timestamp(seconds float64) string {
	return fmt.Sprintf("%02d:%02d", int(seconds)/60, int(seconds)%60)
}

// TimestampFromFilename recovers the MM:SS timestamp from a canonical
// frame filename. Unparseable names yield "00:00".
func TimestampFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return "00:00"
	}
	stamp := parts[2]
	// frame_<idx>_<MMmSSs>
	if len(stamp) == 6 && stamp[2] == 'm' && stamp[5] == 's' {
		if m, err := strconv.Atoi(stamp[:2]); err == nil {
			if s, err := strconv.Atoi(stamp[3:5]); err == nil {
				return fmt.Sprintf("%02d:%02d", m, s)
			}
		}
	}
	return "00:00"
}

// IsFrameFile reports whether a directory entry looks like an extracted
// frame image.
func IsFrameFile(name string) bool {
	return strings.HasPrefix(name, "frame_") && strings.HasSuffix(name, ".jpg")
}

// LoadImage decodes a JPEG or PNG image from disk.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err := png.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode png %s: %w", filepath.Base(path), err)
		}
		return img, nil
	default:
		img, err := jpeg.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode jpeg %s: %w", filepath.Base(path), err)
		}
		return img, nil
	}
}

// LoadDirectory reads all frame_*.jpg files from dir in filename order.
// Filenames carry unpadded indices and sort lexicographically, so
// frame_10 orders before frame_2; downstream stages key on position in
// the loaded set, not on extraction order. Frames that cannot be read
// or decoded are logged and excluded; they do not abort the load.
func LoadDirectory(dir string) ([]Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && IsFrameFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	frames := make([]Frame, 0, len(names))
	for _, name := range names {
		img, err := LoadImage(filepath.Join(dir, name))
		if err != nil {
			monitoring.Warnf("failed to load frame %s: %v", name, err)
			continue
		}
		frames = append(frames, Frame{
			Index:     len(frames),
			Timestamp: TimestampFromFilename(name),
			Filename:  name,
			Image:     img,
		})
	}
	return frames, nil
}
