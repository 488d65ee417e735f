// Package dataset persists analysis runs: a per-identity cache
// directory with the result JSON, annotated images and metadata, plus a
// sqlite run history.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pathwatch-data/hallway.report/internal/fusion"
	"github.com/pathwatch-data/hallway.report/internal/monitoring"
	"github.com/pathwatch-data/hallway.report/internal/report"
	"github.com/pathwatch-data/hallway.report/internal/vision"
)

// Identity derives the dataset name for a run: the video base name if
// known, else the frame directory's base name, else the job id. The
// result is sanitized to alphanumerics plus "-", "_" and ".".
func Identity(videoPath, framesDir, jobID string) string {
	var base string
	switch {
	case videoPath != "":
		base = strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	case framesDir != "":
		abs, err := filepath.Abs(framesDir)
		if err != nil {
			abs = framesDir
		}
		base = filepath.Base(abs)
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = jobID
	}
	return sanitize(base)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Metadata describes one persisted dataset.
type Metadata struct {
	VideoPath       string   `json:"video_path"`
	FramesSourceDir string   `json:"frames_source_dir"`
	DatasetDir      string   `json:"dataset_dir"`
	CreatedAt       string   `json:"created_at"`
	JobID           string   `json:"job_id"`
	FrameFiles      []string `json:"unique_frame_files"`
	ImageFormat     string   `json:"image_format"`
}

// indexEntry is one record in the root-level index.json.
type indexEntry struct {
	VideoPath    string `json:"video_path"`
	DatasetDir   string `json:"dataset_dir"`
	AnalysisPath string `json:"analysis_path"`
	ImagesDir    string `json:"images_dir"`
	UpdatedAt    string `json:"updated_at"`
}

// Cache stores one dataset directory per identity under Root and keeps
// a global index mapping identity to dataset location. No cross-process
// locking is performed: concurrent runs against the same identity can
// race.
type Cache struct {
	Root string
}

// EntryDir returns the dataset directory for an identity.
func (c *Cache) EntryDir(identity string) string {
	return filepath.Join(c.Root, identity)
}

// Load returns the cached result for identity, or false if no readable
// cache entry exists. The entry is returned verbatim: there is no
// staleness check against the underlying frames.
func (c *Cache) Load(identity string) (*report.Result, bool) {
	path := filepath.Join(c.Root, identity, "analysis.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var res report.Result
	if err := json.Unmarshal(data, &res); err != nil {
		monitoring.Warnf("cached analysis at %s is unreadable, recomputing: %v", path, err)
		return nil, false
	}
	monitoring.Logf("using cached analysis at %s", path)
	return &res, true
}

// Store persists a completed run under identity: analysis.json, one
// annotated PNG per frame, metadata.json, and the updated global index.
// Existing entries are fully overwritten, never patched.
func (c *Cache) Store(identity string, res *report.Result, meta Metadata, frames []vision.Frame, boxesByFilename map[string][]fusion.BoundingBox) error {
	dir := filepath.Join(c.Root, identity)
	imagesDir := filepath.Join(dir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	analysisPath := filepath.Join(dir, "analysis.json")
	if err := writeJSON(analysisPath, res); err != nil {
		return err
	}

	for _, f := range frames {
		if f.Image == nil {
			continue
		}
		name := strings.TrimSuffix(f.Filename, filepath.Ext(f.Filename)) + ".png"
		if err := WriteAnnotatedPNG(filepath.Join(imagesDir, name), f.Image, boxesByFilename[f.Filename]); err != nil {
			monitoring.Warnf("could not write annotated image %s: %v", name, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if meta.CreatedAt == "" {
		meta.CreatedAt = now
	}
	meta.DatasetDir = dir
	meta.ImageFormat = "png"
	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return err
	}

	if err := c.updateIndex(identity, indexEntry{
		VideoPath:    meta.VideoPath,
		DatasetDir:   dir,
		AnalysisPath: analysisPath,
		ImagesDir:    imagesDir,
		UpdatedAt:    now,
	}); err != nil {
		return err
	}

	monitoring.Logf("saved dataset to %s", dir)
	return nil
}

// updateIndex merges one entry into index.json. A corrupt index is
// replaced rather than failing the run.
func (c *Cache) updateIndex(identity string, entry indexEntry) error {
	path := filepath.Join(c.Root, "index.json")

	index := map[string]indexEntry{}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &index); err != nil {
			monitoring.Warnf("dataset index is corrupt, rebuilding: %v", err)
			index = map[string]indexEntry{}
		}
	}
	index[identity] = entry
	return writeJSON(path, index)
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
