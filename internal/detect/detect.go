// Package detect post-processes object detections for the hallway
// safety pipeline. The detection model itself is an external
// capability; this package normalizes its raw output, filters
// implausible boxes, merges near-duplicates and decides which
// detections constitute pathway hazards.
package detect

import (
	"context"
	"fmt"
	"image"
)

// Detection sources, recorded on every fused bounding box.
const (
	SourceExternalModel     = "external_model"
	SourceAnnotationService = "annotation_service"
)

// Box is a normalized bounding box: all fields are fractions of the
// frame size, origin top-left. Invariant: X+W <= 1 and Y+H <= 1.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the box midpoint.
func (b Box) Center() (x, y float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Area returns the box area as a fraction of the frame.
func (b Box) Area() float64 {
	return b.W * b.H
}

// RawDetection is one detection as produced by the external model:
// class label, confidence and a pixel-space box (corner coordinates).
type RawDetection struct {
	ClassName  string
	Confidence float64
	X1, Y1     float64
	X2, Y2     float64
}

// Detection is a normalized, categorized detection.
type Detection struct {
	ClassName       string  `json:"class_name"`
	Confidence      float64 `json:"confidence"`
	BBox            Box     `json:"bbox"`
	SafetyCategory  string  `json:"safety_category"`
	PotentialHazard bool    `json:"potential_hazard"`
	ModelVariant    string  `json:"model_used,omitempty"`
	DetectionID     string  `json:"detection_id,omitempty"`
}

// Detector is the external object-detection capability. Given an image,
// a confidence floor and an IoU-based redundancy floor it returns raw
// detections. Available reports whether the capability is installed;
// when it is not, detection-dependent steps degrade to empty results.
type Detector interface {
	Detect(ctx context.Context, img image.Image, minConfidence, iouFloor float64) ([]RawDetection, error)
	Available() bool
}

// NullDetector is the detector used when no detection capability is
// configured. It is never available and always detects nothing.
type NullDetector struct{}

// Detect implements Detector with empty results.
func (NullDetector) Detect(context.Context, image.Image, float64, float64) ([]RawDetection, error) {
	return nil, nil
}

// Available implements Detector.
func (NullDetector) Available() bool { return false }

// VariantConfig names one model variant pass and the scale applied to
// the base confidence floor for that pass. Later, larger variants run
// with progressively lower floors to catch what the fast pass missed.
type VariantConfig struct {
	Name            string
	ConfidenceScale float64
}

// DefaultVariants is the standard three-pass detection schedule.
var DefaultVariants = []VariantConfig{
	{Name: "nano", ConfidenceScale: 1.0},
	{Name: "small", ConfidenceScale: 0.8},
	{Name: "medium", ConfidenceScale: 0.7},
}

// DetectionID derives a stable identity string for a detection from its
// class and position.
func DetectionID(class string, b Box) string {
	return fmt.Sprintf("%s_%.3f_%.3f", class, b.X, b.Y)
}
