package detect

import "strings"

// categoryRule associates a safety category with its ordered match
// keywords. Matching is case-insensitive substring search; the first
// matching category wins.
type categoryRule struct {
	category string
	keywords []string
}

// safetyCategories is the fixed category table. Order matters: it
// defines match precedence.
var safetyCategories = []categoryRule{
	{"vehicle", []string{"car", "truck", "bus", "motorcycle", "bicycle"}},
	{"person", []string{"person"}},
	{"equipment", []string{"chair", "desk", "table", "laptop", "monitor", "keyboard"}},
	{"container", []string{"bottle", "cup", "bowl", "box", "suitcase", "handbag", "backpack"}},
	{"obstacles", []string{"bench", "potted plant", "vase", "sports ball"}},
	{"waste", []string{"trash", "recycling", "garbage"}},
	{"warning", []string{"stop sign", "traffic light", "fire hydrant"}},
	{"structure", []string{"door", "window", "wall"}},
}

// SafetyCategory returns the safety category for a class name, or
// "other" when no keyword matches.
func SafetyCategory(className string) string {
	lower := strings.ToLower(className)
	for _, rule := range safetyCategories {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return "other"
}

// Normalize converts a raw pixel-space detection into a categorized
// normalized detection. The second return value is false when the
// detection fails the plausibility gates and must be discarded.
func Normalize(raw RawDetection, frameWidth, frameHeight int) (Detection, bool) {
	if frameWidth <= 0 || frameHeight <= 0 {
		return Detection{}, false
	}
	box := Box{
		X: raw.X1 / float64(frameWidth),
		Y: raw.Y1 / float64(frameHeight),
		W: (raw.X2 - raw.X1) / float64(frameWidth),
		H: (raw.Y2 - raw.Y1) / float64(frameHeight),
	}
	if !realistic(raw.ClassName, box, raw.Confidence) {
		return Detection{}, false
	}
	return Detection{
		ClassName:      raw.ClassName,
		Confidence:     raw.Confidence,
		BBox:           box,
		SafetyCategory: SafetyCategory(raw.ClassName),
		DetectionID:    DetectionID(raw.ClassName, box),
	}, true
}

// realistic filters detections with implausible size or position.
func realistic(className string, box Box, confidence float64) bool {
	area := box.Area()
	lower := strings.ToLower(className)

	// Global size gates as fractions of the frame.
	if area < 0.001 || area > 0.5 {
		return false
	}

	// Class-specific plausible-area bands.
	if containsAny(lower, "car", "truck", "bus") {
		if area < 0.01 || area > 0.4 {
			return false
		}
	}
	if strings.Contains(lower, "person") {
		if area < 0.005 || area > 0.2 {
			return false
		}
	}

	// Near-edge detections are usually partial, cut-off objects; keep
	// them only with high confidence rather than banning them outright.
	cx, cy := box.Center()
	if cx < 0.05 || cx > 0.95 || cy < 0.05 || cy > 0.95 {
		if confidence < 0.7 {
			return false
		}
	}
	return true
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
