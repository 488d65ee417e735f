package detect

import "strings"

// Severity levels in decreasing order of urgency.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Severity describes how serious a confirmed hazard is.
type Severity struct {
	Level           string `json:"severity"`
	Reason          string `json:"reason"`
	Priority        int    `json:"priority"`
	ImmediateAction bool   `json:"immediate_action"`
}

// thresholdTier maps a keyword group to its adaptive confidence floor.
type thresholdTier struct {
	threshold float64
	keywords  []string
}

// Adaptive confidence floors. Safety-critical classes get lower floors
// (catch more), small portable items higher ones (fewer false alarms).
var thresholdTiers = []thresholdTier{
	{0.20, []string{"car", "truck", "forklift", "vehicle", "bicycle"}},
	{0.25, []string{"table", "desk", "cabinet", "ladder", "cart", "box", "container"}},
	{0.35, []string{"person", "chair", "bag", "bottle", "phone"}},
}

// defaultThreshold applies to classes outside every tier.
const defaultThreshold = 0.30

// criticalHazardGroups are the only object groups treated as pathway
// hazards. Anything else, however confident, is not a hazard.
var criticalHazardGroups = [][]string{
	{"car", "truck", "bus", "motorcycle", "bicycle", "motorbike"}, // vehicles
	{"table", "desk", "cabinet", "shelf", "couch", "wardrobe"},    // blocking furniture
	{"box", "container", "barrel", "bin", "crate", "pallet"},      // large containers
	{"ladder", "cart", "trolley", "machine", "forklift"},          // misplaced equipment
}

// Pathway zone. Hazards whose centers fall outside it are assumed to be
// wall-mounted or background objects, not pathway obstructions.
const (
	pathwayXMin = 0.2
	pathwayXMax = 0.8
	pathwayYMin = 0.3
	pathwayYMax = 0.9
)

// HazardClassifier decides which detections are pathway hazards and how
// severe they are. BaseThreshold is the caller-supplied confidence
// floor; the effective floor per class is the maximum of this and the
// class's adaptive threshold.
type HazardClassifier struct {
	BaseThreshold float64
}

// NewHazardClassifier returns a classifier with the standard base
// confidence floor.
func NewHazardClassifier() *HazardClassifier {
	return &HazardClassifier{BaseThreshold: 0.20}
}

// AdaptiveThreshold returns the per-class minimum confidence below
// which a detection is never treated as a hazard.
func AdaptiveThreshold(className string) float64 {
	lower := strings.ToLower(className)
	for _, tier := range thresholdTiers {
		if containsAny(lower, tier.keywords...) {
			return tier.threshold
		}
	}
	return defaultThreshold
}

// IsHazard reports whether a detection constitutes a pathway hazard:
// confidence at or above the effective threshold, class within a
// critical hazard group, and box center inside the pathway zone.
func (c *HazardClassifier) IsHazard(className string, confidence float64, box Box) bool {
	effective := AdaptiveThreshold(className)
	if c.BaseThreshold > effective {
		effective = c.BaseThreshold
	}
	if confidence < effective {
		return false
	}

	lower := strings.ToLower(className)
	for _, group := range criticalHazardGroups {
		if containsAny(lower, group...) {
			cx, cy := box.Center()
			if cx >= pathwayXMin && cx <= pathwayXMax && cy >= pathwayYMin && cy <= pathwayYMax {
				return true
			}
		}
	}
	return false
}

// AssessSeverity assigns a severity to a confirmed hazard from its
// class, size and position. Apply only to detections IsHazard accepted.
func AssessSeverity(className string, box Box) Severity {
	lower := strings.ToLower(className)
	area := box.Area()

	if containsAny(lower, "car", "truck", "bus", "motorcycle", "bicycle") {
		return Severity{
			Level:           SeverityCritical,
			Reason:          "Vehicle blocking emergency access",
			Priority:        1,
			ImmediateAction: true,
		}
	}
	if area > 0.1 {
		return Severity{
			Level:           SeverityHigh,
			Reason:          "Large object blocking significant pathway area",
			Priority:        2,
			ImmediateAction: true,
		}
	}
	cx, _ := box.Center()
	if cx >= 0.3 && cx <= 0.7 && area > 0.05 {
		return Severity{
			Level:           SeverityMedium,
			Reason:          "Object in main pathway area",
			Priority:        3,
			ImmediateAction: false,
		}
	}
	return Severity{
		Level:           SeverityLow,
		Reason:          "Minor pathway obstruction",
		Priority:        4,
		ImmediateAction: false,
	}
}
