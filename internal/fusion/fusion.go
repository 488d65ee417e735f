// Package fusion merges annotation-service findings and model
// detections into per-frame lists of labeled bounding boxes, the visual
// layer of the final report.
package fusion

import (
	"fmt"
	"strings"

	"github.com/pathwatch-data/hallway.report/internal/annotate"
	"github.com/pathwatch-data/hallway.report/internal/detect"
	"github.com/pathwatch-data/hallway.report/internal/grid"
	"github.com/pathwatch-data/hallway.report/internal/monitoring"
	"github.com/pathwatch-data/hallway.report/internal/vision"
)

// BoundingBox is one labeled box on a frame. Source is always one of
// detect.SourceAnnotationService or detect.SourceExternalModel; the
// optional fields are populated per source.
type BoundingBox struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`

	Source   string `json:"source"`
	Severity string `json:"severity"`

	// Annotation-service boxes carry the issue's mitigation text.
	Mitigation string `json:"mitigation,omitempty"`

	// Model boxes carry the detection and severity assessment detail.
	Confidence        float64 `json:"confidence,omitempty"`
	SafetyCategory    string  `json:"safety_category,omitempty"`
	Reason            string  `json:"reason,omitempty"`
	Priority          int     `json:"priority,omitempty"`
	ImmediateAction   bool    `json:"immediate_action,omitempty"`
	HazardType        string  `json:"hazard_type,omitempty"`
	MitigationSummary string  `json:"mitigation_summary,omitempty"`
}

// FrameAnalysis carries the annotation service's free-text findings for
// a frame, passed through to the report.
type FrameAnalysis struct {
	DetailedObservations string                       `json:"detailed_observations"`
	PathwayClearance     string                       `json:"pathway_clearance"`
	EmergencyAccess      string                       `json:"emergency_access"`
	RecommendedActions   []annotate.RecommendedAction `json:"recommended_actions"`
}

// FrameResult is one analyzed frame in the final report.
type FrameResult struct {
	Time             string        `json:"time"`
	ImageURL         string        `json:"imageUrl"`
	Filename         string        `json:"filename"`
	BoundingBoxes    []BoundingBox `json:"boundingBoxes"`
	ModelDetections  int           `json:"model_detections"`
	AnnotationIssues int           `json:"annotation_issues"`
	FrameAnalysis    FrameAnalysis `json:"frame_analysis"`
}

// Result is the fused output across all frames.
type Result struct {
	Frames           []FrameResult
	IncorrectParking bool
	WasteMaterial    bool
	Explanations     []string
}

// Fuse builds one FrameResult per annotated frame. For each frame the
// annotation-service boxes come first, then the hazard-classified model
// boxes; non-hazard detections never reach the overlay. The same
// physical object may appear once per source: no cross-source
// reconciliation is attempted.
func Fuse(frames []vision.Frame, details []annotate.FrameDetail, detections [][]detect.Detection) *Result {
	byIndex := make(map[int]vision.Frame, len(frames))
	for _, f := range frames {
		byIndex[f.Index] = f
	}

	res := &Result{}
	for _, detail := range details {
		frame, ok := byIndex[detail.FrameIndex]
		if !ok {
			monitoring.Warnf("annotation for unknown frame index %d, skipping", detail.FrameIndex)
			continue
		}

		var boxes []BoundingBox
		for _, issue := range detail.SafetyIssues {
			switch issue.Type {
			case "parking", "vehicle":
				res.IncorrectParking = true
			case "waste", "debris":
				res.WasteMaterial = true
			}
			res.Explanations = append(res.Explanations,
				fmt.Sprintf("Frame %d: %s", detail.FrameIndex, issue.Description))
			boxes = append(boxes, issueBox(issue))
		}

		var frameDets []detect.Detection
		if detail.FrameIndex < len(detections) {
			frameDets = detections[detail.FrameIndex]
		}
		for _, d := range frameDets {
			if !d.PotentialHazard {
				continue
			}
			boxes = append(boxes, hazardBox(d))
		}

		res.Frames = append(res.Frames, FrameResult{
			Time:             detail.Timestamp,
			ImageURL:         "/temp/" + frame.Filename,
			Filename:         frame.Filename,
			BoundingBoxes:    boxes,
			ModelDetections:  len(frameDets),
			AnnotationIssues: len(detail.SafetyIssues),
			FrameAnalysis: FrameAnalysis{
				DetailedObservations: detail.DetailedObservations,
				PathwayClearance:     detail.PathwayClearance,
				EmergencyAccess:      detail.EmergencyAccess,
				RecommendedActions:   detail.RecommendedActions,
			},
		})
	}
	return res
}

// issueBox converts one service finding into a box via its grid cells.
func issueBox(issue annotate.SafetyIssue) BoundingBox {
	b := grid.Locate(issue.GridCells)

	issueType := issue.Type
	if issueType == "" {
		issueType = "hazard"
	}
	severity := issue.Severity
	if severity == "" {
		severity = "medium"
	}
	mitigation := issue.MitigationStrategy
	if mitigation == "" {
		mitigation = "No specific mitigation provided"
	}

	return BoundingBox{
		Label:      fmt.Sprintf("%s: %s...", issueType, truncate(issue.Description, 40)),
		X:          b.X,
		Y:          b.Y,
		W:          b.W,
		H:          b.H,
		Source:     detect.SourceAnnotationService,
		Severity:   severity,
		Mitigation: mitigation,
	}
}

// hazardBox converts one hazard-classified model detection into a box
// with its severity assessment attached.
func hazardBox(d detect.Detection) BoundingBox {
	sev := detect.AssessSeverity(d.ClassName, d.BBox)

	summary := fmt.Sprintf("Relocate %s to designated area", d.ClassName)
	if sev.ImmediateAction {
		summary = fmt.Sprintf("Remove %s from pathway immediately", d.ClassName)
	}

	return BoundingBox{
		Label:             fmt.Sprintf("%s - %s", titleCase(d.ClassName), strings.ToUpper(sev.Level)),
		X:                 d.BBox.X,
		Y:                 d.BBox.Y,
		W:                 d.BBox.W,
		H:                 d.BBox.H,
		Source:            detect.SourceExternalModel,
		Severity:          sev.Level,
		Confidence:        d.Confidence,
		SafetyCategory:    d.SafetyCategory,
		Reason:            sev.Reason,
		Priority:          sev.Priority,
		ImmediateAction:   sev.ImmediateAction,
		HazardType:        "pathway_obstruction",
		MitigationSummary: summary,
	}
}

// truncate shortens s to at most n characters, never splitting a
// multibyte character.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
