// Package report assembles the final analysis result: the JSON
// contract emitted to callers plus an optional HTML summary chart.
package report

import (
	"fmt"
	"strings"

	"github.com/pathwatch-data/hallway.report/internal/annotate"
	"github.com/pathwatch-data/hallway.report/internal/fusion"
	"github.com/pathwatch-data/hallway.report/internal/mitigation"
)

// Method names the analysis pipeline in the emitted report.
const Method = "Enhanced Detection (Vision + Grid Analysis)"

// Result is the top-level report object. Every run, successful or not,
// terminates in one of these so callers can always parse the output.
type Result struct {
	Success            bool             `json:"success"`
	Error              string           `json:"error,omitempty"`
	Analysis           *Analysis        `json:"analysis,omitempty"`
	FramesAnalyzed     int              `json:"frames_analyzed"`
	TotalFrames        int              `json:"total_frames"`
	UniqueFrames       int              `json:"unique_frames"`
	SimilarityFiltered int              `json:"similarity_filtered"`
	ModelDetections    int              `json:"model_detections"`
	HazardousObjects   int              `json:"hazardous_objects"`
	Method             string           `json:"method"`
	DetectionMethods   DetectionMethods `json:"detection_methods"`
}

// Analysis is the successful-run payload.
type Analysis struct {
	IncorrectParking     bool                   `json:"incorrectParking"`
	WasteMaterial        bool                   `json:"wasteMaterial"`
	Explanation          string                 `json:"explanation"`
	FrameDetails         []annotate.FrameDetail `json:"frameDetails"`
	Frames               []fusion.FrameResult   `json:"frames"`
	MitigationStrategies []mitigation.Strategy  `json:"mitigationStrategies"`
	Violations           []string               `json:"violations"`
	Statistics           Statistics             `json:"statistics"`
}

// Statistics summarizes the run numerically.
type Statistics struct {
	TotalFramesAnalyzed   int `json:"total_frames_analyzed"`
	TotalModelObjects     int `json:"total_model_objects"`
	TotalHazardousObjects int `json:"total_hazardous_objects"`
	TotalAnnotationIssues int `json:"total_annotation_issues"`
	FramesWithIssues      int `json:"frames_with_issues"`
}

// DetectionMethods records which capabilities contributed to the run.
type DetectionMethods struct {
	ModelAvailable      bool `json:"model_available"`
	GridAnalysis        bool `json:"grid_analysis"`
	SimilarityFiltering bool `json:"similarity_filtering"`
}

// Failure builds the structured failure result.
func Failure(reason string) *Result {
	return &Result{
		Success: false,
		Error:   reason,
		Method:  Method,
	}
}

// CombinedExplanation builds the run-level explanation text from the
// per-issue explanations accumulated during fusion.
func CombinedExplanation(uniqueFrames, totalFrames int, explanations []string) string {
	if len(explanations) == 0 {
		return fmt.Sprintf("Analyzed %d unique frames - no safety violations detected.", uniqueFrames)
	}
	return fmt.Sprintf(
		"Comprehensive analysis of %d unique frames using combined object detection and grid-based analysis (filtered from %d total frames). %s",
		uniqueFrames, totalFrames, strings.Join(explanations, "; "))
}

// BuildStatistics derives the run statistics from the fused frames.
func BuildStatistics(framesAnalyzed, totalModelObjects, totalHazardous int, details []annotate.FrameDetail, fused []fusion.FrameResult) Statistics {
	totalIssues := 0
	for _, d := range details {
		totalIssues += len(d.SafetyIssues)
	}
	withIssues := 0
	for _, f := range fused {
		if len(f.BoundingBoxes) > 0 {
			withIssues++
		}
	}
	return Statistics{
		TotalFramesAnalyzed:   framesAnalyzed,
		TotalModelObjects:     totalModelObjects,
		TotalHazardousObjects: totalHazardous,
		TotalAnnotationIssues: totalIssues,
		FramesWithIssues:      withIssues,
	}
}
