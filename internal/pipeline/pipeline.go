// Package pipeline wires the full analysis: frame loading, sampling,
// detection, batch annotation, fusion, mitigation synthesis and dataset
// persistence. Execution is single-threaded and batch-sequential.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/pathwatch-data/hallway.report/internal/annotate"
	"github.com/pathwatch-data/hallway.report/internal/dataset"
	"github.com/pathwatch-data/hallway.report/internal/detect"
	"github.com/pathwatch-data/hallway.report/internal/fusion"
	"github.com/pathwatch-data/hallway.report/internal/mitigation"
	"github.com/pathwatch-data/hallway.report/internal/monitoring"
	"github.com/pathwatch-data/hallway.report/internal/report"
	"github.com/pathwatch-data/hallway.report/internal/sampler"
	"github.com/pathwatch-data/hallway.report/internal/vision"
)

// Options configures one analysis run. There is no process-wide state:
// everything the run needs is passed here explicitly.
type Options struct {
	// FramesDir is the directory of extracted frame_*.jpg files.
	FramesDir string
	// APIKey authenticates against the annotation service. Required
	// unless a custom Annotator is supplied.
	APIKey string
	// JobID identifies the run and is the dataset-identity fallback.
	JobID string
	// VideoPath, when known, names the dataset after the source video.
	VideoPath string
	// DatasetRoot is where cached datasets live. Default "datasets".
	DatasetRoot string
	// RunDBPath, when set, appends this run to the sqlite run history.
	RunDBPath string

	// Detector is the external object-detection capability. Nil means
	// unavailable: detection-dependent steps yield empty results.
	Detector detect.Detector
	// Annotator overrides the annotation-service client, mainly for
	// tests.
	Annotator annotate.Service

	// Sampling overrides the frame-sampling tuning. Zero values take
	// defaults.
	Sampling sampler.Config
	// BaseConfidence is the detection confidence floor. Default 0.10.
	BaseConfidence float64
}

// Analyze runs the pipeline end to end. It never panics outward: every
// outcome, including hard precondition failures, is a structured
// Result.
func Analyze(ctx context.Context, opts Options) *report.Result {
	if opts.DatasetRoot == "" {
		opts.DatasetRoot = "datasets"
	}
	if opts.BaseConfidence == 0 {
		opts.BaseConfidence = 0.10
	}
	if opts.Detector == nil {
		opts.Detector = detect.NullDetector{}
	}

	if opts.FramesDir == "" {
		return report.Failure("frames directory not specified")
	}
	if info, err := os.Stat(opts.FramesDir); err != nil || !info.IsDir() {
		return report.Failure(fmt.Sprintf("frames directory does not exist: %s", opts.FramesDir))
	}
	if opts.Annotator == nil {
		if opts.APIKey == "" {
			return report.Failure("annotation service credential not provided")
		}
		opts.Annotator = annotate.NewClient(opts.APIKey)
	}

	identity := dataset.Identity(opts.VideoPath, opts.FramesDir, opts.JobID)
	cache := &dataset.Cache{Root: opts.DatasetRoot}
	if cached, ok := cache.Load(identity); ok {
		return cached
	}

	frames, err := vision.LoadDirectory(opts.FramesDir)
	if err != nil {
		return report.Failure(fmt.Sprintf("could not read frames: %v", err))
	}
	total := len(frames)
	if total == 0 {
		return report.Failure("no frame files found in directory")
	}

	smp := sampler.New(opts.Sampling)
	smp.Log = &sampler.ScoreLog{}
	sampled := smp.Sample(frames)
	unique := len(sampled)
	monitoring.Logf("analyzing %d of %d frames for %s", unique, total, identity)

	// Downstream stages address frames by position in the sampled set.
	for i := range sampled {
		sampled[i].Index = i
	}

	classifier := detect.NewHazardClassifier()
	detections := make([][]detect.Detection, unique)
	for i, f := range sampled {
		detections[i] = detect.Run(ctx, opts.Detector, f.Image, classifier, opts.BaseConfidence)
	}

	orchestrator := &annotate.Orchestrator{Service: opts.Annotator}
	details := orchestrator.Run(ctx, sampled, detections)

	fused := fusion.Fuse(sampled, details, detections)

	var flat []detect.Detection
	hazardous := 0
	for _, dets := range detections {
		for _, d := range dets {
			flat = append(flat, d)
			if d.PotentialHazard {
				hazardous++
			}
		}
	}

	strategies := mitigation.Synthesize(flat, fused.IncorrectParking, fused.WasteMaterial)

	analysis := &report.Analysis{
		IncorrectParking:     fused.IncorrectParking,
		WasteMaterial:        fused.WasteMaterial,
		Explanation:          report.CombinedExplanation(unique, total, fused.Explanations),
		FrameDetails:         details,
		Frames:               fused.Frames,
		MitigationStrategies: strategies,
		Violations:           []string{},
		Statistics:           report.BuildStatistics(unique, len(flat), hazardous, details, fused.Frames),
	}

	res := &report.Result{
		Success:            true,
		Analysis:           analysis,
		FramesAnalyzed:     unique,
		TotalFrames:        total,
		UniqueFrames:       unique,
		SimilarityFiltered: total - unique,
		ModelDetections:    len(flat),
		HazardousObjects:   hazardous,
		Method:             report.Method,
		DetectionMethods: report.DetectionMethods{
			ModelAvailable:      opts.Detector.Available(),
			GridAnalysis:        true,
			SimilarityFiltering: true,
		},
	}

	persist(cache, identity, res, opts, sampled, fused, smp.Log)
	return res
}

// persist writes the dataset entry, summary charts, sampling score
// plots and run history. Persistence failures degrade the run to
// unpersisted, never failed.
func persist(cache *dataset.Cache, identity string, res *report.Result, opts Options, sampled []vision.Frame, fused *fusion.Result, scores *sampler.ScoreLog) {
	boxes := make(map[string][]fusion.BoundingBox, len(fused.Frames))
	for _, f := range fused.Frames {
		boxes[f.Filename] = f.BoundingBoxes
	}

	frameFiles := make([]string, len(sampled))
	for i, f := range sampled {
		frameFiles[i] = f.Filename
	}

	meta := dataset.Metadata{
		VideoPath:       opts.VideoPath,
		FramesSourceDir: opts.FramesDir,
		JobID:           opts.JobID,
		FrameFiles:      frameFiles,
	}
	if err := cache.Store(identity, res, meta, sampled, boxes); err != nil {
		monitoring.Warnf("failed to persist dataset: %v", err)
		return
	}

	if _, err := report.WriteSummaryChart(cache.EntryDir(identity), res.Analysis); err != nil {
		monitoring.Warnf("failed to write summary chart: %v", err)
	}

	if err := scores.WritePlots(cache.EntryDir(identity)); err != nil {
		monitoring.Warnf("failed to write sampling plots: %v", err)
	}

	if opts.RunDBPath != "" {
		store, err := dataset.OpenRunStore(opts.RunDBPath)
		if err != nil {
			monitoring.Warnf("failed to open run store: %v", err)
			return
		}
		defer store.Close()
		if _, err := store.RecordRun(identity, res); err != nil {
			monitoring.Warnf("failed to record run: %v", err)
		}
	}
}
