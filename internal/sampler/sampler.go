// Package sampler reduces a frame stream to a bounded, visually
// representative subset. Two strategies share one sampler: the stream
// strategy runs during extraction with access to sequential neighbours
// and motion, the list strategy runs over an already-materialized frame
// list with similarity only.
package sampler

import (
	"fmt"
	"image"

	"github.com/pathwatch-data/hallway.report/internal/monitoring"
	"github.com/pathwatch-data/hallway.report/internal/vision"
)

// Strategy selects which sampling algorithm Sample runs.
type Strategy int

const (
	// StrategyList deduplicates an already-extracted ordered frame
	// list by similarity against a bounded window of recent keeps.
	StrategyList Strategy = iota
	// StrategyStream samples a frame source at a fixed time step,
	// using motion and similarity against the last kept frame.
	StrategyStream
)

// Config holds the sampling tuning. Zero values are replaced by the
// defaults from DefaultConfig.
type Config struct {
	// Strategy picks the sampling algorithm. The zero value is
	// StrategyList, the post-extraction path.
	Strategy Strategy
	// SimilarityThreshold is the base decision boundary for "similar".
	// The stream strategy compares at threshold+0.05 so it keeps more.
	SimilarityThreshold float64
	// MotionThreshold is the motion-score gate. Motion pre-empts
	// similarity: a frame above it is always kept.
	MotionThreshold float64
	// BrightnessFloor and BlurFloor form the permissive quality gate.
	BrightnessFloor float64
	BlurFloor       float64
	// IntervalSeconds is the stream strategy's sampling step.
	IntervalSeconds float64
	// MaxFrames caps the list strategy's output.
	MaxFrames int
	// MinGap is the minimum index distance between list-strategy keeps.
	MinGap int
	// CompareWindow bounds how many recent keeps each candidate is
	// compared against, keeping the list strategy near-linear.
	CompareWindow int
}

// DefaultConfig returns the standard sampling configuration.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.70,
		MotionThreshold:     800,
		BrightnessFloor:     15,
		BlurFloor:           25,
		IntervalSeconds:     1,
		MaxFrames:           12,
		MinGap:              1,
		CompareWindow:       3,
	}
}

// listSimilarityThreshold is the stricter boundary used by the list
// strategy, which sees frames that already survived extraction.
const listSimilarityThreshold = 0.88

// FrameListSource adapts an already-extracted frame list to Source,
// treating consecutive frames as one interval apart.
type FrameListSource []vision.Frame

// Duration implements Source.
func (f FrameListSource) Duration() float64 { return float64(len(f)) }

// FrameAt implements Source.
func (f FrameListSource) FrameAt(seconds float64) (image.Image, error) {
	i := int(seconds)
	if i < 0 || i >= len(f) {
		return nil, fmt.Errorf("no frame at %.1fs", seconds)
	}
	if f[i].Image == nil {
		return nil, fmt.Errorf("frame %d has no image data", i)
	}
	return f[i].Image, nil
}

// Source yields timestamped raster frames on demand. Video decoding is
// behind this interface; the sampler never touches pixels directly.
type Source interface {
	// Duration returns the stream length in seconds.
	Duration() float64
	// FrameAt returns the frame at the given offset. An error excludes
	// that offset without aborting the sweep.
	FrameAt(seconds float64) (image.Image, error)
}

// Sampler selects representative frames using a similarity scorer and
// motion detector.
type Sampler struct {
	cfg    Config
	scorer *vision.SimilarityScorer
	motion vision.MotionDetector

	// Log, when set, records per-candidate scores for plotting.
	Log *ScoreLog
}

// New returns a Sampler for the given configuration. Zero-valued
// tunables are filled from DefaultConfig.
func New(cfg Config) *Sampler {
	def := DefaultConfig()
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = def.SimilarityThreshold
	}
	if cfg.MotionThreshold == 0 {
		cfg.MotionThreshold = def.MotionThreshold
	}
	if cfg.BrightnessFloor == 0 {
		cfg.BrightnessFloor = def.BrightnessFloor
	}
	if cfg.BlurFloor == 0 {
		cfg.BlurFloor = def.BlurFloor
	}
	if cfg.IntervalSeconds == 0 {
		cfg.IntervalSeconds = def.IntervalSeconds
	}
	if cfg.MaxFrames == 0 {
		cfg.MaxFrames = def.MaxFrames
	}
	if cfg.MinGap == 0 {
		cfg.MinGap = def.MinGap
	}
	if cfg.CompareWindow == 0 {
		cfg.CompareWindow = def.CompareWindow
	}
	return &Sampler{
		cfg:    cfg,
		scorer: vision.NewSimilarityScorer(cfg.SimilarityThreshold),
	}
}

// Sample runs the configured strategy over an ordered frame list. The
// stream strategy consumes the list through a FrameListSource, so its
// output carries regenerated canonical filenames.
func (s *Sampler) Sample(frames []vision.Frame) []vision.Frame {
	if s.cfg.Strategy == StrategyStream {
		return s.SampleStream(FrameListSource(frames))
	}
	return s.SampleList(frames)
}

// SampleStream walks src at the configured time step and returns the
// kept frames. Retention logic, in order: quality gate, keep-first,
// motion gate, then similarity with a periodic keep of every third
// consecutive similar frame so static scenes retain baseline coverage.
func (s *Sampler) SampleStream(src Source) []vision.Frame {
	var kept []vision.Frame
	var lastKept image.Image
	similarRun := 0
	skipped := 0

	duration := src.Duration()
	for t := 0.0; t < duration; t += s.cfg.IntervalSeconds {
		img, err := src.FrameAt(t)
		if err != nil {
			monitoring.Warnf("could not read frame at %.1fs: %v", t, err)
			continue
		}
		if !vision.QualityAcceptable(img, s.cfg.BrightnessFloor, s.cfg.BlurFloor) {
			monitoring.Debugf("unusable frame at %.1fs, skipping", t)
			continue
		}

		keep := true
		if lastKept != nil {
			motionScore := s.motion.Score(lastKept, img)
			simScore := s.scorer.Score(lastKept, img)
			s.Log.Add(t, simScore, motionScore)

			switch {
			case motionScore > s.cfg.MotionThreshold:
				monitoring.Debugf("motion %.0f at %.1fs, keeping frame", motionScore, t)
				similarRun = 0
			case simScore > s.cfg.SimilarityThreshold+0.05:
				// Keep every third consecutive similar frame anyway so
				// static scenes retain baseline temporal coverage.
				if similarRun%3 == 2 {
					monitoring.Debugf("periodic keep of similar frame at %.1fs", t)
				} else {
					keep = false
					skipped++
				}
				similarRun++
			default:
				similarRun = 0
			}
		} else {
			s.Log.Add(t, 0, 0)
		}

		if keep {
			index := len(kept)
			kept = append(kept, vision.Frame{
				Index:     index,
				Timestamp: vision.Timestamp(t),
				Filename:  vision.FrameFilename(index, t),
				Image:     img,
			})
			lastKept = img
		}
	}

	monitoring.Logf("stream sampling kept %d frames, skipped %d similar", len(kept), skipped)
	return kept
}

// SampleList deduplicates an ordered frame list. Frame 0 is always
// retained. If the primary pass fails for any reason the sampler falls
// back to pure stride sampling, and any cap violation shrinks via
// further stride sampling so temporal coverage is preserved.
func (s *Sampler) SampleList(frames []vision.Frame) []vision.Frame {
	if len(frames) == 0 {
		return nil
	}

	selected, err := s.dedupeList(frames)
	if err != nil {
		monitoring.Warnf("similarity filtering failed, using stride sampling: %v", err)
		selected = strideBands(frames, s.cfg.MaxFrames)
	}
	if len(selected) > s.cfg.MaxFrames {
		selected = stride(selected, s.cfg.MaxFrames)
	}
	return selected
}

func (s *Sampler) dedupeList(frames []vision.Frame) ([]vision.Frame, error) {
	unique := []vision.Frame{frames[0]}
	lastSelected := 0

	for i := 1; i < len(frames); i++ {
		if frames[i].Image == nil {
			return nil, fmt.Errorf("frame %d has no image data", i)
		}
		if i-lastSelected < s.cfg.MinGap {
			continue
		}

		recent := unique
		if len(recent) > s.cfg.CompareWindow {
			recent = recent[len(recent)-s.cfg.CompareWindow:]
		}

		isUnique := true
		maxScore := 0.0
		for _, u := range recent {
			score := s.scorer.Score(u.Image, frames[i].Image)
			if score > maxScore {
				maxScore = score
			}
			if score > listSimilarityThreshold {
				isUnique = false
				break
			}
		}
		s.Log.Add(float64(i), maxScore, 0)
		if isUnique {
			unique = append(unique, frames[i])
			lastSelected = i
		}
	}

	monitoring.Logf("similarity filtering: %d -> %d frames", len(frames), len(unique))
	return unique, nil
}

// stride uniformly subsamples list down to at most max entries.
func stride(list []vision.Frame, max int) []vision.Frame {
	if len(list) <= max {
		return list
	}
	step := len(list) / max
	if step < 1 {
		step = 1
	}
	out := make([]vision.Frame, 0, max)
	for i := 0; i < len(list) && len(out) < max; i += step {
		out = append(out, list[i])
	}
	return out
}

// strideBands is the unconditional fallback: a stride chosen from
// total-count bands, capped at max.
func strideBands(frames []vision.Frame, max int) []vision.Frame {
	n := len(frames)
	var step int
	switch {
	case n <= 5:
		return frames
	case n <= 15:
		step = 3
	case n <= 30:
		step = 5
	default:
		step = n / max
		if step < 4 {
			step = 4
		}
	}
	out := make([]vision.Frame, 0, max)
	for i := 0; i < n && len(out) < max; i += step {
		out = append(out, frames[i])
	}
	return out
}
