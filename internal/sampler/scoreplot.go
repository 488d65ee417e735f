package sampler

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ScoreSample is one candidate frame's similarity and motion score.
type ScoreSample struct {
	Seconds    float64
	Similarity float64
	Motion     float64
}

// ScoreLog accumulates per-candidate scores during a sampling run so
// the retention behaviour can be inspected after the fact. A nil log
// records nothing.
type ScoreLog struct {
	samples []ScoreSample
}

// Add records one candidate's scores.
func (l *ScoreLog) Add(seconds, similarity, motion float64) {
	if l == nil {
		return
	}
	l.samples = append(l.samples, ScoreSample{Seconds: seconds, Similarity: similarity, Motion: motion})
}

// Samples returns the recorded samples in arrival order.
func (l *ScoreLog) Samples() []ScoreSample {
	if l == nil {
		return nil
	}
	return l.samples
}

// WritePlots renders the similarity and motion series as two PNG line
// plots in dir. Nothing is written for an empty log.
func (l *ScoreLog) WritePlots(dir string) error {
	if l == nil || len(l.samples) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}

	sim := make(plotter.XYs, len(l.samples))
	mot := make(plotter.XYs, len(l.samples))
	for i, s := range l.samples {
		sim[i] = plotter.XY{X: s.Seconds, Y: s.Similarity}
		mot[i] = plotter.XY{X: s.Seconds, Y: s.Motion}
	}

	if err := writeLinePlot(filepath.Join(dir, "sampling_similarity.png"),
		"Frame Similarity", "Time (s)", "Score", sim, color.RGBA{R: 31, G: 119, B: 180, A: 255}); err != nil {
		return err
	}
	return writeLinePlot(filepath.Join(dir, "sampling_motion.png"),
		"Motion Score", "Time (s)", "Area", mot, color.RGBA{R: 214, G: 39, B: 40, A: 255})
}

func writeLinePlot(path, title, xLabel, yLabel string, xys plotter.XYs, c color.Color) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("build line series: %w", err)
	}
	line.Color = c
	p.Add(line, plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", filepath.Base(path), err)
	}
	return nil
}
