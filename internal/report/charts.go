package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// severityOrder fixes the bar ordering in the summary chart.
var severityOrder = []string{"critical", "high", "medium", "low"}

// WriteSummaryChart renders an HTML page with two bar charts: hazard
// boxes per severity and boxes per frame. Returns the written path.
func WriteSummaryChart(dir string, a *Analysis) (string, error) {
	if a == nil {
		return "", fmt.Errorf("no analysis to chart")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}

	page := components.NewPage()
	page.SetPageTitle("Hallway Safety Analysis")
	page.AddCharts(severityChart(a), perFrameChart(a))

	path := filepath.Join(dir, "charts.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return "", fmt.Errorf("render charts: %w", err)
	}
	return path, nil
}

func severityChart(a *Analysis) *charts.Bar {
	counts := make(map[string]int)
	for _, frame := range a.Frames {
		for _, box := range frame.BoundingBoxes {
			counts[box.Severity]++
		}
	}

	values := make([]opts.BarData, len(severityOrder))
	for i, sev := range severityOrder {
		values[i] = opts.BarData{Value: counts[sev]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Hazards by Severity"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(severityOrder)
	bar.AddSeries("hazards", values)
	return bar
}

func perFrameChart(a *Analysis) *charts.Bar {
	labels := make([]string, len(a.Frames))
	values := make([]opts.BarData, len(a.Frames))
	for i, frame := range a.Frames {
		labels[i] = frame.Time
		values[i] = opts.BarData{Value: len(frame.BoundingBoxes)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Hazard Boxes per Frame"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("boxes", values)
	return bar
}
