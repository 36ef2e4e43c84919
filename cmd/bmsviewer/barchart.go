package main

import (
	"bytes"
	"fmt"
	"image"
	png "image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Treystu/BMSview-sub013/src/analytics"
	"github.com/Treystu/BMSview-sub013/src/logging"
)

// renderBaselineChart draws the per-hour-of-day baseline from an analytics
// summary as a bar chart. Returns nil when there is nothing to plot.
func renderBaselineChart(sum *analytics.Summary, width, height int) image.Image {
	if sum == nil || len(sum.Baseline) == 0 {
		return nil
	}
	bars := make([]chart.Value, 0, len(sum.Baseline))
	for _, bp := range sum.Baseline {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%02d", bp.HourOfDay),
			Value: bp.Value,
		})
	}
	bc := chart.BarChart{
		Title:    fmt.Sprintf("Hourly baseline: %s", sum.System),
		Width:    width,
		Height:   height,
		BarWidth: barWidthFor(width, len(bars)),
		Background: chart.Style{
			FillColor: drawing.ColorFromHex("121212"),
			FontColor: drawing.ColorFromHex("e0e0e0"),
		},
		Canvas: chart.Style{FillColor: drawing.ColorFromHex("121212")},
		XAxis:  chart.Style{FontColor: drawing.ColorFromHex("9e9e9e")},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: drawing.ColorFromHex("9e9e9e")},
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		logging.Warnf("baseline chart render: %v", err)
		return nil
	}
	img, err := png.Decode(&buf)
	if err != nil {
		logging.Warnf("baseline chart decode: %v", err)
		return nil
	}
	return img
}

// barWidthFor spreads the bars across the drawable width with a small gap
// each, clamped so few-bar charts do not become slabs.
func barWidthFor(width, n int) int {
	if n <= 0 {
		return 10
	}
	w := width/n - 6
	if w < 4 {
		w = 4
	}
	if w > 40 {
		w = 40
	}
	return w
}
