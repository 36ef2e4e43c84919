// Package chartengine is the interactive core of the historical chart:
// viewport math, LOD selection, axis scaling, pointer interaction, tooltip
// lookup and primitive rendering. It performs no I/O; records and LOD sets
// come from the series package, pixels go out as draw primitives.
package chartengine

import (
	"time"
)

// MinViewWidth is the floor for the visible logical width; zooming can
// never produce a narrower view box.
const MinViewWidth = 10.0

// ViewBox is the currently visible sub-range of the logical chart width,
// in logical pixels [0, chartWidth].
type ViewBox struct {
	Offset float64
	Width  float64
}

// clampBox enforces the view box invariants against a chart width:
// MinViewWidth <= width <= chartWidth, 0 <= offset, offset+width <= chartWidth.
func clampBox(b ViewBox, chartWidth float64) ViewBox {
	if b.Width < MinViewWidth {
		b.Width = MinViewWidth
	}
	if b.Width > chartWidth {
		b.Width = chartWidth
	}
	if b.Offset < 0 {
		b.Offset = 0
	}
	if b.Offset+b.Width > chartWidth {
		b.Offset = chartWidth - b.Width
	}
	return b
}

// Viewport holds the fixed logical chart width, the generated dataset's
// time range and the current view box, with the reversible time<->pixel
// mapping over the full dataset.
type Viewport struct {
	ChartWidth float64
	TMin, TMax time.Time
	Box        ViewBox
}

// NewViewport starts fully zoomed out over [tMin, tMax].
func NewViewport(chartWidth float64, tMin, tMax time.Time) *Viewport {
	v := &Viewport{ChartWidth: chartWidth, TMin: tMin, TMax: tMax}
	v.ResetToFull()
	return v
}

// TimeToPixel maps a timestamp to its logical x position over the full
// dataset: (t-tMin)/(tMax-tMin) * chartWidth.
func (v *Viewport) TimeToPixel(t time.Time) float64 {
	span := v.TMax.Sub(v.TMin)
	if span <= 0 {
		return 0
	}
	return float64(t.Sub(v.TMin)) / float64(span) * v.ChartWidth
}

// PixelToTime is the exact inverse of TimeToPixel (within nanosecond
// rounding).
func (v *Viewport) PixelToTime(px float64) time.Time {
	span := v.TMax.Sub(v.TMin)
	if v.ChartWidth <= 0 {
		return v.TMin
	}
	return v.TMin.Add(time.Duration(px / v.ChartWidth * float64(span)))
}

// ResetToFull shows the whole dataset.
func (v *Viewport) ResetToFull() {
	v.Box = ViewBox{Offset: 0, Width: v.ChartWidth}
}

// SetBox applies a view box after clamping it to the invariants.
func (v *Viewport) SetBox(b ViewBox) {
	v.Box = clampBox(b, v.ChartWidth)
}

// SetZoomPercent recomputes the visible width as chartWidth/(p/100),
// keeping the midpoint of the current view box fixed, then clamps.
// 100 shows everything; 1000 shows a tenth of the chart.
func (v *Viewport) SetZoomPercent(p float64) {
	if p < 100 {
		p = 100
	}
	mid := v.Box.Offset + v.Box.Width/2
	w := v.ChartWidth / (p / 100)
	v.SetBox(ViewBox{Offset: mid - w/2, Width: w})
}

// ZoomRatio is chartWidth / viewBox.width; 1 means fully zoomed out.
func (v *Viewport) ZoomRatio() float64 {
	if v.Box.Width <= 0 {
		return 1
	}
	return v.ChartWidth / v.Box.Width
}

// VisibleRange returns the timestamps at the view box edges.
func (v *Viewport) VisibleRange() (time.Time, time.Time) {
	return v.PixelToTime(v.Box.Offset), v.PixelToTime(v.Box.Offset + v.Box.Width)
}

// VisibleSpan is the duration currently on screen.
func (v *Viewport) VisibleSpan() time.Duration {
	from, to := v.VisibleRange()
	return to.Sub(from)
}

// ScreenToTime converts a pointer x position over a plot of screenWidth
// physical pixels into a data timestamp, through the view box.
func (v *Viewport) ScreenToTime(px, screenWidth float64) time.Time {
	if screenWidth <= 0 {
		return v.TMin
	}
	logical := v.Box.Offset + px/screenWidth*v.Box.Width
	return v.PixelToTime(logical)
}
