package chartengine

import (
	"math"

	"github.com/Treystu/BMSview-sub013/src/metrics"
	"github.com/Treystu/BMSview-sub013/src/series"
)

// pointMarkerZoom is the zoom ratio past which individual point markers
// are drawn on top of the polylines.
const pointMarkerZoom = 30.0

// brushBucketMinutes fixes the resolution of the overview strip; the strip
// always shows the whole dataset, so one coarse level is enough no matter
// what the main plot renders.
const brushBucketMinutes = 240

const (
	colorAnomalyWarning  = "#fbc02d"
	colorAnomalyCritical = "#e53935"
	colorBrushBox        = "#90caf9"
	colorAxisLabel       = "#9e9e9e"
)

// Polyline is one stroke of a metric's line. A metric with gaps (null
// values) produces several polylines, one per unbroken run.
type Polyline struct {
	Metric string
	Color  string
	Width  float64
	Points [][2]float64
}

// Marker is a filled circle, used for per-point dots and anomaly flags.
type Marker struct {
	X, Y    float64
	Radius  float64
	Color   string
	Metric  string
	Message string
}

// Label is a piece of axis text anchored at X,Y.
type Label struct {
	X, Y  float64
	Text  string
	Color string
	// Anchor is "start" or "end" relative to X.
	Anchor string
}

// Rect is an axis-aligned rectangle (brush window, handles).
type Rect struct {
	X, Y, W, H float64
	Color      string
}

// BrushStrip is the overview band under the main plot: the full dataset at
// a fixed coarse LOD plus the draggable window rectangle and its handles.
type BrushStrip struct {
	Lines       []Polyline
	Window      Rect
	HandleLeft  Rect
	HandleRight Rect
}

// Frame is the complete list of draw primitives for one render pass. It is
// backend-agnostic: the viewer rasterizes it, tests inspect it.
type Frame struct {
	Lines      []Polyline
	PointDots  []Marker
	Anomalies  []Marker
	AxisLabels []Label
	Brush      BrushStrip
}

// RenderInput bundles everything a render pass depends on.
type RenderInput struct {
	Points      []series.ChartPoint // active LOD
	BrushPoints []series.ChartPoint // fixed coarse LOD, full dataset
	Assign      Assignment
	Left, Right Scale
	Viewport    *Viewport
	// Physical plot size in screen pixels.
	ScreenW, ScreenH float64
	// Brush strip height; the strip spans the full ScreenW.
	BrushH float64
}

// Render is a pure function from chart state to draw primitives.
func Render(in RenderInput) Frame {
	var f Frame
	if in.Viewport == nil || in.ScreenW <= 0 || in.ScreenH <= 0 {
		return f
	}
	vp := in.Viewport
	showDots := vp.ZoomRatio() >= pointMarkerZoom

	// screenX maps a timestamp through the view box onto plot pixels.
	screenX := func(t series.ChartPoint) float64 {
		logical := vp.TimeToPixel(t.Timestamp)
		return (logical - vp.Box.Offset) / vp.Box.Width * in.ScreenW
	}

	sides := []struct {
		side  metrics.Side
		scale Scale
	}{
		{metrics.SideLeft, in.Left},
		{metrics.SideRight, in.Right},
	}
	for _, sc := range sides {
		side, scale := sc.side, sc.scale
		if scale.Empty {
			continue
		}
		for _, key := range in.Assign.SideKeys(side) {
			d, err := metrics.Describe(key)
			if err != nil {
				continue
			}
			yFor := func(v float64) float64 {
				return scale.PixelY(v) * (in.ScreenH / scale.Height)
			}
			var run [][2]float64
			// last culled point, kept as the neighbor that lets a segment
			// cross the plot edge instead of stopping at the last visible
			// point
			var edge *[2]float64
			flush := func() {
				if len(run) > 1 {
					f.Lines = append(f.Lines, Polyline{Metric: key, Color: d.Color, Width: 1.5, Points: run})
				}
				run = nil
			}
			for _, p := range in.Points {
				v, ok := p.Value(key)
				if !ok {
					// null breaks the path
					flush()
					edge = nil
					continue
				}
				x := screenX(p)
				if x < -in.ScreenW*0.05 || x > in.ScreenW*1.05 {
					if len(run) > 0 {
						run = append(run, [2]float64{x, yFor(v)})
						flush()
					}
					edge = &[2]float64{x, yFor(v)}
					continue
				}
				if len(run) == 0 && edge != nil {
					run = append(run, *edge)
					edge = nil
				}
				y := yFor(v)
				run = append(run, [2]float64{x, y})
				if showDots {
					f.PointDots = append(f.PointDots, Marker{X: x, Y: y, Radius: 2.5, Color: d.Color, Metric: key})
				}
				for _, a := range p.Anomalies {
					if a.Metric != key {
						continue
					}
					col := colorAnomalyWarning
					if a.Severity == metrics.SeverityCritical {
						col = colorAnomalyCritical
					}
					f.Anomalies = append(f.Anomalies, Marker{X: x, Y: y, Radius: 4, Color: col, Metric: key, Message: a.Message})
				}
			}
			flush()
		}
	}

	// Axis tick labels: left labels hug x=0, right labels hug the far edge.
	for _, tk := range in.Left.Ticks {
		y := in.Left.PixelY(tk.Value) * (in.ScreenH / in.Left.Height)
		f.AxisLabels = append(f.AxisLabels, Label{X: 2, Y: y, Text: tk.Label, Color: colorAxisLabel, Anchor: "start"})
	}
	for _, tk := range in.Right.Ticks {
		y := in.Right.PixelY(tk.Value) * (in.ScreenH / in.Right.Height)
		f.AxisLabels = append(f.AxisLabels, Label{X: in.ScreenW - 2, Y: y, Text: tk.Label, Color: colorAxisLabel, Anchor: "end"})
	}

	f.Brush = renderBrush(in)
	return f
}

// renderBrush draws the overview strip: every assigned metric normalized
// into the strip height over the full logical width, plus the window
// rectangle mirroring the current view box.
func renderBrush(in RenderInput) BrushStrip {
	var b BrushStrip
	if in.BrushH <= 0 || len(in.BrushPoints) == 0 {
		return b
	}
	vp := in.Viewport
	fullX := func(p series.ChartPoint) float64 {
		return vp.TimeToPixel(p.Timestamp) / vp.ChartWidth * in.ScreenW
	}
	keys := append(in.Assign.SideKeys(metrics.SideLeft), in.Assign.SideKeys(metrics.SideRight)...)
	for _, key := range keys {
		d, err := metrics.Describe(key)
		if err != nil {
			continue
		}
		lo, hi := math.MaxFloat64, -math.MaxFloat64
		for _, p := range in.BrushPoints {
			if v, ok := p.Value(key); ok {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
		if lo == math.MaxFloat64 {
			continue
		}
		if hi <= lo {
			hi = lo + 1
		}
		var run [][2]float64
		for _, p := range in.BrushPoints {
			v, ok := p.Value(key)
			if !ok {
				if len(run) > 1 {
					b.Lines = append(b.Lines, Polyline{Metric: key, Color: d.Color, Width: 1, Points: run})
				}
				run = nil
				continue
			}
			y := (1 - (v-lo)/(hi-lo)) * in.BrushH
			run = append(run, [2]float64{fullX(p), y})
		}
		if len(run) > 1 {
			b.Lines = append(b.Lines, Polyline{Metric: key, Color: d.Color, Width: 1, Points: run})
		}
	}
	// Window rectangle in strip coordinates (strip spans the full dataset).
	x := vp.Box.Offset / vp.ChartWidth * in.ScreenW
	w := vp.Box.Width / vp.ChartWidth * in.ScreenW
	b.Window = Rect{X: x, Y: 0, W: w, H: in.BrushH, Color: colorBrushBox}
	const handleW = 6
	b.HandleLeft = Rect{X: x - handleW/2, Y: 0, W: handleW, H: in.BrushH, Color: colorBrushBox}
	b.HandleRight = Rect{X: x + w - handleW/2, Y: 0, W: handleW, H: in.BrushH, Color: colorBrushBox}
	return b
}
