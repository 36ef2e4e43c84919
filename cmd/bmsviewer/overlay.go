package main

import (
	"fmt"
	"image/color"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/Treystu/BMSview-sub013/src/chartengine"
	"github.com/Treystu/BMSview-sub013/src/metrics"
	"github.com/Treystu/BMSview-sub013/src/series"
)

// chartOverlay sits on top of the chart image. It routes pointer drags to
// the engine's interaction machine (pan, brush pan, brush resize) and
// shows a tooltip for the nearest data point while hovering.
type chartOverlay struct {
	widget.BaseWidget
	state    *uiState
	mouse    fyne.Position
	hovering bool
}

func newChartOverlay(state *uiState) *chartOverlay {
	c := &chartOverlay{state: state}
	c.ExtendBaseWidget(c)
	return c
}

// imagePos maps an overlay position into rendered-image pixels, honoring
// the contain-fit placement of the chart image inside the overlay.
func (c *chartOverlay) imagePos(pos fyne.Position) (float64, float64, bool) {
	if c.state == nil || c.state.chartImgCanvas == nil || c.state.chartImgCanvas.Image == nil {
		return 0, 0, false
	}
	size := c.Size()
	b := c.state.chartImgCanvas.Image.Bounds()
	imgW, imgH := float32(b.Dx()), float32(b.Dy())
	if imgW <= 0 || imgH <= 0 || size.Width <= 0 || size.Height <= 0 {
		return 0, 0, false
	}
	scale := size.Width / imgW
	if sy := size.Height / imgH; sy < scale {
		scale = sy
	}
	drawW, drawH := imgW*scale, imgH*scale
	drawX := (size.Width - drawW) / 2
	drawY := (size.Height - drawH) / 2
	x, y := pos.X, pos.Y
	if x < drawX || x > drawX+drawW || y < drawY || y > drawY+drawH {
		return 0, 0, false
	}
	return float64((x - drawX) / scale), float64((y - drawY) / scale), true
}

// machineX converts an image-pixel x into the coordinate the interaction
// machine expects: screen pixels for the main plot, logical chart pixels
// for brush gestures.
func (c *chartOverlay) machineX(ix float64) float64 {
	st := c.state
	switch st.engine.Machine().State().Kind {
	case chartengine.StatePanningBrush, chartengine.StateResizingBrushLeft, chartengine.StateResizingBrushRight:
		return ix / float64(st.plotW) * st.engine.Viewport().ChartWidth
	default:
		return ix
	}
}

func (c *chartOverlay) MouseDown(ev *desktop.MouseEvent) {
	st := c.state
	if st == nil || !st.engine.Ready() {
		return
	}
	ix, iy, ok := c.imagePos(ev.Position)
	if !ok {
		return
	}
	target := hitTarget(ix, iy, float64(st.plotH), st.lastFrame.Brush)
	vp := st.engine.Viewport()
	x := ix
	if target != chartengine.TargetMainPlot {
		x = ix / float64(st.plotW) * vp.ChartWidth
	}
	st.engine.Machine().PointerDown(target, x, vp.Box)
}

func (c *chartOverlay) MouseUp(_ *desktop.MouseEvent) {
	c.endGesture()
}

// endGesture releases any in-progress drag. Besides pointer-up it runs on
// every path where the matching MouseUp can no longer reach the overlay
// (pointer left for the controls, another tab, or outside the window);
// without it the machine would stay busy and ignore all further
// pointer-downs.
func (c *chartOverlay) endGesture() {
	st := c.state
	if st == nil || !st.engine.Ready() {
		return
	}
	if st.engine.Machine().PointerUp() {
		// resolution may change once the gesture settles
		st.redraw()
	}
}

func (c *chartOverlay) MouseMoved(ev *desktop.MouseEvent) {
	st := c.state
	c.hovering = true
	c.mouse = ev.Position
	if st == nil || !st.engine.Ready() {
		return
	}
	ix, _, ok := c.imagePos(ev.Position)
	m := st.engine.Machine()
	if m.Busy() {
		if ok {
			vp := st.engine.Viewport()
			if box, moved := m.PointerMove(c.machineX(ix), float64(st.plotW), vp.ChartWidth); moved {
				vp.SetBox(box)
				st.redraw()
			}
		}
		c.Refresh()
		return
	}
	c.Refresh()
}

// Resize re-renders the chart at the new plot size so window resizes
// redraw the bitmap instead of scaling it.
func (c *chartOverlay) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	st := c.state
	if st == nil || !st.engine.Ready() {
		return
	}
	if cv := st.window.Canvas(); cv != nil {
		sz := cv.Size()
		if pw, ph := plotSize(sz.Width, sz.Height); pw != st.plotW || ph != st.plotH {
			st.redraw()
		}
	}
}

func (c *chartOverlay) MouseIn(_ *desktop.MouseEvent) { c.hovering = true; c.Refresh() }
func (c *chartOverlay) MouseOut() {
	c.hovering = false
	c.endGesture()
	c.Refresh()
}

var (
	_ desktop.Mouseable = (*chartOverlay)(nil)
	_ desktop.Hoverable = (*chartOverlay)(nil)
)

func (c *chartOverlay) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{})
	lineV := canvas.NewLine(color.RGBA{R: 200, G: 200, B: 200, A: 180})
	lineV.StrokeWidth = 1
	label := widget.NewRichText()
	label.Wrapping = fyne.TextWrapOff
	labelBG := canvas.NewRectangle(color.RGBA{A: 180})
	return &overlayRenderer{
		c: c, bg: bg, lineV: lineV, labelBG: labelBG, label: label,
		objs: []fyne.CanvasObject{bg, lineV, labelBG, label},
	}
}

type overlayRenderer struct {
	c       *chartOverlay
	bg      *canvas.Rectangle
	lineV   *canvas.Line
	labelBG *canvas.Rectangle
	label   *widget.RichText
	objs    []fyne.CanvasObject
}

func (r *overlayRenderer) Destroy() {}

func (r *overlayRenderer) hide() {
	r.lineV.Position1 = fyne.NewPos(-10, -10)
	r.lineV.Position2 = fyne.NewPos(-10, -10)
	r.labelBG.Resize(fyne.NewSize(0, 0))
	r.labelBG.Move(fyne.NewPos(-1000, -1000))
	r.label.Move(fyne.NewPos(-1000, -1000))
}

func (r *overlayRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	c := r.c
	st := c.state
	if st == nil || !c.hovering || !st.engine.Ready() || st.engine.Machine().Busy() {
		r.hide()
		return
	}
	ix, iy, ok := c.imagePos(c.mouse)
	if !ok || iy >= float64(st.plotH) {
		r.hide()
		return
	}
	point, found := st.engine.Tooltip(ix, float64(st.plotW))
	if !found {
		r.hide()
		return
	}
	x := c.mouse.X
	r.lineV.Position1 = fyne.NewPos(x, 0)
	r.lineV.Position2 = fyne.NewPos(x, size.Height)

	r.label.Segments = []widget.RichTextSegment{
		&widget.TextSegment{Text: tooltipText(point, st.engine.Assignment())},
	}
	r.label.Refresh()
	pad := float32(6)
	ts := r.label.MinSize()
	bgW, bgH := ts.Width+2*pad, ts.Height+2*pad
	tx, ty := c.mouse.X+10, c.mouse.Y+10
	if tx+bgW > size.Width {
		tx = size.Width - bgW
	}
	if ty+bgH > size.Height {
		ty = size.Height - bgH
	}
	r.labelBG.Resize(fyne.NewSize(bgW, bgH))
	r.labelBG.Move(fyne.NewPos(tx, ty))
	r.label.Move(fyne.NewPos(tx+pad, ty+pad))
}

func (r *overlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *overlayRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *overlayRenderer) Refresh() {
	r.Layout(r.c.Size())
	r.bg.Refresh()
	r.lineV.Refresh()
	r.labelBG.Refresh()
	r.label.Refresh()
}

// tooltipText formats one chart point for the hover popup: timestamp,
// sample count, every plotted value with its unit, then any anomalies.
func tooltipText(p series.ChartPoint, assign chartengine.Assignment) string {
	var lines []string
	lines = append(lines, p.Timestamp.Format("2006-01-02 15:04"))
	if p.SampleCount > 1 {
		lines = append(lines, fmt.Sprintf("%d samples", p.SampleCount))
	}
	keys := append(assign.SideKeys(metrics.SideLeft), assign.SideKeys(metrics.SideRight)...)
	for _, key := range keys {
		v, ok := p.Value(key)
		if !ok {
			continue
		}
		d, err := metrics.Describe(key)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s %s", d.Label, chartengine.FormatTick(v), d.Unit))
	}
	for _, a := range p.Anomalies {
		lines = append(lines, fmt.Sprintf("! %s: %s", a.Metric, a.Message))
	}
	return strings.Join(lines, "\n")
}
