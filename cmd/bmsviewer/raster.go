package main

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/Treystu/BMSview-sub013/src/chartengine"
)

const (
	colorBackground = "#121212"
	colorBrushBg    = "#1c1c1c"
	colorHandle     = "#64b5f6"
)

// rasterFrame turns a frame of draw primitives into a PNG-ready image.
// The main plot fills the top plotH pixels, the brush strip the band
// below it.
func rasterFrame(f chartengine.Frame, plotW, plotH, brushH int) image.Image {
	dc := gg.NewContext(plotW, plotH+brushH)
	dc.SetHexColor(colorBackground)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for _, ln := range f.Lines {
		strokePolyline(dc, ln, 0)
	}
	for _, m := range f.PointDots {
		dc.SetHexColor(m.Color)
		dc.DrawCircle(m.X, m.Y, m.Radius)
		dc.Fill()
	}
	for _, m := range f.Anomalies {
		dc.SetHexColor(m.Color)
		dc.DrawCircle(m.X, m.Y, m.Radius)
		dc.Fill()
	}
	for _, l := range f.AxisLabels {
		dc.SetHexColor(l.Color)
		ax := 0.0
		if l.Anchor == "end" {
			ax = 1.0
		}
		dc.DrawStringAnchored(l.Text, l.X, l.Y, ax, 0.4)
	}

	if brushH > 0 {
		top := float64(plotH)
		dc.SetHexColor(colorBrushBg)
		dc.DrawRectangle(0, top, float64(plotW), float64(brushH))
		dc.Fill()
		for _, ln := range f.Brush.Lines {
			strokePolyline(dc, ln, top)
		}
		w := f.Brush.Window
		dc.SetHexColor(w.Color)
		dc.SetLineWidth(1)
		dc.DrawRectangle(w.X, top+w.Y, w.W, w.H)
		dc.Stroke()
		for _, h := range []chartengine.Rect{f.Brush.HandleLeft, f.Brush.HandleRight} {
			dc.SetHexColor(colorHandle)
			dc.DrawRectangle(h.X, top+h.Y, h.W, h.H)
			dc.Fill()
		}
	}
	return dc.Image()
}

func strokePolyline(dc *gg.Context, ln chartengine.Polyline, yOff float64) {
	if len(ln.Points) < 2 {
		return
	}
	dc.SetHexColor(ln.Color)
	dc.SetLineWidth(ln.Width)
	dc.MoveTo(ln.Points[0][0], yOff+ln.Points[0][1])
	for _, p := range ln.Points[1:] {
		dc.LineTo(p[0], yOff+p[1])
	}
	dc.Stroke()
}
