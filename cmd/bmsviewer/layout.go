package main

import (
	"github.com/Treystu/BMSview-sub013/src/chartengine"
)

// brushHeight is the fixed pixel height of the overview strip.
const brushHeight = 60

// plotSize computes the on-screen plot size from the window canvas size
// so the chart uses most of the horizontal space regardless of window
// shape.
func plotSize(winW, winH float32) (int, int) {
	w := int(winW*0.95) - 12
	if w < 640 {
		w = 640
	}
	h := int(float32(w) * 0.4)
	if h < 240 {
		h = 240
	}
	if h > 560 {
		h = 560
	}
	if maxH := int(winH) - brushHeight - 160; maxH > 240 && h > maxH {
		h = maxH
	}
	return w, h
}

// handleSlop widens the brush handles' hit area beyond their drawn width
// so they are grabbable with an imprecise pointer.
const handleSlop = 4

// hitTarget classifies a pointer position against the rendered frame. The
// main plot occupies y in [0, plotH); the brush strip sits directly below
// it. Handle hits win over the brush body.
func hitTarget(x, y, plotH float64, brush chartengine.BrushStrip) chartengine.Target {
	if y < plotH {
		return chartengine.TargetMainPlot
	}
	l := brush.HandleLeft
	if x >= l.X-handleSlop && x <= l.X+l.W+handleSlop {
		return chartengine.TargetBrushHandleLeft
	}
	r := brush.HandleRight
	if x >= r.X-handleSlop && x <= r.X+r.W+handleSlop {
		return chartengine.TargetBrushHandleRight
	}
	return chartengine.TargetBrushBody
}
