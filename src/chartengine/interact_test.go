package chartengine

import (
	"math"
	"testing"
)

func TestMachine_TransitionsAndSingleGesture(t *testing.T) {
	var m Machine
	if m.Busy() {
		t.Fatalf("fresh machine should be idle")
	}
	box := ViewBox{Offset: 100, Width: 200}
	if !m.PointerDown(TargetMainPlot, 50, box) {
		t.Fatalf("pointer-down on idle machine rejected")
	}
	if m.State().Kind != StatePanningMain {
		t.Fatalf("state: %v", m.State().Kind)
	}
	// A second pointer-down while busy is ignored.
	if m.PointerDown(TargetBrushBody, 10, box) {
		t.Fatalf("concurrent gesture accepted")
	}
	if m.State().Kind != StatePanningMain || m.State().AnchorX != 50 {
		t.Fatalf("busy state clobbered: %+v", m.State())
	}
	if !m.PointerUp() {
		t.Fatalf("pointer-up should report a finished drag")
	}
	if m.State().Kind != StateIdle {
		t.Fatalf("not idle after pointer-up")
	}
	if m.PointerUp() {
		t.Fatalf("pointer-up while idle reported a drag")
	}
	// Move while idle does nothing.
	if _, ok := m.PointerMove(10, 600, 1000); ok {
		t.Fatalf("idle move produced a box")
	}
}

func TestMachine_MainPanScaledByLogicalToScreenRatio(t *testing.T) {
	var m Machine
	start := ViewBox{Offset: 400, Width: 200}
	m.PointerDown(TargetMainPlot, 300, start)
	// 60 screen px over a 600px plot showing 200 logical px: 20 logical.
	// Dragging right slides the window left.
	box, ok := m.PointerMove(360, 600, 1000)
	if !ok {
		t.Fatalf("move rejected")
	}
	if math.Abs(box.Offset-380) > 1e-9 || box.Width != 200 {
		t.Fatalf("main pan: %+v want offset 380 width 200", box)
	}
	// Dragging left slides the window right, derived fresh from the anchor.
	box, _ = m.PointerMove(240, 600, 1000)
	if math.Abs(box.Offset-420) > 1e-9 {
		t.Fatalf("reverse pan: %+v", box)
	}
	// Panning clamps at the dataset edges.
	box, _ = m.PointerMove(3000, 600, 1000)
	if box.Offset != 0 {
		t.Fatalf("left edge clamp: %+v", box)
	}
	box, _ = m.PointerMove(-3000, 600, 1000)
	if math.Abs(box.Offset-800) > 1e-9 {
		t.Fatalf("right edge clamp: %+v", box)
	}
}

func TestMachine_BrushPanOneToOne(t *testing.T) {
	var m Machine
	m.PointerDown(TargetBrushBody, 120, ViewBox{Offset: 300, Width: 100})
	box, _ := m.PointerMove(170, 600, 1000)
	if box.Offset != 350 || box.Width != 100 {
		t.Fatalf("brush pan: %+v", box)
	}
	box, _ = m.PointerMove(-900, 600, 1000)
	if box.Offset != 0 {
		t.Fatalf("brush pan clamp: %+v", box)
	}
}

func TestMachine_LeftHandleResizeKeepsRightEdgeFixed(t *testing.T) {
	var m Machine
	start := ViewBox{Offset: 300, Width: 100}
	m.PointerDown(TargetBrushHandleLeft, 300, start)
	// Shrink from the left.
	box, _ := m.PointerMove(340, 600, 1000)
	if box.Offset != 340 || box.Width != 60 {
		t.Fatalf("left resize: %+v", box)
	}
	// Past the minimum width: width pins at MinViewWidth, right edge stays.
	box, _ = m.PointerMove(500, 600, 1000)
	if box.Width != MinViewWidth {
		t.Fatalf("min width clamp: %+v", box)
	}
	if got := box.Offset + box.Width; math.Abs(got-400) > 1e-9 {
		t.Fatalf("right edge moved during left clamp: %+v", box)
	}
	// Grow leftwards past zero clamps at the chart start.
	box, _ = m.PointerMove(-500, 600, 1000)
	if box.Offset != 0 || math.Abs(box.Width-400) > 1e-9 {
		t.Fatalf("left growth clamp: %+v", box)
	}
}

func TestMachine_RightHandleResizeClampsSymmetrically(t *testing.T) {
	var m Machine
	start := ViewBox{Offset: 300, Width: 100}
	m.PointerDown(TargetBrushHandleRight, 400, start)
	box, _ := m.PointerMove(460, 600, 1000)
	if box.Offset != 300 || box.Width != 160 {
		t.Fatalf("right resize: %+v", box)
	}
	// Under the minimum: width pins, left edge stays.
	box, _ = m.PointerMove(200, 600, 1000)
	if box.Offset != 300 || box.Width != MinViewWidth {
		t.Fatalf("right min clamp: %+v", box)
	}
	// Past the chart end: width caps at the remaining room.
	box, _ = m.PointerMove(2000, 600, 1000)
	if box.Offset != 300 || math.Abs(box.Width-700) > 1e-9 {
		t.Fatalf("right growth clamp: %+v", box)
	}
}

func TestMachine_AllBusyStatesShareMoveAndUpHandlers(t *testing.T) {
	targets := []Target{TargetMainPlot, TargetBrushBody, TargetBrushHandleLeft, TargetBrushHandleRight}
	for _, target := range targets {
		var m Machine
		if !m.PointerDown(target, 100, ViewBox{Offset: 200, Width: 300}) {
			t.Fatalf("target %v: down rejected", target)
		}
		box, ok := m.PointerMove(110, 600, 1000)
		if !ok {
			t.Fatalf("target %v: move rejected", target)
		}
		if box.Width < MinViewWidth || box.Offset < 0 || box.Offset+box.Width > 1000+1e-9 {
			t.Fatalf("target %v: invariant violated: %+v", target, box)
		}
		if !m.PointerUp() || m.Busy() {
			t.Fatalf("target %v: up did not return to idle", target)
		}
	}
}
