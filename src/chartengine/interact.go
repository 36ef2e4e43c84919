package chartengine

// Target identifies what the pointer went down on.
type Target int

const (
	TargetMainPlot Target = iota
	TargetBrushBody
	TargetBrushHandleLeft
	TargetBrushHandleRight
)

// StateKind tags the interaction state. Exactly one state is active at a
// time; transitions happen only on pointer down/move/up.
type StateKind int

const (
	StateIdle StateKind = iota
	StatePanningMain
	StatePanningBrush
	StateResizingBrushLeft
	StateResizingBrushRight
)

// State is the full interaction state: the tag plus the anchor pixel and
// the view box captured at pointer-down. Move events derive a fresh view
// box from these, so there is no hidden accumulating drift.
type State struct {
	Kind     StateKind
	AnchorX  float64
	StartBox ViewBox
}

// Machine drives drag-based pan and brush-resize. It owns no viewport;
// PointerMove returns the view box the caller should apply.
type Machine struct {
	state State
}

// State returns the current interaction state.
func (m *Machine) State() State { return m.state }

// Busy reports whether a drag is in progress.
func (m *Machine) Busy() bool { return m.state.Kind != StateIdle }

// PointerDown starts a drag. A pointer-down while a drag is already in
// progress is ignored until the matching pointer-up; the return value says
// whether the event was consumed.
func (m *Machine) PointerDown(target Target, x float64, box ViewBox) bool {
	if m.state.Kind != StateIdle {
		return false
	}
	kind := StatePanningMain
	switch target {
	case TargetBrushBody:
		kind = StatePanningBrush
	case TargetBrushHandleLeft:
		kind = StateResizingBrushLeft
	case TargetBrushHandleRight:
		kind = StateResizingBrushRight
	}
	m.state = State{Kind: kind, AnchorX: x, StartBox: box}
	return true
}

// PointerMove recomputes the view box for the current drag. For the main
// plot the pixel delta is scaled by the visible-logical-to-screen ratio
// (and inverted: dragging right slides the content right, the window
// left); brush coordinates are already logical, so brush pan and resize
// apply 1:1. The second return is false while Idle.
func (m *Machine) PointerMove(x, screenPlotWidth, chartWidth float64) (ViewBox, bool) {
	st := m.state
	if st.Kind == StateIdle {
		return ViewBox{}, false
	}
	dx := x - st.AnchorX
	box := st.StartBox
	switch st.Kind {
	case StatePanningMain:
		if screenPlotWidth > 0 {
			box.Offset = st.StartBox.Offset - dx*st.StartBox.Width/screenPlotWidth
		}
	case StatePanningBrush:
		box.Offset = st.StartBox.Offset + dx
	case StateResizingBrushLeft:
		// The right edge stays fixed; the left edge follows the pointer but
		// can neither cross below zero nor squeeze the box under MinViewWidth.
		right := st.StartBox.Offset + st.StartBox.Width
		left := st.StartBox.Offset + dx
		if left < 0 {
			left = 0
		}
		if left > right-MinViewWidth {
			left = right - MinViewWidth
		}
		box.Offset = left
		box.Width = right - left
	case StateResizingBrushRight:
		// The left edge stays fixed; clamp symmetrically on the right.
		w := st.StartBox.Width + dx
		if w < MinViewWidth {
			w = MinViewWidth
		}
		if st.StartBox.Offset+w > chartWidth {
			w = chartWidth - st.StartBox.Offset
		}
		box.Width = w
	}
	return clampBox(box, chartWidth), true
}

// PointerUp ends the drag from any busy state; reports whether a drag was
// actually in progress.
func (m *Machine) PointerUp() bool {
	busy := m.state.Kind != StateIdle
	m.state = State{Kind: StateIdle}
	return busy
}
