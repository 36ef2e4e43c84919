package chartengine

import (
	"fmt"
	"time"

	"github.com/Treystu/BMSview-sub013/src/logging"
	"github.com/Treystu/BMSview-sub013/src/metrics"
	"github.com/Treystu/BMSview-sub013/src/series"
)

// InsufficientDataError means fewer than two points survived the date
// filter. Callers surface it as an empty-state message, not a failure.
type InsufficientDataError struct {
	Points int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d point(s) after filtering, need at least 2", e.Points)
}

// GenerateOptions parameterizes one generation pass.
type GenerateOptions struct {
	// From/To filter the record range; zero bounds are open.
	From, To time.Time
	// RatedCapacityAh enables the computed State-of-Health metric when > 0.
	RatedCapacityAh float64
}

// Engine owns everything the historical chart needs between two generate
// actions: the precomputed LOD set, the viewport, the axis assignment and
// the interaction machine. All of it is ephemeral; Generate rebuilds from
// scratch and nothing is persisted.
type Engine struct {
	chartWidth  float64
	chartHeight float64

	lods    series.LODSet
	vp      *Viewport
	machine Machine
	assign  Assignment

	selector Selector
	override Override

	// Axis scales are cached and invalidated explicitly: a LOD switch
	// dirties both sides, moving one metric dirties only the two sides it
	// touches. View box changes alone never dirty a scale.
	left, right           Scale
	leftDirty, rightDirty bool
	scaleBucket           int
}

// New creates an engine for a plot of the given logical dimensions.
func New(chartWidth, chartHeight float64) *Engine {
	return &Engine{
		chartWidth:  chartWidth,
		chartHeight: chartHeight,
		assign:      DefaultAssignment(),
		leftDirty:   true,
		rightDirty:  true,
	}
}

// Generate filters the records, layers the derived State-of-Health metric,
// precomputes the LOD ladder and resets viewport and interaction state.
// This is the only expensive operation in the engine and runs exactly once
// per explicit user request, never during pan/zoom.
func (e *Engine) Generate(records []series.SensorRecord, opts GenerateOptions) error {
	defer logging.TimeTrack(time.Now(), "Engine.Generate")
	filtered := series.FilterRange(records, opts.From, opts.To)
	if len(filtered) < 2 {
		return &InsufficientDataError{Points: len(filtered)}
	}
	filtered = series.WithStateOfHealth(filtered, opts.RatedCapacityAh)

	e.lods = series.BuildLODSet(filtered)
	tMin := filtered[0].Timestamp
	tMax := filtered[len(filtered)-1].Timestamp
	e.vp = NewViewport(e.chartWidth, tMin, tMax)
	e.machine = Machine{}
	e.selector = Selector{}
	e.leftDirty, e.rightDirty = true, true
	e.scaleBucket = -1
	logging.Infof("generated chart dataset: points=%d span=%s", len(filtered), tMax.Sub(tMin))
	return nil
}

// Ready reports whether a dataset has been generated.
func (e *Engine) Ready() bool { return e.vp != nil }

// Viewport exposes the current viewport; nil before the first Generate.
func (e *Engine) Viewport() *Viewport { return e.vp }

// Machine exposes the interaction state machine.
func (e *Engine) Machine() *Machine { return &e.machine }

// Assignment returns the current metric-to-side mapping.
func (e *Engine) Assignment() Assignment { return e.assign }

// SetSide plots the metric on the given axis side. Only the scales of the
// sides involved in the move are invalidated.
func (e *Engine) SetSide(key string, side metrics.Side) error {
	if _, err := metrics.Describe(key); err != nil {
		return err
	}
	if prev, ok := e.assign[key]; ok {
		e.markDirty(prev)
	}
	e.assign[key] = side
	e.markDirty(side)
	return nil
}

// Unplot removes the metric from the chart.
func (e *Engine) Unplot(key string) {
	if side, ok := e.assign[key]; ok {
		delete(e.assign, key)
		e.markDirty(side)
	}
}

func (e *Engine) markDirty(side metrics.Side) {
	if side == metrics.SideLeft {
		e.leftDirty = true
	} else {
		e.rightDirty = true
	}
}

// SetOverride pins the averaging resolution (auto when disabled).
func (e *Engine) SetOverride(ov Override) { e.override = ov }

// ActiveBucket returns the resolution currently rendered, in minutes
// (0 = raw), honoring the manual override.
func (e *Engine) ActiveBucket() int {
	if e.vp == nil {
		return 0
	}
	return e.selector.Bucket(e.vp.ZoomRatio(), e.override)
}

// ActivePoints returns the point sequence for the active LOD.
func (e *Engine) ActivePoints() []series.ChartPoint {
	if e.lods == nil {
		return nil
	}
	return e.lods[series.BucketLabel(e.ActiveBucket())]
}

// Scales returns the left and right axis scales, recomputing only the
// sides whose inputs changed since the last call.
func (e *Engine) Scales() (Scale, Scale) {
	bucket := e.ActiveBucket()
	if bucket != e.scaleBucket {
		e.leftDirty, e.rightDirty = true, true
		e.scaleBucket = bucket
	}
	pts := e.ActivePoints()
	if e.leftDirty {
		e.left = BuildScale(pts, e.assign.SideKeys(metrics.SideLeft), e.chartHeight)
		e.leftDirty = false
	}
	if e.rightDirty {
		e.right = BuildScale(pts, e.assign.SideKeys(metrics.SideRight), e.chartHeight)
		e.rightDirty = false
	}
	return e.left, e.right
}

// Frame produces the draw primitives for the current state at the given
// physical plot size.
func (e *Engine) Frame(screenW, screenH, brushH float64) Frame {
	if !e.Ready() {
		return Frame{}
	}
	left, right := e.Scales()
	return Render(RenderInput{
		Points:      e.ActivePoints(),
		BrushPoints: e.lods[series.BucketLabel(brushBucketMinutes)],
		Assign:      e.assign,
		Left:        left,
		Right:       right,
		Viewport:    e.vp,
		ScreenW:     screenW,
		ScreenH:     screenH,
		BrushH:      brushH,
	})
}

// Tooltip resolves the hover point for a pointer position over the plot.
func (e *Engine) Tooltip(pointerPx, screenWidth float64) (series.ChartPoint, bool) {
	if !e.Ready() {
		return series.ChartPoint{}, false
	}
	return ResolveTooltip(pointerPx, screenWidth, e.ActivePoints(), e.vp)
}
