package chartengine

import (
	"math"
	"sort"
	"strconv"

	"github.com/Treystu/BMSview-sub013/src/metrics"
	"github.com/Treystu/BMSview-sub013/src/series"
)

// Assignment is the user-controlled mapping of metric key to axis side.
// A key absent from the map is not plotted.
type Assignment map[string]metrics.Side

// SideKeys returns the sorted metric keys currently assigned to one side.
func (a Assignment) SideKeys(side metrics.Side) []string {
	var out []string
	for k, s := range a {
		if s == side {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// DefaultAssignment plots every primary-source metric on its descriptor's
// default side.
func DefaultAssignment() Assignment {
	a := Assignment{}
	for _, k := range metrics.Keys() {
		d, err := metrics.Describe(k)
		if err != nil {
			continue
		}
		if d.Source == metrics.SourcePrimary {
			a[k] = d.DefaultSide
		}
	}
	return a
}

// Tick is one labeled axis position in value space.
type Tick struct {
	Value float64
	Label string
}

// Scale maps metric values to vertical pixels for one axis side. The
// domain is derived from the ACTIVE LOD's full point sequence, not the
// visible slice, so the axis stays put while panning.
type Scale struct {
	Min, Max float64 // padded domain
	Height   float64
	Ticks    []Tick
	Empty    bool
}

// axisTickCount is the target tick density per side.
const axisTickCount = 6

// BuildScale scans points for the given keys, pads the found range by 10%
// on each side and produces the inverted (SVG-style, y grows downward)
// linear scale with nice ticks. No assigned metrics, or no data at all,
// yields an Empty scale.
func BuildScale(points []series.ChartPoint, keys []string, chartHeight float64) Scale {
	s := Scale{Height: chartHeight, Empty: true}
	if len(keys) == 0 {
		return s
	}
	lo := math.MaxFloat64
	hi := -math.MaxFloat64
	for _, p := range points {
		for _, k := range keys {
			if v, ok := p.Value(k); ok {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
		}
	}
	if lo == math.MaxFloat64 {
		return s
	}
	if hi <= lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.10
	s.Min = lo - pad
	s.Max = hi + pad
	s.Empty = false
	s.Ticks = niceTicks(s.Min, s.Max, axisTickCount)
	return s
}

// PixelY maps a value into [0, Height], inverted so larger values sit
// higher on screen.
func (s Scale) PixelY(v float64) float64 {
	if s.Empty || s.Max <= s.Min {
		return 0
	}
	return (1 - (v-s.Min)/(s.Max-s.Min)) * s.Height
}

// niceTicks generates up to n tick marks spanning [min,max] using the
// 1, 2, 2.5, 5, 10 step pattern scaled by powers of ten.
func niceTicks(min, max float64, n int) []Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []Tick{}
	for v := start; v <= end+bestStep/2; v += bestStep {
		ticks = append(ticks, Tick{Value: v, Label: FormatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

// FormatTick provides a compact numeric label.
func FormatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}
