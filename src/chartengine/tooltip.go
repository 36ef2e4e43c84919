package chartengine

import (
	"sort"
	"time"

	"github.com/Treystu/BMSview-sub013/src/series"
)

// tooltipSpanFraction caps how far (as a fraction of the visible time
// window) the nearest point may be from the pointer before the tooltip
// gives up. Keeps the tooltip from snapping to a distant point in visually
// empty regions.
const tooltipSpanFraction = 0.05

// ResolveTooltip maps the pointer's screen x (over a plot screenWidth
// pixels wide) to a data timestamp and returns the nearest point of the
// active LOD, provided it lies within 5% of the visible span. The boolean
// is false when nothing qualifies.
func ResolveTooltip(pointerPx, screenWidth float64, points []series.ChartPoint, vp *Viewport) (series.ChartPoint, bool) {
	if len(points) == 0 || vp == nil {
		return series.ChartPoint{}, false
	}
	query := vp.ScreenToTime(pointerPx, screenWidth)
	idx := nearestIndex(points, query)
	dist := query.Sub(points[idx].Timestamp)
	if dist < 0 {
		dist = -dist
	}
	limit := time.Duration(float64(vp.VisibleSpan()) * tooltipSpanFraction)
	if limit <= 0 || dist >= limit {
		return series.ChartPoint{}, false
	}
	return points[idx], true
}

// nearestIndex binary-searches the sorted point slice for the index whose
// timestamp is closest to t.
func nearestIndex(points []series.ChartPoint, t time.Time) int {
	i := sort.Search(len(points), func(i int) bool {
		return !points[i].Timestamp.Before(t)
	})
	if i == 0 {
		return 0
	}
	if i == len(points) {
		return len(points) - 1
	}
	before := t.Sub(points[i-1].Timestamp)
	after := points[i].Timestamp.Sub(t)
	if before <= after {
		return i - 1
	}
	return i
}
