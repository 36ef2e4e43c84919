package chartengine

import (
	"testing"
	"time"

	"github.com/Treystu/BMSview-sub013/src/series"
)

// hourViewport shows exactly one hour of a ten-hour dataset on a 600px plot.
func hourViewport() *Viewport {
	vp := NewViewport(1000, mustTime("2026-03-01T00:00:00Z"), mustTime("2026-03-01T10:00:00Z"))
	vp.SetBox(ViewBox{Offset: 0, Width: 100})
	return vp
}

func pointAt(ts time.Time) series.ChartPoint {
	return series.ChartPoint{Timestamp: ts, SampleCount: 1, Values: map[string]float64{"soc": 50}}
}

func TestResolveTooltip_FivePercentThreshold(t *testing.T) {
	vp := hourViewport() // visible span 1h, threshold 3min
	pts := []series.ChartPoint{pointAt(mustTime("2026-03-01T00:30:00Z"))}

	// Pointer 10 minutes from the only point: no match.
	px := 600 * (40.0 / 60.0) // 00:40 on screen
	if _, ok := ResolveTooltip(px, 600, pts, vp); ok {
		t.Fatalf("match beyond threshold should be rejected")
	}

	// Pointer 1 minute away: match.
	px = 600 * (31.0 / 60.0)
	got, ok := ResolveTooltip(px, 600, pts, vp)
	if !ok {
		t.Fatalf("match within threshold rejected")
	}
	if !got.Timestamp.Equal(pts[0].Timestamp) {
		t.Fatalf("wrong point: %v", got.Timestamp)
	}
}

func TestResolveTooltip_PicksNearestNeighbor(t *testing.T) {
	vp := hourViewport()
	pts := []series.ChartPoint{
		pointAt(mustTime("2026-03-01T00:10:00Z")),
		pointAt(mustTime("2026-03-01T00:20:00Z")),
		pointAt(mustTime("2026-03-01T00:30:00Z")),
	}
	// 00:21 is closest to the middle point.
	px := 600 * (21.0 / 60.0)
	got, ok := ResolveTooltip(px, 600, pts, vp)
	if !ok || !got.Timestamp.Equal(pts[1].Timestamp) {
		t.Fatalf("nearest neighbor: ok=%v ts=%v", ok, got.Timestamp)
	}
	// Before the first point, nearest is the first.
	px = 600 * (9.5 / 60.0)
	got, ok = ResolveTooltip(px, 600, pts, vp)
	if !ok || !got.Timestamp.Equal(pts[0].Timestamp) {
		t.Fatalf("head clamp: ok=%v ts=%v", ok, got.Timestamp)
	}
}

func TestResolveTooltip_ThresholdTracksVisibleSpan(t *testing.T) {
	// Same pointer distance in time; zooming out widens the threshold.
	vp := hourViewport()
	pts := []series.ChartPoint{pointAt(mustTime("2026-03-01T00:30:00Z"))}

	// 4 minutes away with a 1h window (3min threshold): rejected.
	px := 600 * (34.0 / 60.0)
	if _, ok := ResolveTooltip(px, 600, pts, vp); ok {
		t.Fatalf("should reject at 1h window")
	}

	// Zoomed out to the full 10h: threshold is 30min, the same point matches.
	vp.ResetToFull()
	px = 600 * (34.0 / 600.0)
	if _, ok := ResolveTooltip(px, 600, pts, vp); !ok {
		t.Fatalf("should match at 10h window")
	}
}

func TestResolveTooltip_EmptyInputs(t *testing.T) {
	vp := hourViewport()
	if _, ok := ResolveTooltip(10, 600, nil, vp); ok {
		t.Fatalf("no points should never match")
	}
	if _, ok := ResolveTooltip(10, 600, []series.ChartPoint{pointAt(vp.TMin)}, nil); ok {
		t.Fatalf("nil viewport should never match")
	}
}
