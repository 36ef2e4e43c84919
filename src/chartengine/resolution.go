package chartengine

// LOD selection breakpoints: at low zoom a day-sized bucket is plenty, the
// raw series only appears once the visible window is a small slice of the
// dataset. Values are zoom ratios (chartWidth / viewBox.width).
var resolutionBreakpoints = []struct {
	below   float64
	minutes int
}{
	{2, 1440},
	{5, 240},
	{12, 60},
	{30, 15},
	{80, 5},
}

// SelectBucket maps a zoom ratio to the bucket resolution to render, in
// minutes; 0 means the raw series. Pure function of the ratio.
func SelectBucket(zoomRatio float64) int {
	for _, bp := range resolutionBreakpoints {
		if zoomRatio < bp.below {
			return bp.minutes
		}
	}
	return 0
}

// Override forces a fixed averaging resolution instead of the automatic
// zoom-driven choice. BucketMinutes of 0 forces the raw series.
type Override struct {
	Enabled       bool
	BucketMinutes int
}

// Selector caches the last choice keyed by the zoom-ratio band so repeated
// pointer-move frames inside one band do not recompute anything.
type Selector struct {
	valid   bool
	lo, hi  float64 // band bounds for the cached choice; hi==0 means open-ended
	minutes int
}

// Bucket returns the resolution for the given zoom ratio, honoring the
// override when set.
func (s *Selector) Bucket(zoomRatio float64, ov Override) int {
	if ov.Enabled {
		s.valid = false
		if ov.BucketMinutes < 0 {
			return 0
		}
		return ov.BucketMinutes
	}
	if s.valid && zoomRatio >= s.lo && (s.hi == 0 || zoomRatio < s.hi) {
		return s.minutes
	}
	lo := 0.0
	hi := 0.0
	minutes := 0
	for _, bp := range resolutionBreakpoints {
		if zoomRatio < bp.below {
			hi = bp.below
			minutes = bp.minutes
			break
		}
		lo = bp.below
	}
	s.valid, s.lo, s.hi, s.minutes = true, lo, hi, minutes
	return minutes
}
