// Package series converts raw BMS sensor records into anomaly-annotated
// chart points and precomputed multi-resolution (LOD) summaries.
package series

import (
	"fmt"
	"time"

	"github.com/Treystu/BMSview-sub013/src/metrics"
)

// SensorRecord is one raw reading for a monitored system. Records are owned
// by the upstream data cache; this package only reads them. A metric absent
// from Metrics means "no reading", never zero.
type SensorRecord struct {
	Timestamp time.Time          `json:"timestamp"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Anomaly flags a metric value that crossed a rule threshold.
type Anomaly struct {
	Metric   string           `json:"metric"`
	Severity metrics.Severity `json:"severity"`
	Message  string           `json:"message"`
}

// ChartPoint is one renderable sample: either a single mapped record
// (SampleCount=1) or a bucket average (SampleCount = raw records in the
// bucket). A key absent from Values means no data for that metric; callers
// must break the polyline there, never interpolate.
type ChartPoint struct {
	Timestamp   time.Time          `json:"timestamp"`
	SampleCount int                `json:"sample_count"`
	Values      map[string]float64 `json:"values"`
	Anomalies   []Anomaly          `json:"anomalies,omitempty"`
}

// Value returns the plotted (already scaled) value for key and whether the
// point carries one.
func (p ChartPoint) Value(key string) (float64, bool) {
	v, ok := p.Values[key]
	return v, ok
}

// LODSet maps a bucket label ("raw", "5min", ...) to that resolution's
// point sequence, sorted ascending by timestamp. "raw" always exists and
// has one point per input record.
type LODSet map[string][]ChartPoint

// BucketMinutes lists the fixed aggregation resolutions precomputed per
// generate action, finest first.
var BucketMinutes = []int{5, 15, 60, 240, 1440}

// BucketLabel names a resolution; minutes <= 0 is the raw series.
func BucketLabel(minutes int) string {
	if minutes <= 0 {
		return "raw"
	}
	return fmt.Sprintf("%dmin", minutes)
}
