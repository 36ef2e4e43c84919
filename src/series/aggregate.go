package series

import (
	"time"

	"github.com/Treystu/BMSview-sub013/src/logging"
	"github.com/Treystu/BMSview-sub013/src/metrics"
)

// Aggregate partitions sorted records into fixed-width, epoch-aligned
// buckets (bucketStart = floor(unixSeconds/width)*width) and averages each
// metric over its non-null samples. A bucket contributes no value for a
// metric none of its records carried. bucketMinutes <= 0 returns the raw
// series (every record mapped individually).
//
// Anomaly rules run once per bucket on the averaged source value, not on
// each raw sample. Coarse zoom levels therefore smooth out transient
// spikes that would fire at raw resolution; this is the intended
// noise/performance tradeoff.
func Aggregate(records []SensorRecord, bucketMinutes int) []ChartPoint {
	if bucketMinutes <= 0 {
		out := make([]ChartPoint, 0, len(records))
		for _, r := range records {
			out = append(out, MapRecord(r))
		}
		return out
	}

	width := int64(bucketMinutes) * 60
	keys := metrics.Keys()

	var out []ChartPoint
	var cur int64 = 0
	started := false
	var sums map[string]float64
	var counts map[string]int
	var samples int

	flush := func() {
		if !started || samples == 0 {
			return
		}
		pt := ChartPoint{
			Timestamp:   time.Unix(cur, 0).UTC(),
			SampleCount: samples,
			Values:      make(map[string]float64, len(sums)),
		}
		for _, key := range keys {
			n := counts[key]
			if n == 0 {
				continue
			}
			mean := sums[key] / float64(n)
			d, err := metrics.Describe(key)
			if err != nil {
				continue
			}
			pt.Values[key] = mean * d.Multiplier
			if d.Rule != nil {
				if f := d.Rule(mean); f != nil {
					pt.Anomalies = append(pt.Anomalies, Anomaly{Metric: key, Severity: f.Severity, Message: f.Message})
				}
			}
		}
		out = append(out, pt)
	}

	for _, r := range records {
		start := r.Timestamp.Unix() / width * width
		if !started || start != cur {
			flush()
			cur = start
			started = true
			sums = make(map[string]float64, len(keys))
			counts = make(map[string]int, len(keys))
			samples = 0
		}
		samples++
		for k, v := range r.Metrics {
			if _, ok := counts[k]; !ok {
				if _, err := metrics.Describe(k); err != nil {
					continue
				}
			}
			sums[k] += v
			counts[k]++
		}
	}
	flush()
	return out
}

// BuildLODSet precomputes the full resolution ladder for one generated
// dataset: the raw series plus every entry of BucketMinutes. This runs once
// per explicit generate action, never inside the pan/zoom hot path.
func BuildLODSet(records []SensorRecord) LODSet {
	defer logging.TimeTrack(time.Now(), "BuildLODSet")
	set := make(LODSet, len(BucketMinutes)+1)
	set[BucketLabel(0)] = Aggregate(records, 0)
	for _, m := range BucketMinutes {
		set[BucketLabel(m)] = Aggregate(records, m)
	}
	logging.Debugf("lod set built: records=%d levels=%d", len(records), len(set))
	return set
}
