package series

import (
	"github.com/Treystu/BMSview-sub013/src/metrics"
)

// MapRecord flattens one raw record into a chart point. Present source
// values are scaled by the descriptor multiplier; the anomaly rule runs on
// the pre-scaled source value, since rule thresholds are defined in source
// units (volts, amps, degrees C). Absent metrics stay absent.
func MapRecord(rec SensorRecord) ChartPoint {
	pt := ChartPoint{
		Timestamp:   rec.Timestamp,
		SampleCount: 1,
		Values:      make(map[string]float64, len(rec.Metrics)),
	}
	for _, key := range metrics.Keys() {
		src, ok := rec.Metrics[key]
		if !ok {
			continue
		}
		d, err := metrics.Describe(key)
		if err != nil {
			// Keys() only yields registered keys; this cannot happen.
			continue
		}
		pt.Values[key] = src * d.Multiplier
		if d.Rule != nil {
			if f := d.Rule(src); f != nil {
				pt.Anomalies = append(pt.Anomalies, Anomaly{Metric: key, Severity: f.Severity, Message: f.Message})
			}
		}
	}
	return pt
}
