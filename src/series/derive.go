package series

import "time"

// WithStateOfHealth layers the computed "soh" metric (remaining capacity as
// a percentage of the system's rated capacity) onto every record carrying a
// capacity reading. Input records are never mutated; the returned slice
// holds shallow copies with fresh metric maps where soh was added.
// A non-positive rated capacity disables the derivation.
func WithStateOfHealth(records []SensorRecord, ratedCapacityAh float64) []SensorRecord {
	if ratedCapacityAh <= 0 {
		return records
	}
	out := make([]SensorRecord, len(records))
	for i, r := range records {
		cap, ok := r.Metrics["capacity"]
		if !ok {
			out[i] = r
			continue
		}
		m := make(map[string]float64, len(r.Metrics)+1)
		for k, v := range r.Metrics {
			m[k] = v
		}
		m["soh"] = cap / ratedCapacityAh * 100
		out[i] = SensorRecord{Timestamp: r.Timestamp, Metrics: m}
	}
	return out
}

// FilterRange keeps records with from <= timestamp <= to. A zero bound is
// open on that side.
func FilterRange(records []SensorRecord, from, to time.Time) []SensorRecord {
	out := make([]SensorRecord, 0, len(records))
	for _, r := range records {
		if !from.IsZero() && r.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && r.Timestamp.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}
