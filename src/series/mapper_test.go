package series

import (
	"testing"
	"time"

	"github.com/Treystu/BMSview-sub013/src/metrics"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMapRecord_ScalingAndAbsence(t *testing.T) {
	rec := SensorRecord{
		Timestamp: ts("2026-03-01T10:00:00Z"),
		Metrics: map[string]float64{
			"voltage":   52.1,
			"power":     2500, // watts; plotted as kW
			"cellDelta": 0.02, // volts; plotted as mV
		},
	}
	pt := MapRecord(rec)
	if pt.SampleCount != 1 {
		t.Fatalf("sample count %d want 1", pt.SampleCount)
	}
	if v, ok := pt.Value("voltage"); !ok || v != 52.1 {
		t.Fatalf("voltage: %v ok=%v", v, ok)
	}
	if v, ok := pt.Value("power"); !ok || v != 2.5 {
		t.Fatalf("power not scaled to kW: %v ok=%v", v, ok)
	}
	if v, ok := pt.Value("cellDelta"); !ok || v != 20 {
		t.Fatalf("cellDelta not scaled to mV: %v ok=%v", v, ok)
	}
	// Absent metrics stay absent, never zero.
	if _, ok := pt.Value("current"); ok {
		t.Fatalf("current should be absent")
	}
	if len(pt.Anomalies) != 0 {
		t.Fatalf("unexpected anomalies: %+v", pt.Anomalies)
	}
}

func TestMapRecord_RuleOnPreScaledValue(t *testing.T) {
	// 0.08 V imbalance trips the warning threshold (0.05 V). The plotted
	// value is 80 mV; if the rule saw the scaled value it would report
	// critical (>0.15), so severity proves pre-scale evaluation.
	rec := SensorRecord{
		Timestamp: ts("2026-03-01T10:00:00Z"),
		Metrics:   map[string]float64{"cellDelta": 0.08},
	}
	pt := MapRecord(rec)
	if len(pt.Anomalies) != 1 {
		t.Fatalf("anomalies: %+v", pt.Anomalies)
	}
	a := pt.Anomalies[0]
	if a.Metric != "cellDelta" || a.Severity != metrics.SeverityWarning {
		t.Fatalf("anomaly mismatch: %+v", a)
	}
}

func TestMapRecord_IgnoresUnregisteredKeys(t *testing.T) {
	rec := SensorRecord{
		Timestamp: ts("2026-03-01T10:00:00Z"),
		Metrics:   map[string]float64{"voltage": 50, "bogus": 1},
	}
	pt := MapRecord(rec)
	if _, ok := pt.Value("bogus"); ok {
		t.Fatalf("unregistered key leaked into chart point")
	}
}

func TestWithStateOfHealth(t *testing.T) {
	recs := []SensorRecord{
		{Timestamp: ts("2026-03-01T10:00:00Z"), Metrics: map[string]float64{"capacity": 85}},
		{Timestamp: ts("2026-03-01T10:05:00Z"), Metrics: map[string]float64{"voltage": 52}},
	}
	out := WithStateOfHealth(recs, 100)
	if v := out[0].Metrics["soh"]; v != 85 {
		t.Fatalf("soh: %v want 85", v)
	}
	if _, ok := out[1].Metrics["soh"]; ok {
		t.Fatalf("soh derived without a capacity reading")
	}
	// Originals untouched.
	if _, ok := recs[0].Metrics["soh"]; ok {
		t.Fatalf("input record mutated")
	}
	// Disabled when rated capacity is unknown.
	out = WithStateOfHealth(recs, 0)
	if _, ok := out[0].Metrics["soh"]; ok {
		t.Fatalf("soh derived despite zero rated capacity")
	}
}

func TestFilterRange(t *testing.T) {
	recs := []SensorRecord{
		{Timestamp: ts("2026-03-01T00:00:00Z")},
		{Timestamp: ts("2026-03-02T00:00:00Z")},
		{Timestamp: ts("2026-03-03T00:00:00Z")},
	}
	got := FilterRange(recs, ts("2026-03-02T00:00:00Z"), time.Time{})
	if len(got) != 2 || !got[0].Timestamp.Equal(ts("2026-03-02T00:00:00Z")) {
		t.Fatalf("from filter: %+v", got)
	}
	got = FilterRange(recs, time.Time{}, ts("2026-03-02T00:00:00Z"))
	if len(got) != 2 || !got[1].Timestamp.Equal(ts("2026-03-02T00:00:00Z")) {
		t.Fatalf("to filter (inclusive): %+v", got)
	}
	got = FilterRange(recs, time.Time{}, time.Time{})
	if len(got) != 3 {
		t.Fatalf("open range: %+v", got)
	}
}
