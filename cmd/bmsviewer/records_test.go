package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Treystu/BMSview-sub013/src/chartengine"
	"github.com/Treystu/BMSview-sub013/src/series"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "records.jsonl")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadRecordsParsesAndSorts(t *testing.T) {
	p := writeTemp(t, strings.Join([]string{
		`{"timestamp":"2026-03-02T00:00:00Z","metrics":{"voltage":51.3}}`,
		`{"timestamp":"2026-03-01T00:00:00Z","metrics":{"voltage":51.1,"current":12}}`,
	}, "\n")+"\n")
	recs, err := loadRecords(p)
	if err != nil {
		t.Fatalf("loadRecords: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if !recs[0].Timestamp.Before(recs[1].Timestamp) {
		t.Fatalf("records not sorted: %v then %v", recs[0].Timestamp, recs[1].Timestamp)
	}
	if recs[0].Metrics["current"] != 12 {
		t.Fatalf("metrics lost in parse: %v", recs[0].Metrics)
	}
}

func TestLoadRecordsSkipsBadLines(t *testing.T) {
	p := writeTemp(t, strings.Join([]string{
		`{"timestamp":"2026-03-01T00:00:00Z","metrics":{"voltage":51.1}}`,
		`not json at all`,
		``,
		`{"metrics":{"voltage":50}}`,
		`{"timestamp":"2026-03-01T00:05:00Z","metrics":{"voltage":51.2}}`,
	}, "\n"))
	recs, err := loadRecords(p)
	if err != nil {
		t.Fatalf("loadRecords: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 good records, got %d", len(recs))
	}
}

func TestLoadRecordsMissingFile(t *testing.T) {
	if _, err := loadRecords(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOverrideFor(t *testing.T) {
	cases := []struct {
		label string
		want  chartengine.Override
	}{
		{"Auto", chartengine.Override{}},
		{"", chartengine.Override{}},
		{"Raw", chartengine.Override{Enabled: true, BucketMinutes: 0}},
		{"5min", chartengine.Override{Enabled: true, BucketMinutes: 5}},
		{"1440min", chartengine.Override{Enabled: true, BucketMinutes: 1440}},
		{"garbage", chartengine.Override{}},
	}
	for _, tc := range cases {
		if got := overrideFor(tc.label); got != tc.want {
			t.Errorf("overrideFor(%q) = %+v, want %+v", tc.label, got, tc.want)
		}
	}
}

func TestTooltipTextListsPlottedValues(t *testing.T) {
	p := series.ChartPoint{
		Timestamp:   time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		SampleCount: 3,
		Values:      map[string]float64{"voltage": 51.2, "current": 12.5, "temperature": 31},
		Anomalies:   []series.Anomaly{{Metric: "current", Severity: "warning", Message: "overcurrent"}},
	}
	assign := chartengine.DefaultAssignment()
	text := tooltipText(p, assign)
	if !strings.Contains(text, "2026-03-01 12:30") {
		t.Fatalf("missing timestamp: %q", text)
	}
	if !strings.Contains(text, "3 samples") {
		t.Fatalf("missing sample count: %q", text)
	}
	if !strings.Contains(text, "Voltage") || !strings.Contains(text, "51.2") {
		t.Fatalf("missing voltage line: %q", text)
	}
	if !strings.Contains(text, "overcurrent") {
		t.Fatalf("missing anomaly line: %q", text)
	}
}

func TestTooltipTextSkipsAbsentMetrics(t *testing.T) {
	p := series.ChartPoint{
		Timestamp:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		SampleCount: 1,
		Values:      map[string]float64{"voltage": 51.2},
	}
	text := tooltipText(p, chartengine.DefaultAssignment())
	if strings.Contains(text, "Current") {
		t.Fatalf("absent metric should not appear: %q", text)
	}
	if strings.Contains(text, "samples") {
		t.Fatalf("single-sample points should omit the count: %q", text)
	}
}
