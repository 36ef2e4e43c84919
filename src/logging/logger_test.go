package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := sink
	sink = log.New(&buf, "", 0)
	t.Cleanup(func() {
		sink = saved
		SetLogLevel("info")
	})
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureOutput(t)
	SetLogLevel("info")

	Infof("[pack-7] generated lods raw=4231 buckets=5 span=62d soc=97.5% (100.0% of rated)")

	out := buf.String()
	if !strings.Contains(out, "(100.0% of rated)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "(MISSING)") {
		t.Fatalf("log output shows fmt artifact: %s", out)
	}
}

func TestSetLogLevel_FiltersBelowThreshold(t *testing.T) {
	buf := captureOutput(t)

	SetLogLevel("warn")
	Infof("should be suppressed")
	Warnf("should appear")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info line leaked past warn level: %s", out)
	}
	if !strings.Contains(out, "[WARN] should appear") {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestSetLogLevel_UnknownNameKeepsLevel(t *testing.T) {
	buf := captureOutput(t)

	SetLogLevel("warn")
	SetLogLevel("bogus")
	Infof("still suppressed")
	Errorf("still emitted")

	out := buf.String()
	if strings.Contains(out, "still suppressed") {
		t.Fatalf("unknown level name lowered the threshold: %s", out)
	}
	if !strings.Contains(out, "[ERROR] still emitted") {
		t.Fatalf("error line missing: %s", out)
	}
}

func TestSetLogLevel_AcceptsWarningAlias(t *testing.T) {
	buf := captureOutput(t)

	SetLogLevel("Warning")
	Infof("below threshold")
	Warnf("at threshold")

	out := buf.String()
	if strings.Contains(out, "below threshold") {
		t.Fatalf("warning alias not applied: %s", out)
	}
	if !strings.Contains(out, "[WARN] at threshold") {
		t.Fatalf("warn line missing: %s", out)
	}
}
