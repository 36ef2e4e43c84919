// Package metrics holds the static descriptor table for every metric the
// historical chart can plot, including per-metric anomaly rules.
package metrics

import (
	"fmt"
	"sort"
)

// Severity classifies how serious a rule violation is.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// SourceGroup tells where a metric's value originates.
type SourceGroup string

const (
	// SourcePrimary metrics are read directly off the BMS record.
	SourcePrimary SourceGroup = "primary"
	// SourceSecondary metrics are derived (computed from other readings or metadata).
	SourceSecondary SourceGroup = "secondary"
)

// Side names a vertical axis of the chart.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Finding is the result of an anomaly rule firing for a single value.
type Finding struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// RuleFunc evaluates one numeric value in source units (pre-scaling) and
// returns a Finding when the value violates the rule, nil otherwise.
// Rules are pure: no history, no state.
type RuleFunc func(value float64) *Finding

// Descriptor describes one plottable metric.
type Descriptor struct {
	Key        string
	Label      string
	Unit       string
	Color      string // hex, e.g. "#42a5f5"
	Multiplier float64
	Source     SourceGroup
	// DefaultSide is the axis the metric lands on when first plotted.
	DefaultSide Side
	// Rule is evaluated on the raw source value, before Multiplier is applied.
	// Thresholds are therefore expressed in source units (volts, amps, degrees C).
	Rule RuleFunc
}

// UnknownMetricError reports a lookup for a key that is not registered.
// A closed registry means this is a programmer error, not a runtime condition.
type UnknownMetricError struct {
	Key string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q", e.Key)
}

func above(threshold float64, sev Severity, msg string) RuleFunc {
	return func(v float64) *Finding {
		if v > threshold {
			return &Finding{Severity: sev, Message: msg}
		}
		return nil
	}
}

func below(threshold float64, sev Severity, msg string) RuleFunc {
	return func(v float64) *Finding {
		if v < threshold {
			return &Finding{Severity: sev, Message: msg}
		}
		return nil
	}
}

// firstOf chains rules; the first Finding wins, so list the most severe first.
func firstOf(rules ...RuleFunc) RuleFunc {
	return func(v float64) *Finding {
		for _, r := range rules {
			if f := r(v); f != nil {
				return f
			}
		}
		return nil
	}
}

// registry is the closed, process-lifetime constant metric table.
// Thresholds reflect a 16s LiFePO4 pack, the common case for the fleet.
var registry = map[string]Descriptor{
	"voltage": {
		Key: "voltage", Label: "Pack Voltage", Unit: "V", Color: "#42a5f5",
		Multiplier: 1, Source: SourcePrimary, DefaultSide: SideLeft,
		Rule: firstOf(
			above(58.4, SeverityCritical, "pack overvoltage"),
			below(44.0, SeverityWarning, "pack undervoltage"),
		),
	},
	"current": {
		Key: "current", Label: "Current", Unit: "A", Color: "#66bb6a",
		Multiplier: 1, Source: SourcePrimary, DefaultSide: SideRight,
		Rule: func(v float64) *Finding {
			if v > 100 || v < -100 {
				return &Finding{Severity: SeverityCritical, Message: "overcurrent"}
			}
			return nil
		},
	},
	"power": {
		// Source value is watts; plotted in kW.
		Key: "power", Label: "Power", Unit: "kW", Color: "#ab47bc",
		Multiplier: 0.001, Source: SourceSecondary, DefaultSide: SideRight,
	},
	"temperature": {
		Key: "temperature", Label: "Temperature", Unit: "°C", Color: "#ef5350",
		Multiplier: 1, Source: SourcePrimary, DefaultSide: SideRight,
		Rule: firstOf(
			above(60, SeverityCritical, "over-temperature"),
			above(45, SeverityWarning, "high temperature"),
		),
	},
	"soc": {
		Key: "soc", Label: "State of Charge", Unit: "%", Color: "#26c6da",
		Multiplier: 1, Source: SourcePrimary, DefaultSide: SideLeft,
		Rule: below(10, SeverityWarning, "low state of charge"),
	},
	"capacity": {
		Key: "capacity", Label: "Remaining Capacity", Unit: "Ah", Color: "#8d6e63",
		Multiplier: 1, Source: SourcePrimary, DefaultSide: SideLeft,
	},
	"cellDelta": {
		// Source value is volts; plotted in mV for readability.
		Key: "cellDelta", Label: "Cell Imbalance", Unit: "mV", Color: "#ffa726",
		Multiplier: 1000, Source: SourcePrimary, DefaultSide: SideRight,
		Rule: firstOf(
			above(0.15, SeverityCritical, "severe cell imbalance"),
			above(0.05, SeverityWarning, "cell imbalance"),
		),
	},
	"soh": {
		// Computed from remaining capacity against the system's rated capacity.
		Key: "soh", Label: "State of Health", Unit: "%", Color: "#78909c",
		Multiplier: 1, Source: SourceSecondary, DefaultSide: SideLeft,
		Rule: below(80, SeverityWarning, "degraded capacity"),
	},
	"cycleCount": {
		Key: "cycleCount", Label: "Cycle Count", Unit: "cycles", Color: "#bdbdbd",
		Multiplier: 1, Source: SourceSecondary, DefaultSide: SideRight,
	},
}

var sortedKeys []string

func init() {
	sortedKeys = make([]string, 0, len(registry))
	for k := range registry {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)
}

// Describe returns the descriptor for key or an *UnknownMetricError.
func Describe(key string) (Descriptor, error) {
	d, ok := registry[key]
	if !ok {
		return Descriptor{}, &UnknownMetricError{Key: key}
	}
	return d, nil
}

// Keys returns all registered metric keys in sorted order.
func Keys() []string {
	out := make([]string, len(sortedKeys))
	copy(out, sortedKeys)
	return out
}
