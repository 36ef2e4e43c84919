// recordgen writes a synthetic BMS telemetry capture as JSONL, one
// SensorRecord per line. It models a 16s LiFePO4 pack on a daily
// charge/discharge cycle with noise, occasional telemetry gaps and a few
// injected fault excursions, which makes it useful for exercising the
// viewer's aggregation and anomaly paths without real hardware.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/Treystu/BMSview-sub013/src/logging"
	"github.com/Treystu/BMSview-sub013/src/series"
)

func main() {
	var (
		out      string
		days     int
		interval int
		seed     int64
		capacity float64
	)
	flag.StringVar(&out, "out", "bms_records.jsonl", "Output JSONL path")
	flag.IntVar(&days, "days", 14, "Days of history to generate")
	flag.IntVar(&interval, "interval", 1, "Sample interval in minutes")
	flag.Int64Var(&seed, "seed", 1, "PRNG seed")
	flag.Float64Var(&capacity, "capacity", 280, "Nominal pack capacity in Ah")
	flag.Parse()

	if days <= 0 || interval <= 0 {
		fmt.Fprintln(os.Stderr, "days and interval must be positive")
		os.Exit(2)
	}

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", out, err)
		os.Exit(1)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	rng := rand.New(rand.NewSource(seed))
	start := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour).Truncate(time.Minute)
	step := time.Duration(interval) * time.Minute
	n := 0
	enc := json.NewEncoder(w)
	for ts := start; ts.Before(start.Add(time.Duration(days) * 24 * time.Hour)); ts = ts.Add(step) {
		// a short outage roughly once a day
		if rng.Float64() < 0.002 {
			ts = ts.Add(time.Duration(20+rng.Intn(40)) * time.Minute)
			continue
		}
		rec := sample(ts, start, rng, capacity)
		if err := enc.Encode(rec); err != nil {
			fmt.Fprintf(os.Stderr, "write: %v\n", err)
			os.Exit(1)
		}
		n++
	}
	logging.Infof("recordgen: wrote %d records to %s", n, out)
}

// sample produces one record at ts. Values follow a daily solar cycle:
// charge through the morning, float at noon, discharge overnight.
func sample(ts, start time.Time, rng *rand.Rand, capacity float64) series.SensorRecord {
	dayFrac := float64(ts.Hour()*60+ts.Minute()) / (24 * 60)
	phase := 2 * math.Pi * dayFrac

	soc := 55 + 35*math.Sin(phase-math.Pi/2) + rng.Float64()*2
	soc = math.Max(5, math.Min(100, soc))
	// LiFePO4 voltage is flat mid-SOC with knees at the ends
	voltage := 51.2 + 0.04*(soc-50) + 0.3*math.Tanh((soc-90)/5) - 0.5*math.Tanh((10-soc)/3) + rng.NormFloat64()*0.05
	current := 60 * math.Sin(phase-math.Pi/2) * (0.8 + rng.Float64()*0.4)
	temperature := 25 + 8*math.Sin(phase-math.Pi/2) + rng.NormFloat64()
	cellDelta := 0.015 + 0.01*math.Abs(current)/60 + rng.Float64()*0.005

	// rare excursions that trip the anomaly rules
	switch {
	case rng.Float64() < 0.0015:
		current = 110 + rng.Float64()*30
	case rng.Float64() < 0.0015:
		temperature = 47 + rng.Float64()*18
	case rng.Float64() < 0.001:
		cellDelta = 0.06 + rng.Float64()*0.12
	}

	// slow capacity fade over the generated span
	age := ts.Sub(start).Hours() / 24
	fadedCap := capacity * (1 - 0.0001*age) * (0.98 + rng.Float64()*0.04)

	m := map[string]float64{
		"voltage":     round(voltage, 3),
		"current":     round(current, 2),
		"power":       round(voltage*current, 1),
		"temperature": round(temperature, 2),
		"soc":         round(soc, 1),
		"capacity":    round(fadedCap, 1),
		"cellDelta":   round(cellDelta, 4),
		"cycleCount":  math.Floor(age * 0.9),
	}
	// sparse sensors drop out sometimes
	if rng.Float64() < 0.03 {
		delete(m, "temperature")
	}
	if rng.Float64() < 0.05 {
		delete(m, "cellDelta")
	}
	return series.SensorRecord{Timestamp: ts, Metrics: m}
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
