package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Treystu/BMSview-sub013/src/logging"
	"github.com/Treystu/BMSview-sub013/src/series"
)

// loadRecords reads one SensorRecord per line from a JSONL file. Lines
// that fail to parse are skipped with a warning so a partially corrupt
// capture still charts.
func loadRecords(path string) ([]series.SensorRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var out []series.SensorRecord
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec series.SensorRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			logging.Warnf("records: skipping line %d: %v", line, err)
			continue
		}
		if rec.Timestamp.IsZero() {
			logging.Warnf("records: skipping line %d: missing timestamp", line)
			continue
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	logging.Infof("records: loaded %d rows from %s", len(out), path)
	return out, nil
}
