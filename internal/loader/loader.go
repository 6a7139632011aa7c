package loader

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bqm-report/internal/models"
)

// Required CSV columns. Extra columns are ignored.
const (
	colTimestamp  = "Timestamp"
	colMinLatency = "Min Latency (ns)"
	colAvgLatency = "Ave Latency (ns)"
	colMaxLatency = "Max Latency (ns)"
	colSentPolls  = "Sent Polls"
	colLostPolls  = "Lost Polls"
)

// nanosecondsPerMillisecond converts raw BQM latency readings.
const nanosecondsPerMillisecond = 1e6

// timestampLayouts are tried in order; the first successful parse wins.
// Timestamps without zone information are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// SchemaError reports required columns missing from a CSV header
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// LoadFile reads and normalizes one daily CSV. Rows with unparseable
// timestamps are dropped and counted in Dropped; rows with unparseable
// numeric fields are kept with the affected values missing. Structural
// CSV errors and missing required columns fail the whole file.
func LoadFile(path string, date time.Time) (*models.DailyDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}

	cols, err := indexColumns(records[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ds := &models.DailyDataset{
		Date:   date,
		Source: filepath.Base(path),
	}
	for _, record := range records[1:] {
		ts, ok := parseTimestamp(record[cols[colTimestamp]])
		if !ok {
			ds.Dropped++
			continue
		}

		row := models.MeasurementRow{
			Timestamp:  ts,
			MinLatency: parseLatency(record[cols[colMinLatency]]),
			AvgLatency: parseLatency(record[cols[colAvgLatency]]),
			MaxLatency: parseLatency(record[cols[colMaxLatency]]),
			SentPolls:  parseNumber(record[cols[colSentPolls]]),
		}
		if lost := parseNumber(record[cols[colLostPolls]]); lost != nil {
			row.LostPolls = *lost
		}
		if row.SentPolls != nil && *row.SentPolls != 0 {
			loss := row.LostPolls / *row.SentPolls * 100
			row.PacketLoss = &loss
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range []string{colTimestamp, colMinLatency, colAvgLatency, colMaxLatency, colSentPolls, colLostPolls} {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return cols, nil
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseLatency converts a nanosecond reading to milliseconds
func parseLatency(value string) *float64 {
	raw := parseNumber(value)
	if raw == nil {
		return nil
	}
	ms := *raw / nanosecondsPerMillisecond
	return &ms
}

// parseNumber returns nil for anything that is not a finite number.
// ParseFloat accepts "NaN" and "Inf" spellings; both count as missing.
func parseNumber(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
