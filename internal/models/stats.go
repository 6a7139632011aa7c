package models

import "time"

// DayStats represents aggregated statistics for one rendered day
type DayStats struct {
	Date        time.Time `json:"date"`
	SourceFile  string    `json:"source_file"`
	ChartPath   string    `json:"chart_path"`
	Rows        int       `json:"rows"`
	DroppedRows int       `json:"dropped_rows"`
	MinLatency  *float64  `json:"min_latency_ms"`
	AvgLatency  *float64  `json:"avg_latency_ms"`
	MaxLatency  *float64  `json:"max_latency_ms"`
	MaxLoss     *float64  `json:"max_loss_pct"`
	OutageCount int       `json:"outage_count"`
	SpikeCount  int       `json:"spike_count"`
}

// TimeSpan is a half-open interval [Start, End)
type TimeSpan struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the span
func (s TimeSpan) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// OutageSpans returns the contiguous intervals during which packet loss
// held at or above threshold. Each sample's state holds until the next
// sample; the final sample holds for zero width, so a lone trailing
// outage sample produces no span. Samples with missing loss are never
// in an outage and end any open span.
func OutageSpans(rows []MeasurementRow, threshold float64) []TimeSpan {
	var spans []TimeSpan
	var start time.Time
	active := false

	for _, row := range rows {
		in := row.PacketLoss != nil && *row.PacketLoss >= threshold
		if in && !active {
			start = row.Timestamp
			active = true
		} else if !in && active {
			spans = append(spans, TimeSpan{Start: start, End: row.Timestamp})
			active = false
		}
	}
	if active {
		last := rows[len(rows)-1].Timestamp
		if last.After(start) {
			spans = append(spans, TimeSpan{Start: start, End: last})
		}
	}
	return spans
}

// ComputeDayStats aggregates a loaded dataset into per-day statistics.
// Latency and loss aggregates stay nil when no sample carries a value.
// A spike is a sample whose max latency strictly exceeds spikeThreshold
// (milliseconds); an outage requires loss at or above outageThreshold
// (percent).
func ComputeDayStats(ds *DailyDataset, spikeThreshold, outageThreshold float64) DayStats {
	stats := DayStats{
		Date:        ds.Date,
		SourceFile:  ds.Source,
		Rows:        len(ds.Rows),
		DroppedRows: ds.Dropped,
	}

	var avgSum float64
	var avgCount int
	for _, row := range ds.Rows {
		if row.MinLatency != nil && (stats.MinLatency == nil || *row.MinLatency < *stats.MinLatency) {
			v := *row.MinLatency
			stats.MinLatency = &v
		}
		if row.AvgLatency != nil {
			avgSum += *row.AvgLatency
			avgCount++
		}
		if row.MaxLatency != nil {
			if stats.MaxLatency == nil || *row.MaxLatency > *stats.MaxLatency {
				v := *row.MaxLatency
				stats.MaxLatency = &v
			}
			if *row.MaxLatency > spikeThreshold {
				stats.SpikeCount++
			}
		}
		if row.PacketLoss != nil && (stats.MaxLoss == nil || *row.PacketLoss > *stats.MaxLoss) {
			v := *row.PacketLoss
			stats.MaxLoss = &v
		}
	}
	if avgCount > 0 {
		mean := avgSum / float64(avgCount)
		stats.AvgLatency = &mean
	}
	stats.OutageCount = len(OutageSpans(ds.Rows, outageThreshold))

	return stats
}
