package models

import "time"

// MeasurementRow represents a single normalized BQM sample.
// Latency values are converted to milliseconds on load; a nil pointer
// means the source field was absent or unparseable.
type MeasurementRow struct {
	Timestamp  time.Time `json:"timestamp"`
	MinLatency *float64  `json:"min_latency_ms"` // milliseconds
	AvgLatency *float64  `json:"avg_latency_ms"` // milliseconds
	MaxLatency *float64  `json:"max_latency_ms"` // milliseconds
	SentPolls  *float64  `json:"sent_polls"`
	LostPolls  float64   `json:"lost_polls"`
	PacketLoss *float64  `json:"packet_loss"` // percentage
}

// DailyDataset holds one day of samples loaded from a single CSV file
type DailyDataset struct {
	Date    time.Time        `json:"date"`
	Source  string           `json:"source"`
	Rows    []MeasurementRow `json:"rows"`
	Dropped int              `json:"dropped"` // rows discarded for bad timestamps
}
