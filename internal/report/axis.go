package report

import (
	"math"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"bqm-report/internal/models"
)

// dayWindow returns the plotted time window: midnight of the first
// sample's day to exactly 24 hours later.
func dayWindow(first time.Time) (time.Time, time.Time) {
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location())
	return start, start.Add(24 * time.Hour)
}

// clipToWindow drops rows outside [start, end]. The chart library draws
// series past the plot box instead of clipping them, so out-of-window
// samples are removed before plotting.
func clipToWindow(rows []models.MeasurementRow, start, end time.Time) []models.MeasurementRow {
	var out []models.MeasurementRow
	for _, row := range rows {
		if row.Timestamp.Before(start) || row.Timestamp.After(end) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// hourTicks labels every full hour across the window
func hourTicks(start, end time.Time) []chart.Tick {
	var ticks []chart.Tick
	for t := start; !t.After(end); t = t.Add(time.Hour) {
		ticks = append(ticks, chart.Tick{
			Value: chart.TimeToFloat64(t),
			Label: t.Format("15:04"),
		})
	}
	return ticks
}

// timeGridLines returns major lines at full hours and minor lines every
// ten minutes between them.
func timeGridLines(start, end time.Time) []chart.GridLine {
	var lines []chart.GridLine
	for t := start; !t.After(end); t = t.Add(10 * time.Minute) {
		lines = append(lines, chart.GridLine{
			IsMinor: t.Minute() != 0,
			Value:   chart.TimeToFloat64(t),
		})
	}
	return lines
}

// lossTicks labels the inverted loss axis from 0 down to 100
func lossTicks() []chart.Tick {
	var ticks []chart.Tick
	for v := 0; v <= 100; v += 20 {
		ticks = append(ticks, chart.Tick{
			Value: float64(v),
			Label: strconv.Itoa(v),
		})
	}
	return ticks
}

// latencyRange computes the primary axis range from the finite latency
// values, padded by 5% and floored at zero. Datasets without a single
// latency value fall back to a fixed [0, 1] range so the chart still
// renders.
func latencyRange(rows []models.MeasurementRow, logScale bool) chart.Range {
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, row := range rows {
		for _, v := range []*float64{row.MinLatency, row.AvgLatency, row.MaxLatency} {
			if v == nil {
				continue
			}
			if *v < lo {
				lo = *v
			}
			if *v > hi {
				hi = *v
			}
		}
	}
	if lo > hi {
		lo, hi = 0, 1
	}

	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	lo -= pad
	if lo < 0 {
		lo = 0
	}
	hi += pad

	if logScale {
		if lo < 0.1 {
			lo = 0.1
		}
		if hi <= lo {
			hi = lo * 10
		}
		return &chart.LogarithmicRange{Min: lo, Max: hi}
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// latencyLabel formats primary axis tick values without trailing noise
func latencyLabel(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}
