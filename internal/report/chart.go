package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"bqm-report/internal/config"
	"bqm-report/internal/models"
)

// Canvas dimensions, a 16x8 inch figure at 150 DPI
const (
	chartWidth  = 2400
	chartHeight = 1200
	chartDPI    = 150
)

// Series and grid palette
var (
	colorMin     = drawing.Color{R: 0, G: 128, B: 0, A: 255}
	colorAvg     = drawing.Color{R: 0, G: 0, B: 255, A: 255}
	colorMax     = drawing.Color{R: 255, G: 215, B: 0, A: 255}
	colorSpike   = drawing.Color{R: 255, G: 0, B: 0, A: 255}
	colorBandLow = drawing.Color{R: 0, G: 128, B: 0, A: 38}
	colorBandTop = drawing.Color{R: 0, G: 0, B: 255, A: 38}
	colorLoss    = drawing.Color{R: 255, G: 0, B: 0, A: 77}
	colorOutage  = drawing.Color{R: 139, G: 0, B: 0, A: 31}
	colorGrid    = drawing.Color{R: 176, G: 176, B: 176, A: 102}
)

var gridStyle = chart.Style{
	StrokeColor:     colorGrid,
	StrokeWidth:     1.0,
	StrokeDashArray: []float64{5, 5},
}

// Renderer draws one PNG chart per daily dataset
type Renderer struct {
	cfg config.Config
}

// NewRenderer creates a chart renderer for the given configuration
func NewRenderer(cfg config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// RenderDay renders a dataset into <output>/bqm_<date>.png, overwriting
// any previous chart for the day, and returns the written path. Datasets
// without any plottable rows are rejected before a file is created.
func (r *Renderer) RenderDay(ds *models.DailyDataset) (string, error) {
	if len(ds.Rows) == 0 {
		return "", fmt.Errorf("%s contains no plottable rows", ds.Source)
	}

	start, end := dayWindow(ds.Rows[0].Timestamp)
	rows := clipToWindow(ds.Rows, start, end)
	if len(rows) == 0 {
		return "", fmt.Errorf("%s has no rows within %s", ds.Source, start.Format("2006-01-02"))
	}

	graph := r.buildChart(ds, rows, start, end)

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(r.cfg.OutputDir, fmt.Sprintf("bqm_%s.png", ds.Date.Format("2006-01-02")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := graph.Render(chart.PNG, file); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func (r *Renderer) buildChart(ds *models.DailyDataset, rows []models.MeasurementRow, start, end time.Time) chart.Chart {
	graph := chart.Chart{
		Title: fmt.Sprintf("BQM Latency & Packet Loss — %s", ds.Date.Format("2006-01-02")),
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    20,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:          chartWidth,
		Height:         chartHeight,
		DPI:            chartDPI,
		XAxis:          buildXAxis(start, end),
		YAxis:          r.buildLatencyAxis(rows),
		YAxisSecondary: buildLossAxis(),
		Series:         r.buildSeries(rows, end),
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{FontSize: 9}),
	}
	return graph
}

// buildSeries assembles the series in draw order, which is also the
// legend order: latency bands, latency lines and spike markers on the
// primary axis, then the loss area and outage shading on the secondary.
func (r *Renderer) buildSeries(rows []models.MeasurementRow, end time.Time) []chart.Series {
	enhanced := r.cfg.Style == config.StyleEnhanced

	var series []chart.Series
	if enhanced {
		series = append(series,
			bandSeries{
				Name:     "Min → Avg",
				Style:    chart.Style{StrokeColor: colorBandLow, StrokeWidth: 1.0, FillColor: colorBandLow},
				Segments: bandSegments(rows, minLatency, avgLatency),
			},
			bandSeries{
				Name:     "Avg → Max",
				Style:    chart.Style{StrokeColor: colorBandTop, StrokeWidth: 1.0, FillColor: colorBandTop},
				Segments: bandSegments(rows, avgLatency, maxLatency),
			},
		)
	}

	series = append(series,
		gapLineSeries{
			Name:     "Min Latency",
			Style:    chart.Style{StrokeColor: colorMin, StrokeWidth: 2.5},
			Segments: lineSegments(rows, minLatency),
		},
		gapLineSeries{
			Name:     "Avg Latency",
			Style:    chart.Style{StrokeColor: colorAvg, StrokeWidth: 3.0},
			Segments: lineSegments(rows, avgLatency),
		},
		gapLineSeries{
			Name:     "Max Latency",
			Style:    chart.Style{StrokeColor: colorMax, StrokeWidth: 2.5},
			Segments: lineSegments(rows, maxLatency),
		},
	)

	if enhanced {
		xs, ys := spikePoints(rows, r.cfg.SpikeThreshold)
		series = append(series, markerSeries{
			Name:    "Latency Spike",
			Style:   chart.Style{StrokeColor: colorSpike, StrokeWidth: 2.0, DotColor: colorSpike, DotWidth: 4},
			XValues: xs,
			YValues: ys,
		})
	}

	series = append(series, stepAreaSeries{
		Name:     "Packet Loss (%)",
		Style:    chart.Style{StrokeColor: colorLoss, StrokeWidth: 2.0, FillColor: colorLoss},
		Segments: stepSegments(rows, chart.TimeToFloat64(end)),
	})

	if enhanced {
		series = append(series, shadeSeries{
			Name:  "Outage",
			Style: chart.Style{StrokeColor: colorOutage, StrokeWidth: 2.0, FillColor: colorOutage},
			Spans: outageXSpans(rows, r.cfg.OutageThreshold),
		})
	}
	return series
}

func buildXAxis(start, end time.Time) chart.XAxis {
	return chart.XAxis{
		Name: "Time",
		NameStyle: chart.Style{
			FontSize: 12,
		},
		Style: chart.Style{
			StrokeColor:         drawing.ColorBlack,
			FontSize:            10,
			TextRotationDegrees: 45,
		},
		Range: &chart.ContinuousRange{
			Min: chart.TimeToFloat64(start),
			Max: chart.TimeToFloat64(end),
		},
		Ticks:          hourTicks(start, end),
		GridLines:      timeGridLines(start, end),
		GridMajorStyle: gridStyle,
		GridMinorStyle: gridStyle,
	}
}

func (r *Renderer) buildLatencyAxis(rows []models.MeasurementRow) chart.YAxis {
	return chart.YAxis{
		Name: "Latency (ms)",
		NameStyle: chart.Style{
			FontSize: 12,
		},
		Style: chart.Style{
			StrokeColor: drawing.ColorBlack,
			FontSize:    10,
		},
		ValueFormatter: latencyLabel,
		Range:          latencyRange(rows, r.cfg.LogScale),
		GridMajorStyle: gridStyle,
		GridMinorStyle: gridStyle,
	}
}

func buildLossAxis() chart.YAxis {
	return chart.YAxis{
		Name: "Packet Loss (%)",
		NameStyle: chart.Style{
			FontSize: 12,
		},
		Style: chart.Style{
			StrokeColor: drawing.ColorBlack,
			FontSize:    10,
		},
		Range: &chart.ContinuousRange{Min: 0, Max: 100, Descending: true},
		Ticks: lossTicks(),
	}
}

func minLatency(row models.MeasurementRow) *float64 { return row.MinLatency }
func avgLatency(row models.MeasurementRow) *float64 { return row.AvgLatency }
func maxLatency(row models.MeasurementRow) *float64 { return row.MaxLatency }
