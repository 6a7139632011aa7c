package report

import (
	"github.com/wcharczuk/go-chart/v2"

	"bqm-report/internal/models"
)

// xyValues is one contiguous run of samples in chart value space
type xyValues struct {
	xs []float64
	ys []float64
}

func (v xyValues) Len() int                           { return len(v.xs) }
func (v xyValues) GetValues(i int) (float64, float64) { return v.xs[i], v.ys[i] }

// gapLineSeries draws a latency line split into contiguous segments, so
// samples with missing values leave visible gaps instead of interpolated
// bridges across them.
type gapLineSeries struct {
	Name     string
	Style    chart.Style
	Segments []xyValues
}

func (s gapLineSeries) GetName() string           { return s.Name }
func (s gapLineSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s gapLineSeries) GetStyle() chart.Style     { return s.Style }
func (s gapLineSeries) Validate() error           { return nil }

func (s gapLineSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := s.Style.InheritFrom(defaults)
	for _, seg := range s.Segments {
		if seg.Len() < 2 {
			continue
		}
		chart.Draw.LineSeries(r, canvasBox, xrange, yrange, style, seg)
	}
}

// bandValues is one contiguous run of lower/upper latency bounds
type bandValues struct {
	xs  []float64
	y1s []float64
	y2s []float64
}

func (v bandValues) Len() int { return len(v.xs) }
func (v bandValues) GetBoundedValues(i int) (float64, float64, float64) {
	return v.xs[i], v.y1s[i], v.y2s[i]
}

// GetBoundedLastValues satisfies chart.FullBoundedValuesProvider, which
// chart.Draw.BoundedSeries requires of its input.
func (v bandValues) GetBoundedLastValues() (float64, float64, float64) {
	return v.GetBoundedValues(v.Len() - 1)
}

// bandSeries fills the area between two latency lines. Rows where either
// bound is missing split the band the same way lines are split.
type bandSeries struct {
	Name     string
	Style    chart.Style
	Segments []bandValues
}

func (s bandSeries) GetName() string           { return s.Name }
func (s bandSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s bandSeries) GetStyle() chart.Style     { return s.Style }
func (s bandSeries) Validate() error           { return nil }

func (s bandSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := s.Style.InheritFrom(defaults)
	for _, seg := range s.Segments {
		if seg.Len() < 2 {
			continue
		}
		chart.Draw.BoundedSeries(r, canvasBox, xrange, yrange, style, seg)
	}
}

// markerSeries draws dot markers. Unlike the builtin series it tolerates
// an empty point set, so its legend entry survives days without a single
// qualifying sample.
type markerSeries struct {
	Name    string
	Style   chart.Style
	XValues []float64
	YValues []float64
}

func (s markerSeries) GetName() string           { return s.Name }
func (s markerSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s markerSeries) GetStyle() chart.Style     { return s.Style }
func (s markerSeries) Validate() error           { return nil }

func (s markerSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := s.Style.InheritFrom(defaults)
	defer r.ResetStyle()

	r.SetFillColor(style.DotColor)
	r.SetStrokeColor(style.DotColor)
	for i := range s.XValues {
		x := canvasBox.Left + xrange.Translate(s.XValues[i])
		y := canvasBox.Bottom - yrange.Translate(s.YValues[i])
		r.Circle(style.DotWidth, x, y)
		r.Fill()
	}
}

// stepValues is one contiguous run of loss samples. Each value holds
// until the next sample; endX is where the final sample's hold stops.
type stepValues struct {
	xs   []float64
	ys   []float64
	endX float64
}

// stepAreaSeries fills the area between the secondary axis zero line and
// a stepped value line. With the descending loss range the zero line is
// the top of the canvas, so the area hangs down from the top edge.
type stepAreaSeries struct {
	Name     string
	Style    chart.Style
	Segments []stepValues
}

func (s stepAreaSeries) GetName() string           { return s.Name }
func (s stepAreaSeries) GetYAxis() chart.YAxisType { return chart.YAxisSecondary }
func (s stepAreaSeries) GetStyle() chart.Style     { return s.Style }
func (s stepAreaSeries) Validate() error           { return nil }

func (s stepAreaSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := s.Style.InheritFrom(defaults)
	defer r.ResetStyle()

	r.SetFillColor(style.FillColor)
	baseline := canvasBox.Bottom - yrange.Translate(0)
	for _, seg := range s.Segments {
		if len(seg.xs) == 0 {
			continue
		}
		x0 := canvasBox.Left + xrange.Translate(seg.xs[0])
		endX := canvasBox.Left + xrange.Translate(seg.endX)
		if endX <= x0 {
			continue
		}

		r.MoveTo(x0, baseline)
		y := canvasBox.Bottom - yrange.Translate(seg.ys[0])
		r.LineTo(x0, y)
		for i := 1; i < len(seg.xs); i++ {
			x := canvasBox.Left + xrange.Translate(seg.xs[i])
			r.LineTo(x, y)
			y = canvasBox.Bottom - yrange.Translate(seg.ys[i])
			r.LineTo(x, y)
		}
		r.LineTo(endX, y)
		r.LineTo(endX, baseline)
		r.Close()
		r.Fill()
	}
}

// xSpan is a time span in chart value space
type xSpan struct {
	start float64
	end   float64
}

// shadeSeries shades full-height vertical bands, used for outage periods
type shadeSeries struct {
	Name  string
	Style chart.Style
	Spans []xSpan
}

func (s shadeSeries) GetName() string           { return s.Name }
func (s shadeSeries) GetYAxis() chart.YAxisType { return chart.YAxisSecondary }
func (s shadeSeries) GetStyle() chart.Style     { return s.Style }
func (s shadeSeries) Validate() error           { return nil }

func (s shadeSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := s.Style.InheritFrom(defaults)
	defer r.ResetStyle()

	r.SetFillColor(style.FillColor)
	for _, span := range s.Spans {
		left := canvasBox.Left + xrange.Translate(span.start)
		right := canvasBox.Left + xrange.Translate(span.end)
		if right <= left {
			continue
		}
		r.MoveTo(left, canvasBox.Top)
		r.LineTo(right, canvasBox.Top)
		r.LineTo(right, canvasBox.Bottom)
		r.LineTo(left, canvasBox.Bottom)
		r.Close()
		r.Fill()
	}
}

// lineSegments splits rows into contiguous runs where value is present
func lineSegments(rows []models.MeasurementRow, value func(models.MeasurementRow) *float64) []xyValues {
	var segs []xyValues
	var cur xyValues
	flush := func() {
		if len(cur.xs) > 0 {
			segs = append(segs, cur)
			cur = xyValues{}
		}
	}
	for _, row := range rows {
		v := value(row)
		if v == nil {
			flush()
			continue
		}
		cur.xs = append(cur.xs, chart.TimeToFloat64(row.Timestamp))
		cur.ys = append(cur.ys, *v)
	}
	flush()
	return segs
}

// bandSegments splits rows into contiguous runs where both bounds are present
func bandSegments(rows []models.MeasurementRow, lower, upper func(models.MeasurementRow) *float64) []bandValues {
	var segs []bandValues
	var cur bandValues
	flush := func() {
		if len(cur.xs) > 0 {
			segs = append(segs, cur)
			cur = bandValues{}
		}
	}
	for _, row := range rows {
		lo, hi := lower(row), upper(row)
		if lo == nil || hi == nil {
			flush()
			continue
		}
		cur.xs = append(cur.xs, chart.TimeToFloat64(row.Timestamp))
		cur.y1s = append(cur.y1s, *hi)
		cur.y2s = append(cur.y2s, *lo)
	}
	flush()
	return segs
}

// stepSegments splits rows into contiguous runs where loss is present.
// A run's final hold ends at the next sample, or at the sample itself
// when it is the last row, and never extends past windowEnd.
func stepSegments(rows []models.MeasurementRow, windowEnd float64) []stepValues {
	var segs []stepValues
	var cur stepValues
	flush := func(endX float64) {
		if len(cur.xs) > 0 {
			if endX > windowEnd {
				endX = windowEnd
			}
			cur.endX = endX
			segs = append(segs, cur)
			cur = stepValues{}
		}
	}
	for i, row := range rows {
		x := chart.TimeToFloat64(row.Timestamp)
		if row.PacketLoss == nil {
			flush(x)
			continue
		}
		cur.xs = append(cur.xs, x)
		cur.ys = append(cur.ys, *row.PacketLoss)
		if i == len(rows)-1 {
			flush(x)
		}
	}
	return segs
}

// spikePoints collects samples whose max latency strictly exceeds threshold
func spikePoints(rows []models.MeasurementRow, threshold float64) ([]float64, []float64) {
	var xs, ys []float64
	for _, row := range rows {
		if row.MaxLatency != nil && *row.MaxLatency > threshold {
			xs = append(xs, chart.TimeToFloat64(row.Timestamp))
			ys = append(ys, *row.MaxLatency)
		}
	}
	return xs, ys
}

// outageXSpans converts outage spans to chart value space
func outageXSpans(rows []models.MeasurementRow, threshold float64) []xSpan {
	spans := models.OutageSpans(rows, threshold)
	out := make([]xSpan, 0, len(spans))
	for _, span := range spans {
		out = append(out, xSpan{
			start: chart.TimeToFloat64(span.Start),
			end:   chart.TimeToFloat64(span.End),
		})
	}
	return out
}
