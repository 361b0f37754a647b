package render

import (
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var gridColor = drawing.ColorFromHex("cccccc")

// toChart 将子图转换为go-chart图表
func (p Panel) toChart(width, height int) chart.Chart {
	xmin, xmax := p.XRange()
	ymin, ymax := p.YRange()

	ticks := make([]chart.Tick, len(p.Ticks))
	for i, t := range p.Ticks {
		ticks[i] = chart.Tick{Value: t.Value, Label: t.Label}
	}

	rotate := p.RotateTicks || longTickLabels(p.Ticks)
	bottom := 20
	xa := chart.XAxis{
		Name:  p.XLabel,
		Range: &chart.ContinuousRange{Min: xmin, Max: xmax},
		Ticks: ticks,
	}
	if rotate {
		xa.TickStyle = chart.Style{TextRotationDegrees: 45.0}
		bottom = 90
	}
	ya := chart.YAxis{
		Name:  p.YLabel,
		Range: &chart.ContinuousRange{Min: ymin, Max: ymax},
	}

	switch p.Grid {
	case GridY:
		xa.GridMajorStyle = chart.Style{Hidden: true}
		ya.GridMajorStyle = chart.Style{StrokeColor: gridColor, StrokeWidth: 1, StrokeDashArray: []float64{5, 5}}
	default:
		xa.GridMajorStyle = chart.Style{StrokeColor: gridColor, StrokeWidth: 1}
		ya.GridMajorStyle = chart.Style{StrokeColor: gridColor, StrokeWidth: 1}
	}

	series := make([]chart.Series, 0, len(p.Series))
	for i, s := range p.Series {
		if len(s.X) == 0 {
			continue
		}
		series = append(series, toChartSeries(s, i))
	}

	ch := chart.Chart{
		Title:      p.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: bottom}},
		XAxis:      xa,
		YAxis:      ya,
		Series:     series,
	}
	if p.Legend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch
}

func toChartSeries(s Series, index int) chart.Series {
	color := s.Color
	if color.IsZero() {
		color = paletteColor(index)
	}

	if s.Kind == Bar {
		return barSeries{
			name:  s.Name,
			xs:    s.X,
			ys:    s.Y,
			width: s.Width,
			style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
		}
	}

	style := chart.Style{StrokeColor: color, StrokeWidth: 2}
	if s.Marker {
		style.DotColor = color
		style.DotWidth = 4
	}
	return chart.ContinuousSeries{
		Name:    s.Name,
		XValues: s.X,
		YValues: s.Y,
		Style:   style,
	}
}

// barSeries 以x为中心、宽度为width的柱，go-chart的BarChart不支持偏移与分组
type barSeries struct {
	name  string
	xs    []float64
	ys    []float64
	width float64
	style chart.Style
}

func (b barSeries) GetName() string                { return b.name }
func (b barSeries) GetStyle() chart.Style          { return b.style }
func (b barSeries) GetYAxis() chart.YAxisType      { return chart.YAxisPrimary }
func (b barSeries) Len() int                       { return len(b.xs) }
func (b barSeries) GetValues(i int) (x, y float64) { return b.xs[i], b.ys[i] }

func (b barSeries) Validate() error {
	if len(b.xs) == 0 {
		return fmt.Errorf("bar series %q: no values", b.name)
	}
	if len(b.xs) != len(b.ys) {
		return fmt.Errorf("bar series %q: x/y length mismatch", b.name)
	}
	return nil
}

func (b barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := b.style.InheritFrom(defaults)
	base := canvasBox.Bottom - yrange.Translate(0)

	for i := range b.xs {
		left := canvasBox.Left + xrange.Translate(b.xs[i]-b.width/2)
		right := canvasBox.Left + xrange.Translate(b.xs[i]+b.width/2)
		top := canvasBox.Bottom - yrange.Translate(b.ys[i])

		r.SetFillColor(style.GetFillColor())
		r.SetStrokeColor(style.GetStrokeColor())
		r.SetStrokeWidth(style.GetStrokeWidth())
		r.MoveTo(left, top)
		r.LineTo(right, top)
		r.LineTo(right, base)
		r.LineTo(left, base)
		r.LineTo(left, top)
		r.FillStroke()
	}
}

// 与matplotlib默认配色一致
var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
}

func paletteColor(i int) drawing.Color {
	return palette[i%len(palette)]
}
