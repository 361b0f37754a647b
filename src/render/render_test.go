package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"
)

func monthlyPanel() Panel {
	months := []float64{1, 2}
	return Panel{
		Title:  "Monthly Average Arrival and Departure Delays",
		XLabel: "Flight Month",
		YLabel: "Average Delay (minutes)",
		Series: PairedBars(months,
			Values{Name: "Average Arrival Delay", Y: []float64{10, 12}},
			Values{Name: "Average Departure Delay", Y: []float64{5, 6}},
			0.35),
		Ticks:  NumericTicks(months),
		Legend: true,
	}
}

func TestPairedBarsOffsets(t *testing.T) {
	p := monthlyPanel()
	require.Len(t, p.Series, 2)

	arr, dep := p.Series[0], p.Series[1]
	assert.InDeltaSlice(t, []float64{1 - 0.175, 2 - 0.175}, arr.X, 1e-9)
	assert.InDeltaSlice(t, []float64{1 + 0.175, 2 + 0.175}, dep.X, 1e-9)
	assert.Equal(t, []float64{10, 12}, arr.Y)
	assert.Equal(t, []float64{5, 6}, dep.Y)
	assert.Equal(t, 0.35, arr.Width)
	assert.Equal(t, Bar, dep.Kind)

	// 同一类别的两根柱不重叠
	for i := range arr.X {
		assert.LessOrEqual(t, arr.X[i]+arr.Width/2, dep.X[i]-dep.Width/2+1e-9)
	}
}

func TestPanelValidate(t *testing.T) {
	require.NoError(t, monthlyPanel().Validate())

	p := monthlyPanel()
	p.Legend = false
	assert.Error(t, p.Validate())

	p = monthlyPanel()
	p.YLabel = ""
	assert.Error(t, p.Validate())

	p = monthlyPanel()
	p.Series[0].Y = []float64{1}
	assert.Error(t, p.Validate())

	p = monthlyPanel()
	for i := range p.Series {
		p.Series[i].X, p.Series[i].Y = nil, nil
	}
	assert.Error(t, p.Validate())
}

func TestRanges(t *testing.T) {
	p := monthlyPanel()

	xmin, xmax := p.XRange()
	assert.Less(t, xmin, 1-0.35)
	assert.Greater(t, xmax, 2+0.35)

	ymin, ymax := p.YRange()
	assert.Equal(t, 0.0, ymin)
	assert.Greater(t, ymax, 12.0)

	p.Series[0].Y = []float64{-4, 12}
	ymin, _ = p.YRange()
	assert.Less(t, ymin, -4.0)
}

func TestCategoryTicks(t *testing.T) {
	ticks := CategoryTicks([]string{"DL", "AA"})
	assert.Equal(t, []Tick{{0, "DL"}, {1, "AA"}}, ticks)

	assert.Equal(t, []Tick{{1, "1"}, {2, "2"}}, NumericTicks([]float64{1, 2, 1}))
}

func TestToChart(t *testing.T) {
	p := Panel{
		Title:  "Average Departure Delay by Airport",
		XLabel: "Origin City Name",
		YLabel: "Average Delay (minutes)",
		Series: []Series{
			{Name: "Average Departure Delay", Kind: Bar, X: []float64{0, 1}, Y: []float64{3, 4}, Width: DefaultBarWidth},
			{Name: "Trend", Kind: Line, X: []float64{0, 1}, Y: []float64{3, 4}, Marker: true},
		},
		Ticks:  CategoryTicks([]string{"Atlanta, GA", "Chicago, IL"}),
		Grid:   GridY,
		Legend: true,
	}

	ch := p.toChart(600, 400)
	assert.Equal(t, p.Title, ch.Title)
	assert.Equal(t, p.XLabel, ch.XAxis.Name)
	assert.Equal(t, p.YLabel, ch.YAxis.Name)
	assert.Len(t, ch.XAxis.Ticks, 2)
	// 机场名称较长，自动旋转
	assert.Equal(t, 45.0, ch.XAxis.TickStyle.TextRotationDegrees)
	assert.True(t, ch.XAxis.GridMajorStyle.Hidden)
	assert.NotEmpty(t, ch.YAxis.GridMajorStyle.StrokeDashArray)
	assert.Len(t, ch.Elements, 1)

	require.Len(t, ch.Series, 2)
	_, isBar := ch.Series[0].(barSeries)
	assert.True(t, isBar)
	line, isLine := ch.Series[1].(chart.ContinuousSeries)
	require.True(t, isLine)
	assert.Equal(t, 4.0, line.Style.DotWidth)
}

func TestRenderStacksPanels(t *testing.T) {
	r := Renderer{Width: 480, PanelHeight: 320}

	line := monthlyPanel()
	line.Title = "Average Departure Delay by Month"
	line.Series = []Series{{Name: "Average Departure Delay", Kind: Line, X: []float64{1, 2}, Y: []float64{5, 6}, Marker: true}}
	line.Grid = GridY

	fig, err := r.Render([]Panel{monthlyPanel(), line})
	require.NoError(t, err)
	assert.Equal(t, 480, fig.Image.Bounds().Dx())
	assert.Equal(t, 640, fig.Image.Bounds().Dy())
	assert.Len(t, fig.Panels, 2)

	data, err := fig.PNG()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, fig.Image.Bounds(), img.Bounds())
}

func TestRenderRejectsInvalid(t *testing.T) {
	r := Renderer{Width: 480, PanelHeight: 320}

	_, err := r.Render(nil)
	assert.Error(t, err)

	bad := monthlyPanel()
	bad.Title = ""
	_, err = r.Render([]Panel{bad})
	assert.Error(t, err)

	_, err = Renderer{}.Render([]Panel{monthlyPanel()})
	assert.Error(t, err)
}
