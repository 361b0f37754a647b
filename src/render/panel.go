package render

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// SeriesKind 序列的绘制方式
type SeriesKind int

const (
	Bar SeriesKind = iota
	Line
)

// GridMode 网格线样式
type GridMode int

const (
	GridBoth GridMode = iota // 两个方向的实线网格
	GridY                    // 仅y方向的虚线网格
)

// DefaultBarWidth 单序列柱状图的柱宽
const DefaultBarWidth = 0.8

// Series 一组带名称的数据
type Series struct {
	Name   string
	Kind   SeriesKind
	X      []float64
	Y      []float64
	Width  float64 // 柱宽，数据坐标
	Color  drawing.Color
	Marker bool // 折线是否绘制数据点
}

// Tick x轴刻度
type Tick struct {
	Value float64
	Label string
}

// Panel 图中的一个子图
type Panel struct {
	Title       string
	XLabel      string
	YLabel      string
	Series      []Series
	Ticks       []Tick
	RotateTicks bool
	Grid        GridMode
	Legend      bool
}

// Values 柱状图的一组高度
type Values struct {
	Name  string
	Y     []float64
	Color drawing.Color
}

// PairedBars 两组柱分别向左、向右偏移半个柱宽，互不重叠
func PairedBars(x []float64, left, right Values, width float64) []Series {
	shift := func(d float64) []float64 {
		xs := make([]float64, len(x))
		for i, v := range x {
			xs[i] = v + d
		}
		return xs
	}
	return []Series{
		{Name: left.Name, Kind: Bar, X: shift(-width / 2), Y: left.Y, Width: width, Color: left.Color},
		{Name: right.Name, Kind: Bar, X: shift(width / 2), Y: right.Y, Width: width, Color: right.Color},
	}
}

// CategoryTicks 类别依次放在0..n-1
func CategoryTicks(categories []string) []Tick {
	ticks := make([]Tick, len(categories))
	for i, c := range categories {
		ticks[i] = Tick{Value: float64(i), Label: c}
	}
	return ticks
}

// NumericTicks 数值刻度，标签为整数形式
func NumericTicks(values []float64) []Tick {
	seen := make(map[float64]struct{}, len(values))
	var ticks []Tick
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ticks = append(ticks, Tick{Value: v, Label: fmt.Sprintf("%g", v)})
	}
	return ticks
}

// Validate 检查子图必须具备的元素
func (p Panel) Validate() error {
	switch {
	case p.Title == "":
		return fmt.Errorf("子图缺少标题")
	case p.XLabel == "" || p.YLabel == "":
		return fmt.Errorf("子图 %q 缺少坐标轴标签", p.Title)
	case !p.Legend:
		return fmt.Errorf("子图 %q 缺少图例", p.Title)
	case len(p.Series) == 0:
		return fmt.Errorf("子图 %q 没有数据序列", p.Title)
	}

	points := 0
	for _, s := range p.Series {
		if s.Name == "" {
			return fmt.Errorf("子图 %q 存在未命名的序列", p.Title)
		}
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("子图 %q 序列 %q 的x/y长度不一致: %d != %d", p.Title, s.Name, len(s.X), len(s.Y))
		}
		if s.Kind == Bar && s.Width <= 0 {
			return fmt.Errorf("子图 %q 序列 %q 柱宽无效", p.Title, s.Name)
		}
		points += len(s.X)
	}
	if points == 0 {
		return fmt.Errorf("子图 %q 没有数据", p.Title)
	}
	return nil
}

// XRange x轴范围，包含柱宽与刻度
func (p Panel) XRange() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range p.Series {
		half := 0.0
		if s.Kind == Bar {
			half = s.Width / 2
		}
		for _, x := range s.X {
			lo = math.Min(lo, x-half)
			hi = math.Max(hi, x+half)
		}
	}
	for _, t := range p.Ticks {
		lo = math.Min(lo, t.Value)
		hi = math.Max(hi, t.Value)
	}
	if math.IsInf(lo, 0) {
		return 0, 1
	}
	pad := math.Max(0.05*(hi-lo), 0.3)
	return lo - pad, hi + pad
}

// YRange y轴范围，总是包含0，以便柱从0开始
func (p Panel) YRange() (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, s := range p.Series {
		for _, y := range s.Y {
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
	}
	span := hi - lo
	if span == 0 {
		return lo, lo + 1
	}
	if lo < 0 {
		lo -= 0.05 * span
	}
	return lo, hi + 0.05*span
}

// longTickLabels 刻度标签较长时需要旋转
func longTickLabels(ticks []Tick) bool {
	for _, t := range ticks {
		if len([]rune(t.Label)) > 6 {
			return true
		}
	}
	return false
}
