package report

import (
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"FlightDelayAnalysis/src/config"
	"FlightDelayAnalysis/src/datasource/cassandra"
	"FlightDelayAnalysis/src/processor"
	"FlightDelayAnalysis/src/render"
)

const (
	yLabel   = "Average Delay (minutes)"
	barWidth = 0.35

	arrivalCol   = "average_arrival_delay"
	departureCol = "average_departure_delay"
)

var causeColumns = []string{
	"average_carrier_delay",
	"average_weather_delay",
	"average_nas_delay",
	"average_security_delay",
	"average_late_aircraft_delay",
}

// Causes 月度延误、各航司延误原因、航司综合延误三个子图
func Causes(keyspace string, dcfg *config.DataConfig) Report {
	return Report{
		Name:        "causes",
		Keyspace:    keyspace,
		PanelHeight: 800,
		Statements: []cassandra.Statement{
			cassandra.MonthlyDelays,
			cassandra.DelayCauses,
			cassandra.AirlineDelayBreakdown,
		},
		Build: func(tables []processor.DelayTable) ([]render.Panel, error) {
			if len(tables) != 3 {
				return nil, fmt.Errorf("需要3张表, 实际%d张", len(tables))
			}
			monthly, err := monthlyBars(tables[0], dcfg)
			if err != nil {
				return nil, err
			}
			causes, err := causeLines(tables[1], dcfg)
			if err != nil {
				return nil, err
			}
			airlines, err := airlineComparison(tables[2], dcfg)
			if err != nil {
				return nil, err
			}
			return []render.Panel{monthly, causes, airlines}, nil
		},
	}
}

// Overview 先确认keyspace存在，再绘制航司、机场、月份的离港延误
func Overview(keyspace string, dcfg *config.DataConfig) Report {
	return Report{
		Name:          "overview",
		Keyspace:      keyspace,
		CheckKeyspace: true,
		PanelHeight:   600,
		Statements: []cassandra.Statement{
			cassandra.AirlineDelays,
			cassandra.AirportDelays,
			cassandra.MonthlyDepartureDelays,
		},
		Build: func(tables []processor.DelayTable) ([]render.Panel, error) {
			if len(tables) != 3 {
				return nil, fmt.Errorf("需要3张表, 实际%d张", len(tables))
			}
			airlines, err := departureBars(tables[0], dcfg, "Marketing Airline Network",
				"Average Departure Delay by Airline", chart.ColorBlue)
			if err != nil {
				return nil, err
			}
			airports, err := departureBars(tables[1], dcfg, "Origin City Name",
				"Average Departure Delay by Airport", chart.ColorRed)
			if err != nil {
				return nil, err
			}
			months, err := monthlyDepartureLine(tables[2], dcfg)
			if err != nil {
				return nil, err
			}
			return []render.Panel{airlines, airports, months}, nil
		},
	}
}

func monthlyBars(t processor.DelayTable, dcfg *config.DataConfig) (render.Panel, error) {
	months, err := t.Floats(t.Key)
	if err != nil {
		return render.Panel{}, err
	}
	arr, err := t.Floats(arrivalCol)
	if err != nil {
		return render.Panel{}, err
	}
	dep, err := t.Floats(departureCol)
	if err != nil {
		return render.Panel{}, err
	}

	return render.Panel{
		Title:  "Monthly Average Arrival and Departure Delays",
		XLabel: "Flight Month",
		YLabel: yLabel,
		Series: render.PairedBars(months,
			render.Values{Name: processor.Label(dcfg, arrivalCol), Y: arr},
			render.Values{Name: processor.Label(dcfg, departureCol), Y: dep},
			barWidth),
		Ticks:  render.NumericTicks(months),
		Grid:   render.GridBoth,
		Legend: true,
	}, nil
}

func causeLines(t processor.DelayTable, dcfg *config.DataConfig) (render.Panel, error) {
	airlines, err := t.Labels(t.Key)
	if err != nil {
		return render.Panel{}, err
	}
	cats, xs := processor.Categories(airlines)

	series := make([]render.Series, 0, len(causeColumns))
	for _, col := range causeColumns {
		ys, err := t.Floats(col)
		if err != nil {
			return render.Panel{}, err
		}
		series = append(series, render.Series{
			Name:   processor.Label(dcfg, col),
			Kind:   render.Line,
			X:      xs,
			Y:      ys,
			Marker: true,
		})
	}

	return render.Panel{
		Title:  "Average Delay by Airline and Type",
		XLabel: "Marketing Airline Network",
		YLabel: yLabel,
		Series: series,
		Ticks:  render.CategoryTicks(cats),
		Grid:   render.GridBoth,
		Legend: true,
	}, nil
}

// airlineComparison 同一航司出现多次时先取均值
func airlineComparison(t processor.DelayTable, dcfg *config.DataConfig) (render.Panel, error) {
	g, err := processor.GroupMean(t, arrivalCol, departureCol)
	if err != nil {
		return render.Panel{}, err
	}
	ticks := render.CategoryTicks(g.Keys)
	positions := make([]float64, len(ticks))
	for i, tk := range ticks {
		positions[i] = tk.Value
	}

	return render.Panel{
		Title:  "Comprehensive Delay Analysis by Airline",
		XLabel: "Marketing Airline Network",
		YLabel: yLabel,
		Series: render.PairedBars(positions,
			render.Values{Name: processor.Label(dcfg, arrivalCol), Y: g.Means[arrivalCol]},
			render.Values{Name: processor.Label(dcfg, departureCol), Y: g.Means[departureCol]},
			barWidth),
		Ticks:       ticks,
		RotateTicks: true,
		Grid:        render.GridBoth,
		Legend:      true,
	}, nil
}

func departureBars(t processor.DelayTable, dcfg *config.DataConfig, xLabel, title string, color drawing.Color) (render.Panel, error) {
	labels, err := t.Labels(t.Key)
	if err != nil {
		return render.Panel{}, err
	}
	dep, err := t.Floats(departureCol)
	if err != nil {
		return render.Panel{}, err
	}
	cats, xs := processor.Categories(labels)

	return render.Panel{
		Title:  title,
		XLabel: xLabel,
		YLabel: yLabel,
		Series: []render.Series{{
			Name:  processor.Label(dcfg, departureCol),
			Kind:  render.Bar,
			X:     xs,
			Y:     dep,
			Width: render.DefaultBarWidth,
			Color: color,
		}},
		Ticks:       render.CategoryTicks(cats),
		RotateTicks: true,
		Grid:        render.GridY,
		Legend:      true,
	}, nil
}

func monthlyDepartureLine(t processor.DelayTable, dcfg *config.DataConfig) (render.Panel, error) {
	months, err := t.Floats(t.Key)
	if err != nil {
		return render.Panel{}, err
	}
	dep, err := t.Floats(departureCol)
	if err != nil {
		return render.Panel{}, err
	}

	return render.Panel{
		Title:  "Average Departure Delay by Month",
		XLabel: "Flight Month",
		YLabel: yLabel,
		Series: []render.Series{{
			Name:   processor.Label(dcfg, departureCol),
			Kind:   render.Line,
			X:      months,
			Y:      dep,
			Color:  chart.ColorGreen,
			Marker: true,
		}},
		Grid:   render.GridY,
		Legend: true,
	}, nil
}
