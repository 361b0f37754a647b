package utils

import (
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"DL", "AA", "UA"}, Unique([]string{"DL", "AA", "DL", "UA", "AA"}))
	assert.Empty(t, Unique(nil))
}

func TestHasColumn(t *testing.T) {
	df := dataframe.New(series.New([]int{1, 2}, series.Int, "flight_month"))
	assert.True(t, HasColumn(df, "flight_month"))
	assert.False(t, HasColumn(df, "average_arrival_delay"))
}

func TestSaveToExcel(t *testing.T) {
	monthly := dataframe.New(
		series.New([]int{1, 2}, series.Int, "flight_month"),
		series.New([]float64{10, 12}, series.Float, "average_arrival_delay"),
	)
	airports := dataframe.New(
		series.New([]string{"Atlanta, GA"}, series.String, "origin_city_name"),
	)

	path := filepath.Join(t.TempDir(), "delays.xlsx")
	require.NoError(t, SaveToExcel(path,
		Sheet{Name: "monthly_delays", Frame: monthly},
		Sheet{Name: "airport_delays", Frame: airports},
	))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"monthly_delays", "airport_delays"}, f.GetSheetList())

	rows, err := f.GetRows("monthly_delays")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"flight_month", "average_arrival_delay"}, rows[0])
	assert.Equal(t, []string{"2", "12"}, rows[2])

	rows, err = f.GetRows("airport_delays")
	require.NoError(t, err)
	assert.Equal(t, "Atlanta, GA", rows[1][0])
}

func TestSaveToExcelEmpty(t *testing.T) {
	assert.Error(t, SaveToExcel(filepath.Join(t.TempDir(), "empty.xlsx")))
}
