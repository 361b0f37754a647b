package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"FlightDelayAnalysis/src/datasource/cassandra"
	"FlightDelayAnalysis/src/processor"
	"FlightDelayAnalysis/src/storage"
)

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "flightdelay", root.Name())

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"causes", "overview"}, names)

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, defaultConfigDir, flag.DefValue)
	for _, name := range []string{"listen", "export", "no-view"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
}

func TestInvalidConfigFailsBeforeDial(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte(`{"cassandra": {"port": 0}}`), 0644))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"overview", "--config", dir, "--no-view"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestUnknownArgsRejected(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"causes", "extra"})
	assert.Error(t, root.Execute())
}

func TestExportTables(t *testing.T) {
	monthly, err := processor.Tabulate(cassandra.MonthlyDelays, []cassandra.DelayRecord{
		{1, 10.0, 5.0},
		{2, 12.0, 6.0},
	})
	require.NoError(t, err)
	airports, err := processor.Tabulate(cassandra.AirportDelays, []cassandra.DelayRecord{
		{"Atlanta, GA", 9.0, 11.0},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "delays.xlsx")
	var logs bytes.Buffer
	hook := exportTables(path, storage.NewWriterLogger(&logs))
	require.NoError(t, hook("overview", []processor.DelayTable{monthly, airports}))
	assert.Contains(t, logs.String(), "sheets=2")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"monthly_delays", "airport_delays"}, f.GetSheetList())

	rows, err := f.GetRows("airport_delays")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"origin_city_name", "average_departure_delay", "average_arrival_delay"}, rows[0])
	assert.Equal(t, "Atlanta, GA", rows[1][0])
}
