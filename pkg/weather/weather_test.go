package weather

import (
	"testing"
	"time"

	"formulastats/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rows = []model.Weather{
	{Time: 30 * time.Second, AirTemp: 25, TrackTemp: 40, Rainfall: false, WindSpeed: 1.2, Pressure: 1012, Humidity: 40},
	{Time: 90 * time.Second, AirTemp: 26, TrackTemp: 41, Rainfall: true, WindSpeed: 1.5, Pressure: 1011, Humidity: 45},
	{Time: 185 * time.Second, AirTemp: 27, TrackTemp: 42, Rainfall: true, WindDirection: 270},
}

func TestSelectEmptyMeansAllCanonical(t *testing.T) {
	got, err := Select(nil, rows, DefaultTable())
	require.NoError(t, err)
	names := []string{}
	for _, s := range got {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Air Temp", "Track Temp", "Rainfall", "Wind Speed", "Wind Direction", "Air Pressure", "Relative Humidity"}, names)
	assert.Equal(t, []float64{1.5, 1.5, 0.5, 1.5, 1, 1, 0.5}, HeightRatios(names))
}

func TestSelectKeepsRequestedOrder(t *testing.T) {
	got, err := Select([]string{"Rainfall", "Air Temp"}, rows, DefaultTable())
	require.NoError(t, err)
	require.Len(t, got, 2)

	rain := got[0]
	assert.Equal(t, "Rainfall", rain.Name)
	assert.Equal(t, []float64{0, 1, 3}, rain.X)
	assert.Equal(t, []float64{0, 1, 1}, rain.Y)
	assert.Equal(t, []Tick{{0, "No"}, {1, "Yes"}}, rain.Ticks)
	assert.Equal(t, 1.5, rain.HeightRatio)

	air := got[1]
	assert.Equal(t, "Air Temp (°C)", air.YLabel)
	assert.Equal(t, "Air Temperature", air.Title)
	assert.Equal(t, []float64{25, 26, 27}, air.Y)
	assert.Empty(t, air.Ticks)
}

func TestSelectUnknownChannel(t *testing.T) {
	_, err := Select([]string{"Air Temp", "Snow"}, rows, DefaultTable())
	var target *UnknownChannelError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "Snow", target.Name)
}

func TestDescriptorColumns(t *testing.T) {
	table := DefaultTable()
	assert.Equal(t, "Pressure", table.Descriptors[AirPressure].Column)
	assert.Equal(t, "Humidity", table.Descriptors[RelativeHumidity].Column)
	assert.Equal(t, "Rel Humid (%)", table.Descriptors[RelativeHumidity].YLabel)
	assert.Equal(t, "Air Press (mbar)", table.Descriptors[AirPressure].YLabel)
	for _, name := range table.Order {
		assert.Contains(t, table.Descriptors, name)
	}
}
