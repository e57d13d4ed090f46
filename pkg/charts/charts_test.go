package charts

import (
	"bytes"
	"image/png"
	"math"
	"testing"
	"time"

	"formulastats/pkg/model"
	"formulastats/pkg/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lap(driver, team string, n int, seconds float64, compound string) model.Lap {
	d := time.Duration(seconds * float64(time.Second))
	return model.Lap{Driver: driver, Team: team, LapNumber: n, LapTime: &d, Compound: compound, CompoundColor: "#da291c"}
}

func session() Session {
	s := Session{
		Year:    2024,
		Event:   "Bahrain Grand Prix",
		Session: "Race",
		Results: model.Results{
			{Position: 1, Abbreviation: "VER", FullName: "Max Verstappen", TeamName: "Red Bull Racing", TeamColorOfficial: "3671C6"},
			{Position: 2, Abbreviation: "LEC", FullName: "Charles Leclerc", TeamName: "Ferrari", TeamColorOfficial: "E8002D"},
			{Position: 3, Abbreviation: "HAM", FullName: "Lewis Hamilton", TeamName: "Mercedes", TeamColorOfficial: "27F4D2"},
		},
		Laps: model.Laps{
			lap("VER", "Red Bull Racing", 1, 92.1, "SOFT"),
			lap("VER", "Red Bull Racing", 2, 92.4, "SOFT"),
			lap("VER", "Red Bull Racing", 3, 92.2, "nan"),
			lap("LEC", "Ferrari", 1, 92.8, "SOFT"),
			lap("LEC", "Ferrari", 2, 92.9, "SOFT"),
			lap("LEC", "Ferrari", 3, 93.1, "SOFT"),
			{Driver: "HAM", Team: "Mercedes", LapNumber: 1},
		},
	}
	for m := 0; m < 5; m++ {
		s.Weather = append(s.Weather, model.Weather{Time: time.Duration(m) * time.Minute, AirTemp: 25 + float64(m), Rainfall: m > 2})
	}
	for i := 0; i < 20; i++ {
		s.Telemetry = append(s.Telemetry, model.Telemetry{X: float64(i), Y: float64(i * i), NGear: 1 + i%8, Speed: float64(100 + 10*i), Driver: "VER", Lap: 2, Team: "Red Bull Racing"})
	}
	return s
}

func options() Options {
	o := DefaultOptions()
	o.DPI = 100
	o.ShowCompounds = true
	o.Driver = "VER"
	o.Lap = 2
	o.Filter = stats.IQRFilter{}
	return o
}

func TestRenderEveryKind(t *testing.T) {
	s := session()
	o := options()
	o.Channels = []string{"Air Temp", "Rainfall"}
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			img, err := Render(kind, s, o)
			require.NoError(t, err)
			assert.Equal(t, kind, img.Kind)
			decoded, err := png.Decode(bytes.NewReader(img.PNG))
			require.NoError(t, err)
			assert.Greater(t, decoded.Bounds().Dx(), 100)
		})
	}
}

func TestFileNames(t *testing.T) {
	s := session()
	o := options()
	assert.Equal(t, "team_lap_time_dist_2024_bahrain_grand_prix_race.png", FileName(TeamLapTimeDist, s, o))
	assert.Equal(t, "gear_shifts_per_lap_2024_bahrain_grand_prix_race_VER_2.png", FileName(GearShifts, s, o))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Weather_Data ")
	require.NoError(t, err)
	assert.Equal(t, WeatherData, k)

	_, err = ParseKind("pie")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Render(Kind("pie"), session(), options())
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRenderErrors(t *testing.T) {
	o := options()
	o.Lap = 9
	_, err := Render(SpeedOverLap, session(), o)
	assert.ErrorIs(t, err, ErrNoTelemetry)

	empty := session()
	empty.Laps = nil
	_, err = Render(TeamLapTimeDist, empty, options())
	assert.ErrorIs(t, err, ErrNoLaps)

	_, err = Render(TeamPace, empty, options())
	assert.ErrorIs(t, err, stats.ErrNoRepresentative)
}

func TestColorScales(t *testing.T) {
	colors, err := GearColors()
	require.NoError(t, err)
	assert.Len(t, colors, 12)
	assert.Equal(t, colors[0], gearColor(colors, 1))
	assert.Equal(t, noDataColor, gearColor(colors, 0))

	assert.Equal(t, SpeedColor(50), SpeedColor(10))
	assert.Equal(t, SpeedColor(350), SpeedColor(400))
	assert.NotEqual(t, SpeedColor(50), SpeedColor(350))
}

func TestRotateClockwise(t *testing.T) {
	x, y := rotate(1, 0, 90)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, -1, y, 1e-9)

	x, y = rotate(0, 1, 90)
	assert.InDelta(t, 1, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)

	x, y = rotate(3, 4, DefaultRotation)
	assert.InDelta(t, 5, math.Hypot(x, y), 1e-9)
}

func TestTrackMapSubtitle(t *testing.T) {
	s := session()
	o := options()
	assert.Equal(t, "2024 | Bahrain Grand Prix | Race | Driver: VER | Lap: 2 (1:32.400)", trackMapSubtitle(s, o))

	o.Driver, o.Lap = "HAM", 1
	assert.Equal(t, "2024 | Bahrain Grand Prix | Race | Driver: HAM | Lap: 1", trackMapSubtitle(s, o))

	o.Lap = 7
	assert.Equal(t, "2024 | Bahrain Grand Prix | Race | Driver: HAM | Lap: 7", trackMapSubtitle(s, o))
}

func TestPaceBarsCarryLapTimes(t *testing.T) {
	s := session()
	deltas, err := stats.PaceDeltas(s.Laps, s.Results.Teams(), stats.PaceFastest, 0)
	require.NoError(t, err)

	bars, top := paceBars(deltas, map[string]string{"Ferrari": "#E8002D"}, "#FFFFFF")
	require.Len(t, bars, 2)
	assert.Regexp(t, `^Red Bull Racing\n1:32\.\d{3}\n\+0\.00%$`, bars[0].Label)
	assert.Regexp(t, `^Ferrari\n1:32\.\d{3}\n\+0\.76%$`, bars[1].Label)
	assert.InDelta(t, bars[1].Value, top, 1e-9)
}

func TestWeatherWithinOneMinute(t *testing.T) {
	s := session()
	s.Weather = []model.Weather{
		{Time: 10 * time.Second, AirTemp: 25, TrackTemp: 38},
		{Time: 40 * time.Second, AirTemp: 25.5, TrackTemp: 38.2},
	}
	o := options()
	o.Channels = []string{"Air Temp", "Track Temp"}
	img, err := Render(WeatherData, s, o)
	require.NoError(t, err)
	assert.NotEmpty(t, img.PNG)

	x, y := padRange([]float64{0, 0}, []float64{25, 25.5})
	assert.Equal(t, []float64{0, 0, 1}, x)
	assert.Equal(t, []float64{25, 25.5, 25.5}, y)

	x, _ = padRange([]float64{0, 1}, []float64{25, 26})
	assert.Equal(t, []float64{0, 1}, x)
}
