package helper

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLapTime(t *testing.T) {
	d := 83*time.Second + 250*time.Millisecond
	cases := []struct {
		in   any
		want string
	}{
		{65.4321, "1:05.432"},
		{3.0, "0:03.000"},
		{float32(3), "0:03.000"},
		{90, "1:30.000"},
		{int64(125), "2:05.000"},
		{uint8(59), "0:59.000"},
		{d, "1:23.250"},
		{&d, "1:23.250"},
		{0.0, "0:00.000"},
	}
	for _, c := range cases {
		got, err := FormatLapTime(c.in)
		require.NoError(t, err, "%v", c.in)
		assert.Equal(t, c.want, got, "%v", c.in)
	}
}

func TestFormatLapTimeRejectsOtherTypes(t *testing.T) {
	var nilDur *time.Duration
	for _, in := range []any{"65.4", nil, nilDur, []float64{1}, struct{}{}} {
		_, err := FormatLapTime(in)
		var target *InputTypeError
		assert.ErrorAs(t, err, &target, "%#v", in)
	}
}

func TestFormatLapTimeRejectsNonFinite(t *testing.T) {
	for _, in := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		got, err := FormatLapTime(in)
		assert.ErrorIs(t, err, ErrNotFinite, "%v", in)
		assert.Empty(t, got)
		assert.Equal(t, "No Data", SecondsToMinutes(in))
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Ferrari\n1:30.500", LapLabel("Ferrari", 90.5, true))
	assert.Equal(t, "HAM\nNo Data", LapLabel("HAM", 0, false))
	assert.Equal(t, "+4.97%", DeltaLabel(4.9723))
	assert.Equal(t, "+0.00%", DeltaLabel(0))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "team_lap_time_dist_2024_bahrain_grand_prix_race.png",
		ExportFileName("team_lap_time_dist", 2024, "Bahrain Grand Prix", "race"))
	assert.Equal(t, "gear_shifts_per_lap_2024_monaco_grand_prix_qualifying_LEC_12.png",
		ExportFileName("gear_shifts_per_lap", 2024, "Monaco Grand Prix", "qualifying", "LEC", "12"))
	assert.Equal(t, "2024 | Monaco Grand Prix | Race | Lap: Average",
		Subtitle(2024, "Monaco Grand Prix", "Race", "Lap: Average"))
}

func TestToIDStable(t *testing.T) {
	assert.Equal(t, ToID("Bahrain Grand Prix"), ToID("Bahrain Grand Prix"))
	assert.NotEqual(t, ToID("Bahrain Grand Prix"), ToID("Saudi Arabian Grand Prix"))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"Team", "Delta"}, [][]string{{"Ferrari", "+0.27%"}})
	assert.Contains(t, out, "TEAM")
	assert.Contains(t, out, "Ferrari")
	assert.Contains(t, out, "+0.27%")
	assert.Contains(t, out, "╭")
}
