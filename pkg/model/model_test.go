package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dur(s float64) *time.Duration {
	d := time.Duration(s * float64(time.Second))
	return &d
}

func TestParseSessionAliases(t *testing.T) {
	cases := map[string]SessionKind{
		"race":              SessionRace,
		" R ":               SessionRace,
		"Quali":             SessionQualifying,
		"q":                 SessionQualifying,
		"qualifying":        SessionQualifying,
		"sprint":            SessionSprint,
		"S":                 SessionSprint,
		"sprint_qualifying": SessionSprintQualifying,
		"fp1":               SessionPractice1,
		"p2":                SessionPractice2,
		"practice_3":        SessionPractice3,
	}
	for input, want := range cases {
		got, err := ParseSession(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseSessionUnknown(t *testing.T) {
	_, err := ParseSession("warmup")
	var target *UnknownSessionError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "warmup", target.Input)
}

func TestSessionNames(t *testing.T) {
	assert.Equal(t, "Practice 1", SessionPractice1.String())
	assert.Equal(t, "practice_1", SessionPractice1.DirName())
	assert.Equal(t, "sprint_qualifying", SessionSprintQualifying.DirName())
	assert.Equal(t, "sprint_shootout", SessionDirName("Sprint  Shootout"))
	assert.Equal(t, "Sprint Qualifying", SessionTitle("sprint_qualifying"))
	assert.Equal(t, "Race", SessionTitle("race"))
}

func TestLapSeconds(t *testing.T) {
	s, ok := Lap{LapTime: dur(90.5)}.Seconds()
	assert.True(t, ok)
	assert.InDelta(t, 90.5, s, 1e-9)

	_, ok = Lap{}.Seconds()
	assert.False(t, ok)

	_, ok = Lap{LapTime: dur(0)}.Seconds()
	assert.False(t, ok)
}

func TestLapsHelpers(t *testing.T) {
	laps := Laps{
		{Driver: "VER", LapNumber: 1},
		{Driver: "VER", LapNumber: 2, LapTime: dur(91), Compound: "nan"},
		{Driver: "HAM", LapNumber: 2, LapTime: dur(92), Compound: "SOFT"},
		{Driver: "HAM", LapNumber: 3, LapTime: dur(93)},
	}
	assert.Equal(t, 3, laps.MaxLapNumber())
	assert.Equal(t, []int{2, 3}, laps.TimedLapNumbers())

	l, ok := laps.Find("HAM", 2)
	require.True(t, ok)
	assert.Equal(t, "SOFT", l.Compound)

	fixed := laps.WithCompoundPlaceholder()
	assert.Equal(t, NoData, fixed[1].Compound)
	assert.Equal(t, "SOFT", fixed[2].Compound)
	assert.Equal(t, "nan", laps[1].Compound)
}

func TestSchedulePastAndSessions(t *testing.T) {
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	s := Schedule{
		{RoundNumber: 0, EventName: "Pre-Season Testing", EventDate: now.AddDate(0, -1, 0)},
		{RoundNumber: 1, EventName: "Bahrain Grand Prix", EventDate: now.AddDate(0, 0, -20),
			Sessions: [5]string{"Practice 1", "Practice 2", "Practice 3", "Qualifying", "Race"}},
		{RoundNumber: 2, EventName: "Chinese Grand Prix", EventDate: now.AddDate(0, 0, 20)},
	}
	past := s.Past(now)
	require.Len(t, past, 1)
	assert.Equal(t, "Bahrain Grand Prix", past[0].EventName)
	assert.Equal(t, "bahrain_grand_prix", past[0].Slug())
	assert.Equal(t, []string{"Race", "Qualifying", "Practice 3", "Practice 2", "Practice 1"}, past[0].SessionNames())

	sprint := Event{Sessions: [5]string{"Practice 1", "Sprint Qualifying", "Sprint", "Qualifying", "None"}}
	assert.Equal(t, []string{"Qualifying", "Sprint", "Sprint Qualifying", "Practice 1"}, sprint.SessionNames())
}

func TestResultsHelpers(t *testing.T) {
	rs := Results{
		{Abbreviation: "VER", FullName: "Max Verstappen", TeamName: "Red Bull Racing"},
		{Abbreviation: "PER", FullName: "Sergio Perez", TeamName: "Red Bull Racing"},
		{Abbreviation: "LEC", FullName: "Charles Leclerc", TeamName: "Ferrari"},
	}
	assert.Equal(t, []string{"Red Bull Racing", "Ferrari"}, rs.Teams())
	assert.Equal(t, "Ferrari", rs.DriverTeams()["LEC"])
	assert.Len(t, rs.Top(10), 3)
	assert.Equal(t, []string{"VER", "PER"}, rs.Top(2).Abbreviations())
}
