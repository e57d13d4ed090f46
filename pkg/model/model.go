package model

import (
	"fmt"
	"strings"
	"time"
)

const NoData = "No Data"

type Lap struct {
	Driver        string         `json:"driver"`
	Team          string         `json:"team"`
	LapNumber     int            `json:"lapNumber"`
	LapTime       *time.Duration `json:"lapTime"`
	Compound      string         `json:"compound"`
	CompoundColor string         `json:"compoundColor"`
}

// Seconds returns the lap time in seconds. ok is false when the lap has no
// usable time (missing, zero or negative).
func (l Lap) Seconds() (float64, bool) {
	if l.LapTime == nil || *l.LapTime <= 0 {
		return 0, false
	}
	return l.LapTime.Seconds(), true
}

type Laps []Lap

// MaxLapNumber is the highest lap number present, 0 for an empty table.
func (ls Laps) MaxLapNumber() int {
	maxLap := 0
	for _, l := range ls {
		if l.LapNumber > maxLap {
			maxLap = l.LapNumber
		}
	}
	return maxLap
}

// TimedLapNumbers lists the lap numbers that have a lap time, in table order.
func (ls Laps) TimedLapNumbers() []int {
	seen := map[int]bool{}
	numbers := []int{}
	for _, l := range ls {
		if _, ok := l.Seconds(); !ok || seen[l.LapNumber] {
			continue
		}
		seen[l.LapNumber] = true
		numbers = append(numbers, l.LapNumber)
	}
	return numbers
}

// Find returns the first lap driven by driver with the given number.
func (ls Laps) Find(driver string, lapNumber int) (Lap, bool) {
	for _, l := range ls {
		if l.Driver == driver && l.LapNumber == lapNumber {
			return l, true
		}
	}
	return Lap{}, false
}

// WithCompoundPlaceholder replaces the "nan" compound written by the scraper
// with the No Data label.
func (ls Laps) WithCompoundPlaceholder() Laps {
	out := make(Laps, len(ls))
	for i, l := range ls {
		if l.Compound == "" || strings.EqualFold(l.Compound, "nan") {
			l.Compound = NoData
		}
		out[i] = l
	}
	return out
}

type Result struct {
	Position          int    `json:"position"`
	Abbreviation      string `json:"abbreviation"`
	FullName          string `json:"fullName"`
	TeamName          string `json:"teamName"`
	TeamColorOfficial string `json:"teamColorOfficial"`
	TeamColorFastf1   string `json:"teamColorFastf1"`
}

type Results []Result

// Teams lists team names in first-appearance order.
func (rs Results) Teams() []string {
	seen := map[string]bool{}
	teams := []string{}
	for _, r := range rs {
		if r.TeamName == "" || seen[r.TeamName] {
			continue
		}
		seen[r.TeamName] = true
		teams = append(teams, r.TeamName)
	}
	return teams
}

func (rs Results) Abbreviations() []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Abbreviation)
	}
	return out
}

func (rs Results) FullNames() []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.FullName)
	}
	return out
}

// DriverTeams maps driver abbreviation to team name.
func (rs Results) DriverTeams() map[string]string {
	out := make(map[string]string, len(rs))
	for _, r := range rs {
		out[r.Abbreviation] = r.TeamName
	}
	return out
}

// Top returns the first n results in table (finishing) order.
func (rs Results) Top(n int) Results {
	if n > len(rs) {
		n = len(rs)
	}
	return rs[:n]
}

type Weather struct {
	Time          time.Duration `json:"time"`
	AirTemp       float64       `json:"airTemp"`
	TrackTemp     float64       `json:"trackTemp"`
	Rainfall      bool          `json:"rainfall"`
	WindDirection float64       `json:"windDirection"`
	WindSpeed     float64       `json:"windSpeed"`
	Pressure      float64       `json:"pressure"`
	Humidity      float64       `json:"humidity"`
}

type Telemetry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	NGear  int     `json:"nGear"`
	Speed  float64 `json:"speed"`
	Driver string  `json:"driver"`
	Lap    int     `json:"lap"`
	Team   string  `json:"team"`
}

type TelemetryTrace []Telemetry

// For keeps the samples of one driver on one lap, preserving order.
func (t TelemetryTrace) For(driver string, lap int) TelemetryTrace {
	out := TelemetryTrace{}
	for _, s := range t {
		if s.Driver == driver && s.Lap == lap {
			out = append(out, s)
		}
	}
	return out
}

type Event struct {
	RoundNumber       int       `json:"roundNumber"`
	Country           string    `json:"country"`
	Location          string    `json:"location"`
	OfficialEventName string    `json:"officialEventName"`
	EventName         string    `json:"eventName"`
	EventDate         time.Time `json:"eventDate"`
	EventFormat       string    `json:"eventFormat"`
	DirName           string    `json:"dirName"`
	Sessions          [5]string `json:"sessions"`
}

// IsTesting reports whether the event is a pre-season or testing event.
func (e Event) IsTesting() bool {
	name := strings.ToLower(e.EventName)
	return strings.Contains(name, "testing") || strings.Contains(name, "pre-season")
}

// SessionNames lists the event sessions from the last one to the first,
// skipping empty slots.
func (e Event) SessionNames() []string {
	names := []string{}
	for i := len(e.Sessions) - 1; i >= 0; i-- {
		s := strings.TrimSpace(e.Sessions[i])
		if s == "" || s == "None" {
			continue
		}
		names = append(names, s)
	}
	return names
}

// Slug is the lowercase, underscore separated event name used in export
// file names.
func (e Event) Slug() string {
	return strings.ToLower(strings.ReplaceAll(e.EventName, " ", "_"))
}

func (e Event) String() string {
	return fmt.Sprintf("R%02d %s (%s)", e.RoundNumber, e.EventName, e.EventDate.Format("2006-01-02"))
}

type Schedule []Event

// ByName returns the event with the given name.
func (s Schedule) ByName(name string) (Event, bool) {
	for _, e := range s {
		if e.EventName == name {
			return e, true
		}
	}
	return Event{}, false
}

// ByRound returns the event with the given round number.
func (s Schedule) ByRound(round int) (Event, bool) {
	for _, e := range s {
		if e.RoundNumber == round {
			return e, true
		}
	}
	return Event{}, false
}

// Past lists events dated at or before now, excluding testing events.
func (s Schedule) Past(now time.Time) Schedule {
	out := Schedule{}
	for _, e := range s {
		if e.EventDate.After(now) || e.IsTesting() {
			continue
		}
		out = append(out, e)
	}
	return out
}

// RosterRefreshed is published after a driver roster was scraped again.
type RosterRefreshed struct {
	Category string    `json:"category"`
	Drivers  int       `json:"drivers"`
	Path     string    `json:"path"`
	At       time.Time `json:"at"`
}

func (r RosterRefreshed) String() string {
	return fmt.Sprintf("%s driver roster refreshed: %d drivers (%s)", strings.ToUpper(r.Category), r.Drivers, r.At.Format("02-01-2006"))
}
