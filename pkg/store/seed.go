package store

import (
	"math"
	"math/rand/v2"
	"time"

	"formulastats/pkg/model"
)

type seedDriver struct {
	abbreviation, fullName string
	offset                 float64
}

type seedTeam struct {
	name, official, fastf1 string
	offset                 float64
	drivers                [2]seedDriver
}

var seedTeams = []seedTeam{
	{"Red Bull Racing", "3671C6", "#0600ef", 0, [2]seedDriver{{"VER", "Max Verstappen", 0}, {"PER", "Sergio Perez", 0.2}}},
	{"Ferrari", "E8002D", "#dc0000", 0.25, [2]seedDriver{{"LEC", "Charles Leclerc", 0}, {"SAI", "Carlos Sainz", 0.1}}},
	{"McLaren", "FF8000", "#ff8700", 0.35, [2]seedDriver{{"NOR", "Lando Norris", 0}, {"PIA", "Oscar Piastri", 0.2}}},
	{"Mercedes", "27F4D2", "#00d2be", 0.5, [2]seedDriver{{"HAM", "Lewis Hamilton", 0.05}, {"RUS", "George Russell", 0}}},
}

var compoundColors = map[string]string{
	"SOFT":   "#da291c",
	"MEDIUM": "#ffd12e",
	"HARD":   "#f0f0ec",
}

func seedSchedule(year int) model.Schedule {
	date := func(month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
	return model.Schedule{
		{RoundNumber: 0, Country: "Bahrain", Location: "Sakhir", OfficialEventName: "FORMULA 1 ARAMCO PRE-SEASON TESTING",
			EventName: "Pre-Season Testing", EventDate: date(time.February, 23), EventFormat: "testing", DirName: "Pre-Season_Testing",
			Sessions: [5]string{"Practice 1", "Practice 2", "Practice 3", "None", "None"}},
		{RoundNumber: 1, Country: "Bahrain", Location: "Sakhir", OfficialEventName: "FORMULA 1 GULF AIR BAHRAIN GRAND PRIX",
			EventName: "Bahrain Grand Prix", EventDate: date(time.March, 2), EventFormat: "conventional", DirName: "Bahrain_Grand_Prix",
			Sessions: [5]string{"Practice 1", "Practice 2", "Practice 3", "Qualifying", "Race"}},
		{RoundNumber: 2, Country: "China", Location: "Shanghai", OfficialEventName: "FORMULA 1 LENOVO CHINESE GRAND PRIX",
			EventName: "Chinese Grand Prix", EventDate: date(time.April, 21), EventFormat: "sprint_qualifying", DirName: "Chinese_Grand_Prix",
			Sessions: [5]string{"Practice 1", "Sprint Qualifying", "Sprint", "Qualifying", "Race"}},
		{RoundNumber: 3, Country: "United Arab Emirates", Location: "Yas Island", OfficialEventName: "FORMULA 1 ETIHAD AIRWAYS ABU DHABI GRAND PRIX",
			EventName: "Abu Dhabi Grand Prix", EventDate: date(time.December, 8), EventFormat: "conventional", DirName: "Abu_Dhabi_Grand_Prix",
			Sessions: [5]string{"Practice 1", "Practice 2", "Practice 3", "Qualifying", "Race"}},
	}
}

// Seed writes a small synthetic season: a testing event, a conventional
// weekend and a sprint weekend with session tables, plus a scheduled event
// without data. The output is deterministic.
func Seed(s *Store, year int) error {
	schedule := seedSchedule(year)
	if err := s.WriteSchedule(year, schedule); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(uint64(year), 7))
	for _, e := range schedule[1:3] {
		for _, session := range e.SessionNames() {
			s.logger.Debug("seeding session", "event", e.EventName, "session", session)
			if err := seedSession(s, rng, year, e, session); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedSession(s *Store, rng *rand.Rand, year int, e model.Event, session string) error {
	kind, _ := model.ParseSession(model.SessionDirName(session))
	laps := 12
	switch kind {
	case model.SessionRace:
		laps = 30
	case model.SessionSprint:
		laps = 15
	}

	var (
		lapRows   model.Laps
		results   model.Results
		trace     model.TelemetryTrace
		pace      = map[string]float64{}
		driverIdx = 0
	)
	for _, t := range seedTeams {
		for _, d := range t.drivers {
			driverIdx++
			base := 92 + t.offset + d.offset
			pace[d.abbreviation] = base
			for n := 1; n <= laps; n++ {
				lap := model.Lap{Driver: d.abbreviation, Team: t.name, LapNumber: n, Compound: "SOFT"}
				if kind == model.SessionRace && n > laps/2 {
					lap.Compound = "HARD"
				}
				lap.CompoundColor = compoundColors[lap.Compound]
				seconds := base + rng.Float64()*0.8
				switch {
				case n == 1 && driverIdx == 3:
					lap.Compound = "nan"
					lap.CompoundColor = ""
					lapRows = append(lapRows, lap)
					continue
				case n == 1:
					seconds += 4
				case kind == model.SessionRace && n == laps/2:
					seconds += 21
				}
				lt := time.Duration(seconds * float64(time.Second))
				lap.LapTime = &lt
				lapRows = append(lapRows, lap)
			}
			for n := 1; n <= 2; n++ {
				trace = append(trace, seedLapTrace(d.abbreviation, t.name, n, base)...)
			}
			results = append(results, model.Result{
				Abbreviation:      d.abbreviation,
				FullName:          d.fullName,
				TeamName:          t.name,
				TeamColorOfficial: t.official,
				TeamColorFastf1:   t.fastf1,
			})
		}
	}
	sortResultsByPace(results, pace)

	weather := make([]model.Weather, 0, 60)
	for m := 0; m < 60; m++ {
		weather = append(weather, model.Weather{
			Time:          time.Duration(m)*time.Minute + 15*time.Second,
			AirTemp:       24 + float64(m)/30 + rng.Float64()*0.2,
			TrackTemp:     38 + float64(m)/15 + rng.Float64()*0.5,
			Rainfall:      m >= 45 && m < 50,
			WindDirection: math.Mod(180+float64(m)*3, 360),
			WindSpeed:     1 + rng.Float64()*2,
			Pressure:      1012 + rng.Float64(),
			Humidity:      40 + float64(m)/6,
		})
	}

	if err := s.WriteLaps(year, e, session, lapRows); err != nil {
		return err
	}
	if err := s.WriteResults(year, e, session, results); err != nil {
		return err
	}
	if err := s.WriteWeather(year, e, session, weather); err != nil {
		return err
	}
	return s.WriteTelemetry(year, e, session, trace)
}

func sortResultsByPace(results model.Results, pace map[string]float64) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && pace[results[j].Abbreviation] < pace[results[j-1].Abbreviation]; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
	for i := range results {
		results[i].Position = i + 1
	}
}

// seedLapTrace walks an oval with two straights; speed and gear drop in the
// corners.
func seedLapTrace(driver, team string, lap int, base float64) model.TelemetryTrace {
	const samples = 240
	out := make(model.TelemetryTrace, 0, samples)
	for i := 0; i < samples; i++ {
		a := 2 * math.Pi * float64(i) / samples
		corner := math.Abs(math.Sin(2 * a))
		speed := 320 - 220*corner - (base-92)*10
		gear := min(8, max(1, int(speed/40)))
		out = append(out, model.Telemetry{
			X:      3000 * math.Cos(a),
			Y:      1200 * math.Sin(a),
			NGear:  gear,
			Speed:  math.Round(speed*10) / 10,
			Driver: driver,
			Lap:    lap,
			Team:   team,
		})
	}
	return out
}
