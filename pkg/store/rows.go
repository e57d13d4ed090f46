package store

import (
	"time"

	"formulastats/pkg/model"
)

// Column names follow the session tables produced by the data loader, so
// files written elsewhere read back unchanged.

type lapRow struct {
	Driver        string `parquet:"name=Driver, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Team          string `parquet:"name=Team, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	LapNumber     int32  `parquet:"name=LapNumber, type=INT32"`
	LapTime       *int64 `parquet:"name=LapTime, type=INT64, repetitiontype=OPTIONAL"`
	Compound      string `parquet:"name=Compound, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	CompoundColor string `parquet:"name=CompoundColor, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

func lapToRow(l model.Lap) lapRow {
	r := lapRow{
		Driver:        l.Driver,
		Team:          l.Team,
		LapNumber:     int32(l.LapNumber),
		Compound:      l.Compound,
		CompoundColor: l.CompoundColor,
	}
	if l.LapTime != nil {
		ns := int64(*l.LapTime)
		r.LapTime = &ns
	}
	return r
}

func (r lapRow) toModel() model.Lap {
	l := model.Lap{
		Driver:        r.Driver,
		Team:          r.Team,
		LapNumber:     int(r.LapNumber),
		Compound:      r.Compound,
		CompoundColor: r.CompoundColor,
	}
	if r.LapTime != nil {
		d := time.Duration(*r.LapTime)
		l.LapTime = &d
	}
	return l
}

type resultRow struct {
	Position          int32  `parquet:"name=Position, type=INT32"`
	Abbreviation      string `parquet:"name=Abbreviation, type=BYTE_ARRAY, convertedtype=UTF8"`
	FullName          string `parquet:"name=FullName, type=BYTE_ARRAY, convertedtype=UTF8"`
	TeamName          string `parquet:"name=TeamName, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	TeamColorOfficial string `parquet:"name=TeamColorOfficial, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	TeamColorFastf1   string `parquet:"name=TeamColorFastf1, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

func resultToRow(r model.Result) resultRow {
	return resultRow{
		Position:          int32(r.Position),
		Abbreviation:      r.Abbreviation,
		FullName:          r.FullName,
		TeamName:          r.TeamName,
		TeamColorOfficial: r.TeamColorOfficial,
		TeamColorFastf1:   r.TeamColorFastf1,
	}
}

func (r resultRow) toModel() model.Result {
	return model.Result{
		Position:          int(r.Position),
		Abbreviation:      r.Abbreviation,
		FullName:          r.FullName,
		TeamName:          r.TeamName,
		TeamColorOfficial: r.TeamColorOfficial,
		TeamColorFastf1:   r.TeamColorFastf1,
	}
}

type weatherRow struct {
	Time          int64   `parquet:"name=Time, type=INT64"`
	AirTemp       float64 `parquet:"name=AirTemp, type=DOUBLE"`
	TrackTemp     float64 `parquet:"name=TrackTemp, type=DOUBLE"`
	Rainfall      bool    `parquet:"name=Rainfall, type=BOOLEAN"`
	WindDirection float64 `parquet:"name=WindDirection, type=DOUBLE"`
	WindSpeed     float64 `parquet:"name=WindSpeed, type=DOUBLE"`
	Pressure      float64 `parquet:"name=Pressure, type=DOUBLE"`
	Humidity      float64 `parquet:"name=Humidity, type=DOUBLE"`
}

func weatherToRow(w model.Weather) weatherRow {
	return weatherRow{
		Time:          int64(w.Time),
		AirTemp:       w.AirTemp,
		TrackTemp:     w.TrackTemp,
		Rainfall:      w.Rainfall,
		WindDirection: w.WindDirection,
		WindSpeed:     w.WindSpeed,
		Pressure:      w.Pressure,
		Humidity:      w.Humidity,
	}
}

func (r weatherRow) toModel() model.Weather {
	return model.Weather{
		Time:          time.Duration(r.Time),
		AirTemp:       r.AirTemp,
		TrackTemp:     r.TrackTemp,
		Rainfall:      r.Rainfall,
		WindDirection: r.WindDirection,
		WindSpeed:     r.WindSpeed,
		Pressure:      r.Pressure,
		Humidity:      r.Humidity,
	}
}

type telemetryRow struct {
	X      float64 `parquet:"name=X, type=DOUBLE"`
	Y      float64 `parquet:"name=Y, type=DOUBLE"`
	NGear  int32   `parquet:"name=nGear, type=INT32"`
	Speed  float64 `parquet:"name=Speed, type=DOUBLE"`
	Driver string  `parquet:"name=driver, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Lap    int32   `parquet:"name=lap, type=INT32"`
	Team   string  `parquet:"name=Team, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

func telemetryToRow(t model.Telemetry) telemetryRow {
	return telemetryRow{X: t.X, Y: t.Y, NGear: int32(t.NGear), Speed: t.Speed, Driver: t.Driver, Lap: int32(t.Lap), Team: t.Team}
}

func (r telemetryRow) toModel() model.Telemetry {
	return model.Telemetry{X: r.X, Y: r.Y, NGear: int(r.NGear), Speed: r.Speed, Driver: r.Driver, Lap: int(r.Lap), Team: r.Team}
}

type eventRow struct {
	RoundNumber       int32  `parquet:"name=RoundNumber, type=INT32"`
	Country           string `parquet:"name=Country, type=BYTE_ARRAY, convertedtype=UTF8"`
	Location          string `parquet:"name=Location, type=BYTE_ARRAY, convertedtype=UTF8"`
	OfficialEventName string `parquet:"name=OfficialEventName, type=BYTE_ARRAY, convertedtype=UTF8"`
	EventName         string `parquet:"name=EventName, type=BYTE_ARRAY, convertedtype=UTF8"`
	EventDate         int64  `parquet:"name=EventDate, type=INT64"`
	EventFormat       string `parquet:"name=EventFormat, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DirName           string `parquet:"name=DirName, type=BYTE_ARRAY, convertedtype=UTF8"`
	Session1          string `parquet:"name=Session1, type=BYTE_ARRAY, convertedtype=UTF8"`
	Session2          string `parquet:"name=Session2, type=BYTE_ARRAY, convertedtype=UTF8"`
	Session3          string `parquet:"name=Session3, type=BYTE_ARRAY, convertedtype=UTF8"`
	Session4          string `parquet:"name=Session4, type=BYTE_ARRAY, convertedtype=UTF8"`
	Session5          string `parquet:"name=Session5, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func eventToRow(e model.Event) eventRow {
	return eventRow{
		RoundNumber:       int32(e.RoundNumber),
		Country:           e.Country,
		Location:          e.Location,
		OfficialEventName: e.OfficialEventName,
		EventName:         e.EventName,
		EventDate:         e.EventDate.UnixMilli(),
		EventFormat:       e.EventFormat,
		DirName:           e.DirName,
		Session1:          e.Sessions[0],
		Session2:          e.Sessions[1],
		Session3:          e.Sessions[2],
		Session4:          e.Sessions[3],
		Session5:          e.Sessions[4],
	}
}

func (r eventRow) toModel() model.Event {
	return model.Event{
		RoundNumber:       int(r.RoundNumber),
		Country:           r.Country,
		Location:          r.Location,
		OfficialEventName: r.OfficialEventName,
		EventName:         r.EventName,
		EventDate:         time.UnixMilli(r.EventDate).UTC(),
		EventFormat:       r.EventFormat,
		DirName:           r.DirName,
		Sessions:          [5]string{r.Session1, r.Session2, r.Session3, r.Session4, r.Session5},
	}
}

// rosterCell is one cell of a scraped table. Header cells use Row -1.
type rosterCell struct {
	Row    int32  `parquet:"name=row, type=INT32"`
	Column int32  `parquet:"name=column, type=INT32"`
	Value  string `parquet:"name=value, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func convert[R, M any](rows []R, f func(R) M) []M {
	out := make([]M, len(rows))
	for i, r := range rows {
		out[i] = f(r)
	}
	return out
}
