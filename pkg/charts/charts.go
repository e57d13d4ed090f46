// Package charts renders the session charts to PNG.
package charts

import (
	"bytes"
	"image"
	"image/png"
	"strings"

	"formulastats/pkg/helper"
	"formulastats/pkg/model"
	"formulastats/pkg/palette"
	"formulastats/pkg/stats"

	"github.com/pkg/errors"
)

type Kind string

const (
	TeamLapTimeDist    Kind = "team_lap_time_dist"
	PointScorers       Kind = "violin_point_scorers"
	DriversLapTimeDist Kind = "drivers_lap_time_dist"
	TeamPace           Kind = "team_pace_comparison"
	WeatherData        Kind = "weather_data"
	GearShifts         Kind = "gear_shifts_per_lap"
	SpeedOverLap       Kind = "speed_over_lap"
)

var Kinds = []Kind{TeamLapTimeDist, PointScorers, DriversLapTimeDist, TeamPace, WeatherData, GearShifts, SpeedOverLap}

var (
	ErrUnknownKind = errors.New("unknown chart kind")
	ErrNoLaps      = errors.New("no timed laps to plot")
	ErrNoTelemetry = errors.New("no telemetry for driver and lap")
)

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}

func (k Kind) IsTrackMap() bool {
	return k == GearShifts || k == SpeedOverLap
}

// Session is everything loaded for one session. Tables a chart does not
// need may be left empty.
type Session struct {
	Year      int
	Event     string
	Session   string
	Laps      model.Laps
	Results   model.Results
	Weather   []model.Weather
	Telemetry model.TelemetryTrace
}

func (s Session) subtitle(extra ...string) string {
	return helper.Subtitle(s.Year, s.Event, s.Session, extra...)
}

type Options struct {
	DPI       int
	Watermark bool
	Fallback  string
	Scheme    palette.Scheme
	Filter    stats.OutlierFilter
	// ShowCompounds adds the tyre compound dots to the point scorers chart.
	ShowCompounds bool

	PaceMode stats.PaceMode
	PaceLap  int

	Channels []string

	Driver   string
	Lap      int
	Rotation float64
}

func DefaultOptions() Options {
	return Options{
		DPI:       300,
		Watermark: true,
		Fallback:  palette.DefaultFallback,
		Scheme:    palette.SchemeOfficial,
		Filter:    stats.NoFilter{},
		Rotation:  DefaultRotation,
	}
}

func (o Options) filter() stats.OutlierFilter {
	if o.Filter == nil {
		return stats.NoFilter{}
	}
	return o.Filter
}

func (o Options) dpi() int {
	if o.DPI <= 0 {
		return 300
	}
	return o.DPI
}

func (o Options) fallback() string {
	if o.Fallback == "" {
		return palette.DefaultFallback
	}
	return o.Fallback
}

type Image struct {
	Kind     Kind
	FileName string
	PNG      []byte
}

// Render draws kind for session s.
func Render(kind Kind, s Session, o Options) (Image, error) {
	var (
		img image.Image
		err error
	)
	switch kind {
	case TeamLapTimeDist:
		img, err = teamDistribution(s, o)
	case PointScorers:
		img, err = pointScorers(s, o)
	case DriversLapTimeDist:
		img, err = driversDistribution(s, o)
	case TeamPace:
		img, err = teamPace(s, o)
	case WeatherData:
		img, err = weatherPanels(s, o)
	case GearShifts, SpeedOverLap:
		img, err = trackMap(kind, s, o)
	default:
		return Image{}, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	if err != nil {
		return Image{}, err
	}

	if o.Watermark {
		img = watermark(img)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Image{}, errors.Wrap(err, "encode png")
	}
	return Image{Kind: kind, FileName: FileName(kind, s, o), PNG: buf.Bytes()}, nil
}

// FileName is the download name of a chart.
func FileName(kind Kind, s Session, o Options) string {
	session := model.SessionDirName(s.Session)
	if kind.IsTrackMap() {
		return helper.ExportFileName(string(kind), s.Year, s.Event, session, o.Driver, itoa(o.Lap))
	}
	return helper.ExportFileName(string(kind), s.Year, s.Event, session)
}
