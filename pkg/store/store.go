// Package store reads and writes the session tables kept under the data
// directory:
//
//	<dir>/<year>/schedule.parquet
//	<dir>/<year>/<event dir>/<session dir>/{laps,results,weather,telemetry_data}.parquet
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"formulastats/pkg/model"

	"github.com/pkg/errors"
)

const (
	scheduleFile  = "schedule.parquet"
	lapsFile      = "laps.parquet"
	resultsFile   = "results.parquet"
	weatherFile   = "weather.parquet"
	telemetryFile = "telemetry_data.parquet"
)

type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.What)
}

type Store struct {
	dir    string
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

func (s *Store) Dir() string {
	return s.dir
}

// Years lists the seasons present in the data directory, newest first.
func (s *Store) Years() ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []int{}, nil
		}
		return nil, errors.Wrapf(err, "list %s", s.dir)
	}
	years := []int{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if y, err := strconv.Atoi(e.Name()); err == nil {
			if _, err := os.Stat(s.schedulePath(y)); err == nil {
				years = append(years, y)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (s *Store) schedulePath(year int) string {
	return filepath.Join(s.dir, strconv.Itoa(year), scheduleFile)
}

func (s *Store) sessionPath(year int, event model.Event, session, file string) string {
	return filepath.Join(s.dir, strconv.Itoa(year), event.DirName, model.SessionDirName(session), file)
}

func (s *Store) Schedule(year int) (model.Schedule, error) {
	path := s.schedulePath(year)
	s.logger.Debug("reading schedule", "path", path)
	rows, err := readFile[eventRow](path)
	if err != nil {
		return nil, err
	}
	return convert(rows, eventRow.toModel), nil
}

// Events lists the events of year that already took place, without testing.
func (s *Store) Events(year int, now time.Time) (model.Schedule, error) {
	schedule, err := s.Schedule(year)
	if err != nil {
		return nil, err
	}
	return schedule.Past(now), nil
}

func (s *Store) Event(year int, name string) (model.Event, error) {
	schedule, err := s.Schedule(year)
	if err != nil {
		return model.Event{}, err
	}
	e, ok := schedule.ByName(name)
	if !ok {
		return model.Event{}, &NotFoundError{What: fmt.Sprintf("event %q in %d", name, year)}
	}
	return e, nil
}

func (s *Store) EventByRound(year, round int) (model.Event, error) {
	schedule, err := s.Schedule(year)
	if err != nil {
		return model.Event{}, err
	}
	e, ok := schedule.ByRound(round)
	if !ok {
		return model.Event{}, &NotFoundError{What: fmt.Sprintf("round %d in %d", round, year)}
	}
	return e, nil
}

// Sessions lists the sessions of an event from the last one to the first.
func (s *Store) Sessions(year int, event string) ([]string, error) {
	e, err := s.Event(year, event)
	if err != nil {
		return nil, err
	}
	return e.SessionNames(), nil
}

type ScheduleRow struct {
	Round        int    `json:"round"`
	Country      string `json:"country"`
	Location     string `json:"location"`
	OfficialName string `json:"officialName"`
	Date         string `json:"date"`
	Name         string `json:"name"`
	Format       string `json:"format"`
}

var ScheduleHeader = []string{"Round", "Country", "Location", "Official Name", "Date", "Name", "Format"}

func (r ScheduleRow) Cells() []string {
	return []string{strconv.Itoa(r.Round), r.Country, r.Location, r.OfficialName, r.Date, r.Name, r.Format}
}

// FormatName gives the display name of an event format; both sprint
// weekend formats read as "Sprint".
func FormatName(format string) string {
	switch format {
	case "sprint_qualifying", "sprint_shootout":
		return "Sprint"
	}
	return model.SessionTitle(format)
}

func (s *Store) ScheduleRows(year int) ([]ScheduleRow, error) {
	schedule, err := s.Schedule(year)
	if err != nil {
		return nil, err
	}
	rows := make([]ScheduleRow, 0, len(schedule))
	for _, e := range schedule {
		rows = append(rows, ScheduleRow{
			Round:        e.RoundNumber,
			Country:      e.Country,
			Location:     e.Location,
			OfficialName: e.OfficialEventName,
			Date:         e.EventDate.Format("2006-01-02"),
			Name:         e.EventName,
			Format:       FormatName(e.EventFormat),
		})
	}
	return rows, nil
}

func (s *Store) Laps(year int, event model.Event, session string) (model.Laps, error) {
	rows, err := readFile[lapRow](s.sessionPath(year, event, session, lapsFile))
	if err != nil {
		return nil, err
	}
	return convert(rows, lapRow.toModel), nil
}

func (s *Store) Results(year int, event model.Event, session string) (model.Results, error) {
	rows, err := readFile[resultRow](s.sessionPath(year, event, session, resultsFile))
	if err != nil {
		return nil, err
	}
	results := convert(rows, resultRow.toModel)
	// unclassified drivers have position 0 and go last
	sort.SliceStable(results, func(i, j int) bool {
		pi, pj := results[i].Position, results[j].Position
		if pi == 0 || pj == 0 {
			return pj == 0 && pi != 0
		}
		return pi < pj
	})
	return results, nil
}

func (s *Store) Weather(year int, event model.Event, session string) ([]model.Weather, error) {
	rows, err := readFile[weatherRow](s.sessionPath(year, event, session, weatherFile))
	if err != nil {
		return nil, err
	}
	return convert(rows, weatherRow.toModel), nil
}

func (s *Store) Telemetry(year int, event model.Event, session string) (model.TelemetryTrace, error) {
	rows, err := readFile[telemetryRow](s.sessionPath(year, event, session, telemetryFile))
	if err != nil {
		return nil, err
	}
	return convert(rows, telemetryRow.toModel), nil
}

func (s *Store) WriteSchedule(year int, schedule model.Schedule) error {
	return writeFile(s.schedulePath(year), convert(schedule, eventToRow))
}

func (s *Store) WriteLaps(year int, event model.Event, session string, laps model.Laps) error {
	return writeFile(s.sessionPath(year, event, session, lapsFile), convert(laps, lapToRow))
}

func (s *Store) WriteResults(year int, event model.Event, session string, results model.Results) error {
	return writeFile(s.sessionPath(year, event, session, resultsFile), convert(results, resultToRow))
}

func (s *Store) WriteWeather(year int, event model.Event, session string, rows []model.Weather) error {
	return writeFile(s.sessionPath(year, event, session, weatherFile), convert(rows, weatherToRow))
}

func (s *Store) WriteTelemetry(year int, event model.Event, session string, trace model.TelemetryTrace) error {
	return writeFile(s.sessionPath(year, event, session, telemetryFile), convert(trace, telemetryToRow))
}

// IsNotFound reports whether err, or anything it wraps, is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
