// Package dashboard answers the questions the web pages, the bot and the
// CLI ask about a season: what took place, how fast everyone was and what
// the charts look like.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"formulastats/pkg/charts"
	"formulastats/pkg/model"
	"formulastats/pkg/palette"
	"formulastats/pkg/roster"
	"formulastats/pkg/stats"
	"formulastats/pkg/store"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type Options struct {
	Fallback       string
	Scheme         palette.Scheme
	RemoveOutliers bool
	OutlierScope   stats.Scope
	DPI            int
	Watermark      bool
	Rotation       float64
}

func DefaultOptions() Options {
	return Options{
		Fallback:       palette.DefaultFallback,
		Scheme:         palette.SchemeOfficial,
		RemoveOutliers: true,
		OutlierScope:   stats.ScopeJoint,
		DPI:            300,
		Watermark:      true,
		Rotation:       charts.DefaultRotation,
	}
}

func (o Options) Filter() stats.OutlierFilter {
	return stats.Scoped(stats.FilterFor(o.RemoveOutliers), o.OutlierScope)
}

// RosterSource hands out the scraped driver tables.
type RosterSource interface {
	Get(ctx context.Context, category roster.Category) (roster.Roster, error)
}

type Service struct {
	store   *store.Store
	rosters RosterSource
	matcher roster.Matcher
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(st *store.Store, rosters RosterSource, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   st,
		rosters: rosters,
		matcher: roster.FuzzyMatcher{},
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) Options() Options {
	return s.opts
}

func (s *Service) Years() ([]int, error) {
	return s.store.Years()
}

// Events lists the events of year that already took place.
func (s *Service) Events(year int) (model.Schedule, error) {
	return s.store.Events(year, s.now())
}

func (s *Service) Sessions(year int, event string) ([]string, error) {
	e, err := s.Event(year, event)
	if err != nil {
		return nil, err
	}
	return e.SessionNames(), nil
}

func (s *Service) Schedule(year int) ([]store.ScheduleRow, error) {
	return s.store.ScheduleRows(year)
}

// Event finds an event by name or round number.
func (s *Service) Event(year int, event string) (model.Event, error) {
	event = strings.TrimSpace(event)
	if event == "" {
		return model.Event{}, &ValidationError{Field: "event", Reason: "required"}
	}
	if round, err := strconv.Atoi(event); err == nil {
		return s.store.EventByRound(year, round)
	}
	return s.store.Event(year, event)
}

// SessionName resolves a session typed by a user ("q", "FP1", "Race") to
// the name used by event.
func SessionName(event model.Event, session string) (string, error) {
	names := event.SessionNames()
	for _, n := range names {
		if strings.EqualFold(n, strings.TrimSpace(session)) || model.SessionDirName(n) == model.SessionDirName(session) {
			return n, nil
		}
	}
	kind, err := model.ParseSession(session)
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if n == kind.String() {
			return n, nil
		}
	}
	return "", &store.NotFoundError{What: fmt.Sprintf("session %q of %s", session, event.EventName)}
}

// SessionRef names one session.
type SessionRef struct {
	Year    int
	Event   string
	Session string
}

func (r SessionRef) validate() error {
	if r.Year <= 0 {
		return &ValidationError{Field: "year", Reason: "required"}
	}
	if strings.TrimSpace(r.Session) == "" {
		return &ValidationError{Field: "session", Reason: "required"}
	}
	return nil
}

// Load reads the tables of one session concurrently. Weather and
// telemetry are optional; laps and results are not.
func (s *Service) Load(ctx context.Context, ref SessionRef) (charts.Session, error) {
	if err := ref.validate(); err != nil {
		return charts.Session{}, err
	}
	event, err := s.Event(ref.Year, ref.Event)
	if err != nil {
		return charts.Session{}, err
	}
	name, err := SessionName(event, ref.Session)
	if err != nil {
		return charts.Session{}, err
	}

	out := charts.Session{Year: ref.Year, Event: event.EventName, Session: name}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	load := func(f func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return f()
		})
	}
	load(func() (err error) {
		out.Laps, err = s.store.Laps(ref.Year, event, name)
		return err
	})
	load(func() (err error) {
		out.Results, err = s.store.Results(ref.Year, event, name)
		return err
	})
	load(func() (err error) {
		out.Weather, err = s.store.Weather(ref.Year, event, name)
		if store.IsNotFound(err) {
			s.logger.Debug("session has no weather", "event", event.EventName, "session", name)
			return nil
		}
		return err
	})
	load(func() (err error) {
		out.Telemetry, err = s.store.Telemetry(ref.Year, event, name)
		if store.IsNotFound(err) {
			s.logger.Debug("session has no telemetry", "event", event.EventName, "session", name)
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return charts.Session{}, errors.Wrapf(err, "load %d %s %s", ref.Year, event.EventName, name)
	}
	return out, nil
}

// ChartRequest selects a chart and its per-chart options.
type ChartRequest struct {
	SessionRef
	Kind          charts.Kind
	ShowCompounds bool
	PaceMode      stats.PaceMode
	PaceLap       int
	Channels      []string
	Driver        string
	Lap           int
	// RemoveOutliers overrides the service default when set.
	RemoveOutliers *bool
	Scheme         palette.Scheme
}

func (s *Service) chartOptions(req ChartRequest) charts.Options {
	opts := s.opts
	if req.RemoveOutliers != nil {
		opts.RemoveOutliers = *req.RemoveOutliers
	}
	scheme := opts.Scheme
	if req.Scheme != "" {
		scheme = req.Scheme
	}
	return charts.Options{
		DPI:           opts.DPI,
		Watermark:     opts.Watermark,
		Fallback:      opts.Fallback,
		Scheme:        scheme,
		Filter:        opts.Filter(),
		ShowCompounds: req.ShowCompounds,
		PaceMode:      req.PaceMode,
		PaceLap:       req.PaceLap,
		Channels:      req.Channels,
		Driver:        req.Driver,
		Lap:           req.Lap,
		Rotation:      opts.Rotation,
	}
}

func (s *Service) Chart(ctx context.Context, req ChartRequest) (charts.Image, error) {
	if req.Kind.IsTrackMap() && (req.Driver == "" || req.Lap <= 0) {
		return charts.Image{}, &ValidationError{Field: "driver", Reason: "track maps need a driver and a lap"}
	}
	if req.PaceMode == stats.PaceSpecific && req.PaceLap <= 0 {
		return charts.Image{}, &ValidationError{Field: "lap", Reason: "a specific lap must be positive"}
	}
	sess, err := s.Load(ctx, req.SessionRef)
	if err != nil {
		return charts.Image{}, err
	}
	switch {
	case req.Kind.IsTrackMap():
		err = checkLap(sess.Laps, req.Lap)
	case req.Kind == charts.TeamPace && req.PaceMode == stats.PaceSpecific:
		err = checkLap(sess.Laps, req.PaceLap)
	}
	if err != nil {
		return charts.Image{}, err
	}
	start := time.Now()
	img, err := charts.Render(req.Kind, sess, s.chartOptions(req))
	if err != nil {
		return charts.Image{}, err
	}
	s.logger.Info("chart rendered", "kind", req.Kind, "file", img.FileName, "bytes", len(img.PNG), "took", time.Since(start))
	return img, nil
}

// ChartFileName is the export name Chart would give req. It resolves the
// event and session but loads no tables.
func (s *Service) ChartFileName(req ChartRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}
	event, err := s.Event(req.Year, req.Event)
	if err != nil {
		return "", err
	}
	name, err := SessionName(event, req.Session)
	if err != nil {
		return "", err
	}
	sess := charts.Session{Year: req.Year, Event: event.EventName, Session: name}
	return charts.FileName(req.Kind, sess, s.chartOptions(req)), nil
}

// checkLap rejects lap numbers past the end of the session.
func checkLap(laps model.Laps, lap int) error {
	if last := laps.MaxLapNumber(); last > 0 && lap > last {
		return &ValidationError{Field: "lap", Reason: fmt.Sprintf("lap %d is past the last lap %d", lap, last)}
	}
	return nil
}

// TimedLaps lists the lap numbers of ref that have a lap time. A non-empty
// driver keeps only that driver's laps.
func (s *Service) TimedLaps(ref SessionRef, driver string) ([]int, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	event, err := s.Event(ref.Year, ref.Event)
	if err != nil {
		return nil, err
	}
	name, err := SessionName(event, ref.Session)
	if err != nil {
		return nil, err
	}
	laps, err := s.store.Laps(ref.Year, event, name)
	if err != nil {
		return nil, err
	}
	if driver != "" {
		own := laps[:0:0]
		for _, l := range laps {
			if l.Driver == driver {
				own = append(own, l)
			}
		}
		laps = own
	}
	return laps.TimedLapNumbers(), nil
}

// Pace returns every team's percentage off the fastest team.
func (s *Service) Pace(ctx context.Context, ref SessionRef, mode stats.PaceMode, lap int) ([]stats.PaceDelta, error) {
	sess, err := s.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if mode == stats.PaceSpecific {
		if err := checkLap(sess.Laps, lap); err != nil {
			return nil, err
		}
	}
	return stats.PaceDeltas(s.opts.Filter().Filter(sess.Laps), sess.Results.Teams(), mode, lap)
}

// Order ranks teams or drivers by the chosen statistic of their laps.
func (s *Service) Order(ctx context.Context, ref SessionRef, by string, stat stats.Statistic) ([]stats.EntityStat, error) {
	sess, err := s.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	laps := s.opts.Filter().Filter(sess.Laps)
	switch by {
	case "", "team":
		return stats.AggregateOver(laps, stats.ByTeam, stat, sess.Results.Teams())
	case "driver":
		return stats.AggregateOver(laps, stats.ByDriver, stat, sess.Results.Abbreviations())
	}
	return nil, &ValidationError{Field: "by", Reason: fmt.Sprintf("%q is neither team nor driver", by)}
}

func (s *Service) Speeds(ctx context.Context, ref SessionRef) ([]stats.TeamSpeed, error) {
	sess, err := s.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return stats.TeamSpeeds(sess.Telemetry), nil
}

// Drivers returns the roster of category. With current set only the
// drivers of the latest race of year are kept.
func (s *Service) Drivers(ctx context.Context, category roster.Category, current bool, year int) (roster.Roster, error) {
	if s.rosters == nil {
		return roster.Roster{}, errors.New("no roster source configured")
	}
	r, err := s.rosters.Get(ctx, category)
	if err != nil {
		return roster.Roster{}, err
	}
	if !current {
		return r, nil
	}
	names, err := s.currentNames(ctx, year)
	if err != nil {
		return roster.Roster{}, err
	}
	return roster.FilterCurrent(r, names, s.matcher), nil
}

func (s *Service) currentNames(ctx context.Context, year int) ([]string, error) {
	events, err := s.Events(year)
	if err != nil {
		return nil, err
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		sessions := e.SessionNames()
		if len(sessions) == 0 {
			continue
		}
		results, err := s.store.Results(year, e, sessions[0])
		if store.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return results.FullNames(), ctx.Err()
	}
	return nil, &store.NotFoundError{What: fmt.Sprintf("results of any %d event", year)}
}

// Records returns the all-time F1 leaders.
func (s *Service) Records(ctx context.Context) ([]roster.Record, error) {
	r, err := s.Drivers(ctx, roster.CategoryF1, false, 0)
	if err != nil {
		return nil, err
	}
	return roster.Records(r), nil
}
