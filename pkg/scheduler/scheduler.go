// Package scheduler refreshes the scraped driver rosters on a cron schedule.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"formulastats/pkg/roster"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

const DefaultSchedule = "0 6 * * *"

type Refresher interface {
	Refresh(ctx context.Context, category roster.Category) (roster.Roster, error)
}

type Scheduler struct {
	cron       *cron.Cron
	refresher  Refresher
	categories []roster.Category
	timeout    time.Duration
	logger     *slog.Logger
}

// New registers one job refreshing every category on spec, a standard five
// field cron expression.
func New(spec string, refresher Refresher, categories []roster.Category, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if spec == "" {
		spec = DefaultSchedule
	}
	s := &Scheduler{
		cron:       cron.New(),
		refresher:  refresher,
		categories: categories,
		timeout:    5 * time.Minute,
		logger:     logger,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, errors.Wrapf(err, "invalid cron schedule %q", spec)
	}
	logger.Info("scheduled roster refresh", "schedule", spec, "categories", len(categories))
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("roster scheduler started")
}

// Stop waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("roster scheduler stopped")
}

// Next is the time of the next scheduled refresh.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.RefreshAll(ctx)
}

// RefreshAll refreshes each category in turn. A failing category is logged
// and does not stop the others; the number of failures is returned.
func (s *Scheduler) RefreshAll(ctx context.Context) int {
	failed := 0
	for _, c := range s.categories {
		r, err := s.refresher.Refresh(ctx, c)
		if err != nil {
			failed++
			s.logger.Warn("scheduled roster refresh failed", "category", c, "error", err)
			continue
		}
		s.logger.Info("roster refreshed", "category", c, "drivers", r.Len())
	}
	return failed
}
