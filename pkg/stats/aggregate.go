package stats

import (
	"sort"
	"strings"

	"formulastats/pkg/model"

	"github.com/pkg/errors"
)

type Statistic int

const (
	StatMedian Statistic = iota
	StatMin
)

func (s Statistic) String() string {
	switch s {
	case StatMedian:
		return "median"
	case StatMin:
		return "min"
	}
	return "unknown"
}

func ParseStatistic(s string) (Statistic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "median":
		return StatMedian, nil
	case "min", "minimum":
		return StatMin, nil
	}
	return 0, errors.Wrapf(ErrUnknownStatistic, "%q", s)
}

func (s Statistic) apply(xs []float64) (float64, error) {
	switch s {
	case StatMedian:
		return Median(xs), nil
	case StatMin:
		m := xs[0]
		for _, x := range xs[1:] {
			if x < m {
				m = x
			}
		}
		return m, nil
	}
	return 0, errors.Wrapf(ErrUnknownStatistic, "%d", int(s))
}

// KeyFunc picks the entity a lap belongs to.
type KeyFunc func(model.Lap) string

func ByTeam(l model.Lap) string   { return l.Team }
func ByDriver(l model.Lap) string { return l.Driver }

// EntityStat is the summary of one team or driver.
type EntityStat struct {
	Entity string  `json:"entity"`
	Value  float64 `json:"value"`
	// HasData is false when the entity had no valid lap left after
	// filtering. Value is meaningless then.
	HasData bool `json:"hasData"`
	// Rank is 1 for the fastest entity, 0 when HasData is false.
	Rank    int `json:"rank"`
	Samples int `json:"samples"`
}

// Aggregate summarises laps per entity. See AggregateOver.
func Aggregate(laps model.Laps, key KeyFunc, stat Statistic) ([]EntityStat, error) {
	return AggregateOver(laps, key, stat, nil)
}

// AggregateOver summarises laps per entity and orders entities fastest
// first. Entities listed in universe are always reported, in front of the
// ones only seen in laps when ranking ties. Ties keep that relative order.
// Entities without a valid sample come last with HasData false.
func AggregateOver(laps model.Laps, key KeyFunc, stat Statistic, universe []string) ([]EntityStat, error) {
	if stat != StatMedian && stat != StatMin {
		return nil, errors.Wrapf(ErrUnknownStatistic, "%d", int(stat))
	}

	order := []string{}
	samples := map[string][]float64{}
	seen := map[string]bool{}
	add := func(entity string) {
		if !seen[entity] {
			seen[entity] = true
			order = append(order, entity)
		}
	}
	for _, e := range universe {
		add(e)
	}
	for _, l := range laps {
		entity := key(l)
		add(entity)
		if s, ok := l.Seconds(); ok {
			samples[entity] = append(samples[entity], s)
		}
	}

	withData := []EntityStat{}
	noData := []EntityStat{}
	for _, entity := range order {
		xs := samples[entity]
		if len(xs) == 0 {
			noData = append(noData, EntityStat{Entity: entity})
			continue
		}
		v, err := stat.apply(xs)
		if err != nil {
			return nil, err
		}
		withData = append(withData, EntityStat{Entity: entity, Value: v, HasData: true, Samples: len(xs)})
	}

	sort.SliceStable(withData, func(i, j int) bool {
		return withData[i].Value < withData[j].Value
	})
	for i := range withData {
		withData[i].Rank = i + 1
	}
	return append(withData, noData...), nil
}

// Order lists the entities of stats that have data, fastest first.
func Order(stats []EntityStat) []string {
	out := []string{}
	for _, s := range stats {
		if s.HasData {
			out = append(out, s.Entity)
		}
	}
	return out
}
