package stats

import (
	"fmt"
	"sort"
	"strings"

	"formulastats/pkg/model"

	"github.com/pkg/errors"
)

type PaceMode int

const (
	PaceAverage PaceMode = iota
	PaceFastest
	PaceSpecific
)

func (m PaceMode) String() string {
	switch m {
	case PaceAverage:
		return "Average"
	case PaceFastest:
		return "Fastest"
	case PaceSpecific:
		return "Specific"
	}
	return "Unknown"
}

func ParsePaceMode(s string) (PaceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "average", "avg", "":
		return PaceAverage, nil
	case "fastest":
		return PaceFastest, nil
	case "specific":
		return PaceSpecific, nil
	}
	return 0, errors.Wrapf(ErrUnknownPaceMode, "%q", s)
}

// LapLabel is the "Lap:" part of a pace chart subtitle.
func (m PaceMode) LapLabel(lapNumber int) string {
	if m == PaceSpecific {
		return fmt.Sprintf("%d", lapNumber)
	}
	return m.String()
}

type PaceDelta struct {
	Team           string  `json:"team"`
	Representative float64 `json:"representative"`
	// Delta is the percentage over the fastest representative, two decimals.
	Delta   float64 `json:"delta"`
	HasData bool    `json:"hasData"`
}

// PaceDeltas computes each team's percentage off the fastest team. teams is
// the universe of teams to report (nil means the teams seen in laps); teams
// without a representative are appended after the ranked ones.
// lapNumber is only read in PaceSpecific mode.
func PaceDeltas(laps model.Laps, teams []string, mode PaceMode, lapNumber int) ([]PaceDelta, error) {
	reps, err := representatives(laps, teams, mode, lapNumber)
	if err != nil {
		return nil, err
	}

	best := 0.0
	found := false
	for _, r := range reps {
		if r.HasData && (!found || r.Value < best) {
			best = r.Value
			found = true
		}
	}
	if !found || best <= 0 {
		return nil, ErrNoRepresentative
	}

	ranked := []PaceDelta{}
	missing := []PaceDelta{}
	for _, r := range reps {
		if !r.HasData {
			missing = append(missing, PaceDelta{Team: r.Entity})
			continue
		}
		ranked = append(ranked, PaceDelta{
			Team:           r.Entity,
			Representative: r.Value,
			Delta:          Round2((r.Value - best) / best * 100),
			HasData:        true,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Delta < ranked[j].Delta
	})
	return append(ranked, missing...), nil
}

func representatives(laps model.Laps, teams []string, mode PaceMode, lapNumber int) ([]EntityStat, error) {
	switch mode {
	case PaceAverage:
		return AggregateOver(laps, ByTeam, StatMedian, teams)
	case PaceFastest:
		return AggregateOver(laps, ByTeam, StatMin, teams)
	case PaceSpecific:
		return lapRepresentatives(laps, teams, lapNumber), nil
	}
	return nil, errors.Wrapf(ErrUnknownPaceMode, "%d", int(mode))
}

// lapRepresentatives takes, per team, the first row in table order driven on
// lapNumber. That is not necessarily the team's faster driver on the lap:
// laps are not sorted by time first.
func lapRepresentatives(laps model.Laps, teams []string, lapNumber int) []EntityStat {
	order := []string{}
	seen := map[string]bool{}
	for _, t := range teams {
		if !seen[t] {
			seen[t] = true
			order = append(order, t)
		}
	}
	first := map[string]float64{}
	for _, l := range laps {
		if !seen[l.Team] {
			seen[l.Team] = true
			order = append(order, l.Team)
		}
		if l.LapNumber != lapNumber {
			continue
		}
		if _, done := first[l.Team]; done {
			continue
		}
		if s, ok := l.Seconds(); ok {
			first[l.Team] = s
		}
	}

	out := make([]EntityStat, 0, len(order))
	for _, team := range order {
		v, ok := first[team]
		out = append(out, EntityStat{Entity: team, Value: v, HasData: ok, Samples: boolToInt(ok)})
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
