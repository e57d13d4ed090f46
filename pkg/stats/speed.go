package stats

import (
	"sort"

	"formulastats/pkg/model"

	"github.com/aclements/go-moremath/stats"
)

type TeamSpeed struct {
	Team string  `json:"team"`
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
}

// TeamSpeeds returns mean and top telemetry speed per team, rounded to two
// decimals and sorted by team name.
func TeamSpeeds(trace model.TelemetryTrace) []TeamSpeed {
	byTeam := map[string][]float64{}
	for _, s := range trace {
		if s.Team == "" {
			continue
		}
		byTeam[s.Team] = append(byTeam[s.Team], s.Speed)
	}

	out := make([]TeamSpeed, 0, len(byTeam))
	for team, speeds := range byTeam {
		_, top := stats.Bounds(speeds)
		out = append(out, TeamSpeed{
			Team: team,
			Mean: Round2(stats.Mean(speeds)),
			Max:  Round2(top),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Team < out[j].Team
	})
	return out
}
