// Package palette resolves team and driver identities to display colors.
package palette

import (
	"image/color"
	"sort"
	"strconv"
	"strings"

	"formulastats/pkg/model"
)

const DefaultFallback = "#FFFFFF"

type Scheme string

const (
	SchemeOfficial Scheme = "official"
	SchemeFastf1   Scheme = "fastf1"
)

// ParseScheme maps anything other than "official" to the fastf1 scheme.
func ParseScheme(s string) Scheme {
	if strings.EqualFold(strings.TrimSpace(s), string(SchemeOfficial)) {
		return SchemeOfficial
	}
	return SchemeFastf1
}

// NormalizeColor prefixes a bare hex color with '#'. Already prefixed and
// empty strings are returned as is.
func NormalizeColor(c string) string {
	c = strings.TrimSpace(c)
	if c == "" || strings.HasPrefix(c, "#") {
		return c
	}
	return "#" + c
}

// TeamColors maps each team to its normalised color under scheme. Rows with
// no team or no color are skipped; a later row for the same team wins.
func TeamColors(results model.Results, scheme Scheme) map[string]string {
	out := map[string]string{}
	for _, r := range results {
		c := r.TeamColorFastf1
		if scheme == SchemeOfficial {
			c = r.TeamColorOfficial
		}
		if r.TeamName == "" || strings.TrimSpace(c) == "" {
			continue
		}
		out[r.TeamName] = NormalizeColor(c)
	}
	return out
}

// Resolve returns the color of entity through its team, or fallback.
func Resolve(entity string, entityTeam, teamColor map[string]string, fallback string) string {
	team, ok := entityTeam[entity]
	if !ok {
		team = entity
	}
	if c, ok := teamColor[team]; ok && c != "" {
		return NormalizeColor(c)
	}
	return fallback
}

// DriverPalette maps every driver abbreviation in results to its team color.
func DriverPalette(results model.Results, teamColor map[string]string, fallback string) map[string]string {
	teams := results.DriverTeams()
	out := make(map[string]string, len(results))
	for _, r := range results {
		out[r.Abbreviation] = Resolve(r.Abbreviation, teams, teamColor, fallback)
	}
	return out
}

// CompoundPalette maps each tyre compound to the color of its first lap, in
// first-appearance order.
func CompoundPalette(laps model.Laps) ([]string, map[string]string) {
	order := []string{}
	out := map[string]string{}
	for _, l := range laps {
		if _, ok := out[l.Compound]; ok {
			continue
		}
		order = append(order, l.Compound)
		out[l.Compound] = NormalizeColor(l.CompoundColor)
	}
	return order, out
}

type LegendEntry struct {
	Team  string `json:"team"`
	Color string `json:"color"`
}

// TeamLegend lists the teams of results sorted by name with their colors.
func TeamLegend(results model.Results, teamColor map[string]string, fallback string) []LegendEntry {
	teams := results.Teams()
	sort.Strings(teams)
	out := make([]LegendEntry, 0, len(teams))
	for _, team := range teams {
		out = append(out, LegendEntry{Team: team, Color: Resolve(team, nil, teamColor, fallback)})
	}
	return out
}

// RGBA parses "#RRGGBB" or "#RGB". Unparseable strings give opaque white.
func RGBA(hex string) color.RGBA {
	h := strings.TrimPrefix(NormalizeColor(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
