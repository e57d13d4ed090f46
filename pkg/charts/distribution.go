package charts

import (
	"image"
	"image/color"
	"strconv"

	"formulastats/pkg/helper"
	"formulastats/pkg/model"
	"formulastats/pkg/palette"
	"formulastats/pkg/stats"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	plotWidth  = 12 * vg.Inch
	plotHeight = 7 * vg.Inch
	padding    = vg.Inch / 10
	boxWidth   = 28
)

var noDataColor = color.RGBA{0x80, 0x80, 0x80, 0xff}

func itoa(i int) string {
	return strconv.Itoa(i)
}

// lapTicker labels a lap time axis as M:SS.mmm.
type lapTicker struct{}

func (lapTicker) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label != "" {
			ticks[i].Label = helper.SecondsToMinutes(t.Value)
		}
	}
	return ticks
}

func newPlot(title, subtitle, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title + "\n" + subtitle
	p.Y.Label.Text = ylabel
	p.Y.Tick.Marker = lapTicker{}
	p.Add(plotter.NewGrid())
	return p
}

// rasterize draws p on a white canvas at dpi with the standard padding.
func rasterize(p *plot.Plot, w, h vg.Length, dpi int) image.Image {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))
	dc := vgdraw.New(c)
	p.Draw(vgdraw.Crop(dc, padding, -padding, padding, -padding))
	return c.Image()
}

func lapSeconds(laps model.Laps, key stats.KeyFunc) map[string]plotter.Values {
	out := map[string]plotter.Values{}
	for _, l := range laps {
		if s, ok := l.Seconds(); ok {
			out[key(l)] = append(out[key(l)], s)
		}
	}
	return out
}

// addBoxes draws one box per entity at x = 0..n-1 and labels the ticks with
// the entity and its median lap. Entities without laps keep their slot.
func addBoxes(p *plot.Plot, order []stats.EntityStat, values map[string]plotter.Values, colorOf func(string) color.Color) error {
	labels := make([]string, len(order))
	for i, st := range order {
		labels[i] = helper.LapLabel(st.Entity, st.Value, st.HasData)
		vals := values[st.Entity]
		if len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(boxWidth), float64(i), vals)
		if err != nil {
			return errors.Wrapf(err, "box for %s", st.Entity)
		}
		b.FillColor = colorOf(st.Entity)
		p.Add(b)
	}
	p.NominalX(labels...)
	return nil
}

func teamDistribution(s Session, o Options) (image.Image, error) {
	laps := o.filter().Filter(s.Laps)
	order, err := stats.AggregateOver(laps, stats.ByTeam, stats.StatMedian, s.Results.Teams())
	if err != nil {
		return nil, err
	}
	if len(stats.Order(order)) == 0 {
		return nil, ErrNoLaps
	}
	teamColor := palette.TeamColors(s.Results, o.Scheme)

	p := newPlot("Team Lap Time Distribution", s.subtitle(), "Lap Time")
	p.X.Label.Text = "Team"
	err = addBoxes(p, order, lapSeconds(laps, stats.ByTeam), func(team string) color.Color {
		return palette.RGBA(palette.Resolve(team, nil, teamColor, o.fallback()))
	})
	if err != nil {
		return nil, err
	}
	return rasterize(p, plotWidth, plotHeight, o.dpi()), nil
}

func driversDistribution(s Session, o Options) (image.Image, error) {
	laps := o.filter().Filter(s.Laps)
	order, err := stats.AggregateOver(laps, stats.ByDriver, stats.StatMedian, s.Results.Abbreviations())
	if err != nil {
		return nil, err
	}
	if len(stats.Order(order)) == 0 {
		return nil, ErrNoLaps
	}
	teamColor := palette.TeamColors(s.Results, o.Scheme)
	driverColor := palette.DriverPalette(s.Results, teamColor, o.fallback())

	p := newPlot("Drivers Lap Time Distribution", s.subtitle(), "Lap Time")
	p.X.Label.Text = "Driver"
	err = addBoxes(p, order, lapSeconds(laps, stats.ByDriver), func(driver string) color.Color {
		if c, ok := driverColor[driver]; ok {
			return palette.RGBA(c)
		}
		return palette.RGBA(o.fallback())
	})
	if err != nil {
		return nil, err
	}
	if err := addTeamLegend(p, palette.TeamLegend(s.Results, teamColor, o.fallback())); err != nil {
		return nil, err
	}
	return rasterize(p, plotWidth, plotHeight, o.dpi()), nil
}

func addTeamLegend(p *plot.Plot, entries []palette.LegendEntry) error {
	for _, e := range entries {
		sw, err := swatch(palette.RGBA(e.Color))
		if err != nil {
			return err
		}
		p.Legend.Add(e.Team, sw)
	}
	p.Legend.Top = true
	return nil
}

// swatch is an invisible scatter used only for its legend thumbnail.
func swatch(c color.Color) (*plotter.Scatter, error) {
	sc, err := plotter.NewScatter(plotter.XYs{})
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Shape = vgdraw.BoxGlyph{}
	sc.GlyphStyle.Radius = vg.Points(4)
	return sc, nil
}

// pointScorers shows the first ten finishers in finishing order, optionally
// with every lap as a dot coloured by tyre compound.
func pointScorers(s Session, o Options) (image.Image, error) {
	scorers := s.Results.Top(10)
	drivers := scorers.Abbreviations()
	inTop := map[string]bool{}
	for _, d := range drivers {
		inTop[d] = true
	}

	laps := model.Laps{}
	for _, l := range o.filter().Filter(s.Laps) {
		if inTop[l.Driver] {
			laps = append(laps, l)
		}
	}
	laps = laps.WithCompoundPlaceholder()
	if len(laps) == 0 {
		return nil, ErrNoLaps
	}

	summary, err := stats.AggregateOver(laps, stats.ByDriver, stats.StatMedian, drivers)
	if err != nil {
		return nil, err
	}
	byDriver := map[string]stats.EntityStat{}
	for _, st := range summary {
		byDriver[st.Entity] = st
	}
	order := make([]stats.EntityStat, 0, len(drivers))
	for _, d := range drivers {
		order = append(order, byDriver[d])
	}

	teamColor := palette.TeamColors(s.Results, o.Scheme)
	driverColor := palette.DriverPalette(scorers, teamColor, o.fallback())

	p := newPlot("Point Finishers Lap Time Distribution", s.subtitle(), "Lap Time")
	p.X.Label.Text = "Driver"
	err = addBoxes(p, order, lapSeconds(laps, stats.ByDriver), func(driver string) color.Color {
		return palette.RGBA(driverColor[driver])
	})
	if err != nil {
		return nil, err
	}

	if o.ShowCompounds {
		if err := addCompoundDots(p, laps, drivers); err != nil {
			return nil, err
		}
	}
	return rasterize(p, plotWidth, plotHeight, o.dpi()), nil
}

func addCompoundDots(p *plot.Plot, laps model.Laps, drivers []string) error {
	slot := map[string]int{}
	for i, d := range drivers {
		slot[d] = i
	}
	compounds, colors := palette.CompoundPalette(laps)
	points := map[string]plotter.XYs{}
	seen := map[string]int{}
	for _, l := range laps {
		sec, ok := l.Seconds()
		if !ok {
			continue
		}
		// spread the dots of one driver over the box width
		n := seen[l.Driver]
		seen[l.Driver]++
		jitter := float64(n%7-3) * 0.05
		points[l.Compound] = append(points[l.Compound], plotter.XY{X: float64(slot[l.Driver]) + jitter, Y: sec})
	}
	for _, compound := range compounds {
		xys := points[compound]
		if len(xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrapf(err, "dots for %s", compound)
		}
		sc.GlyphStyle.Shape = vgdraw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2.5)
		sc.GlyphStyle.Color = noDataColor
		if c := colors[compound]; c != "" {
			sc.GlyphStyle.Color = palette.RGBA(c)
		}
		p.Add(sc)
		p.Legend.Add(compound, sc)
	}
	p.Legend.Top = true
	return nil
}
