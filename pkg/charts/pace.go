package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"formulastats/pkg/helper"
	"formulastats/pkg/palette"
	"formulastats/pkg/stats"

	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidthIn  = 12
	chartHeightIn = 7
)

func drawingColor(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// inchPadding is the 0.1in border at dpi.
func inchPadding(dpi int) chart.Box {
	p := dpi / 10
	return chart.Box{Top: p, Left: p, Right: p, Bottom: p}
}

func decodePNG(buf *bytes.Buffer) (image.Image, error) {
	img, err := png.Decode(buf)
	return img, errors.Wrap(err, "decode chart")
}

// paceBars turns the ranked deltas into bars labelled with the team, its
// representative lap time and the delta. top is the largest delta.
func paceBars(deltas []stats.PaceDelta, teamColor map[string]string, fallback string) (bars []chart.Value, top float64) {
	for _, d := range deltas {
		if !d.HasData {
			continue
		}
		c := drawingColor(palette.RGBA(palette.Resolve(d.Team, nil, teamColor, fallback)))
		bars = append(bars, chart.Value{
			Label: helper.LapLabel(d.Team, d.Representative, true) + "\n" + helper.DeltaLabel(d.Delta),
			Value: d.Delta,
			Style: chart.Style{FillColor: c, StrokeColor: drawing.ColorBlack, StrokeWidth: 1},
		})
		top = math.Max(top, d.Delta)
	}
	return bars, top
}

// teamPace draws each team's percentage off the fastest team, fastest first.
func teamPace(s Session, o Options) (image.Image, error) {
	laps := o.filter().Filter(s.Laps)
	deltas, err := stats.PaceDeltas(laps, s.Results.Teams(), o.PaceMode, o.PaceLap)
	if err != nil {
		return nil, err
	}
	bars, top := paceBars(deltas, palette.TeamColors(s.Results, o.Scheme), o.fallback())

	dpi := o.dpi()
	bc := chart.BarChart{
		Title:      "Team Pace Comparison: " + s.subtitle("Lap: "+o.PaceMode.LapLabel(o.PaceLap)),
		Background: chart.Style{Padding: inchPadding(dpi)},
		Width:      chartWidthIn * dpi,
		Height:     chartHeightIn * dpi,
		DPI:        float64(dpi),
		BarWidth:   dpi / 3,
		YAxis: chart.YAxis{
			Name:           "Delta to fastest (%)",
			Range:          &chart.ContinuousRange{Min: 0, Max: math.Max(top*1.15, 0.1)},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.2f%%", v) },
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrap(err, "render pace chart")
	}
	return decodePNG(&buf)
}
