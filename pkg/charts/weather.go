package charts

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"slices"

	"formulastats/pkg/palette"
	"formulastats/pkg/weather"

	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
)

// panelHeightIn is the height of a panel with ratio 1.
const panelHeightIn = 2.0

// weatherPanels stacks one line chart per channel, heights following the
// panel ratios, sharing the minutes axis.
func weatherPanels(s Session, o Options) (image.Image, error) {
	if len(s.Weather) == 0 {
		return nil, errors.New("no weather data")
	}
	series, err := weather.Select(o.Channels, s.Weather, weather.DefaultTable())
	if err != nil {
		return nil, err
	}

	dpi := o.dpi()
	panels := make([]image.Image, 0, len(series))
	for i, sr := range series {
		img, err := weatherPanel(sr, i == 0, i == len(series)-1, s, dpi)
		if err != nil {
			return nil, err
		}
		panels = append(panels, img)
	}
	return stack(panels), nil
}

func weatherPanel(sr weather.Series, first, last bool, s Session, dpi int) (image.Image, error) {
	x, y := padRange(sr.X, sr.Y)
	c := drawingColor(palette.RGBA(sr.Color))
	ch := chart.Chart{
		Background: chart.Style{Padding: inchPadding(dpi)},
		Width:      chartWidthIn * dpi,
		Height:     int(panelHeightIn * sr.HeightRatio * float64(dpi)),
		DPI:        float64(dpi),
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: !last}},
		YAxis:      chart.YAxis{Name: sr.YLabel},
		Series: []chart.Series{chart.ContinuousSeries{
			Name:    sr.Title,
			XValues: x,
			YValues: y,
			Style:   chart.Style{StrokeColor: c, StrokeWidth: 2},
		}},
	}
	if last {
		ch.XAxis.Name = "Time (minutes)"
	}
	if first {
		ch.Title = "Weather Data: " + s.subtitle()
	}
	if len(sr.Ticks) > 0 {
		ticks := make([]chart.Tick, len(sr.Ticks))
		for i, t := range sr.Ticks {
			ticks[i] = chart.Tick{Value: t.Value, Label: t.Label}
		}
		ch.YAxis.Ticks = ticks
		ch.YAxis.Range = &chart.ContinuousRange{Min: sr.Ticks[0].Value - 0.1, Max: sr.Ticks[len(sr.Ticks)-1].Value + 0.1}
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrapf(err, "render %s panel", sr.Name)
	}
	return decodePNG(&buf)
}

// padRange widens an x axis that spans a single value, as when every row
// falls in the same minute, since go-chart needs a non-zero x range.
func padRange(x, y []float64) ([]float64, []float64) {
	if len(x) == 0 || slices.Min(x) != slices.Max(x) {
		return x, y
	}
	return append(slices.Clone(x), x[0]+1), append(slices.Clone(y), y[len(y)-1])
}

// stack places images one under the other on a white background.
func stack(images []image.Image) image.Image {
	width, height := 0, 0
	for _, img := range images {
		b := img.Bounds()
		width = max(width, b.Dx())
		height += b.Dy()
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	y := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(out, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Over)
		y += b.Dy()
	}
	return out
}
