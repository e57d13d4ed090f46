package charts

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"formulastats/pkg/helper"
	"formulastats/pkg/model"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/pkg/errors"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
)

const (
	DefaultRotation = 122.3

	minSpeed    = 50.0
	maxSpeed    = 350.0
	mapWidthIn  = 10
	mapHeightIn = 8
	// room kept on the right for the legend
	legendWidthIn = 2
)

var mu = sync.Mutex{}

type point struct {
	x, y float64
}

// rotate turns xy clockwise by angle degrees around the origin.
func rotate(x, y, angle float64) (float64, float64) {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return x*cos + y*sin, -x*sin + y*cos
}

// trackBounds fits the rotated track into a width x height box keeping its
// aspect ratio and returns the transformed points.
func trackBounds(trace model.TelemetryTrace, angle float64, width, height, margin float64) []point {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	pts := make([]point, len(trace))
	for i, t := range trace {
		x, y := rotate(t.X, t.Y, angle)
		pts[i] = point{x, y}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	spanX := math.Max(maxX-minX, 1)
	spanY := math.Max(maxY-minY, 1)
	scale := math.Min((width-2*margin)/spanX, (height-2*margin)/spanY)
	offX := margin + ((width-2*margin)-spanX*scale)/2
	offY := margin + ((height-2*margin)-spanY*scale)/2
	for i, p := range pts {
		pts[i] = point{(p.x-minX)*scale + offX, (p.y-minY)*scale + offY}
	}
	return pts
}

// Flips the image around the Y axis.
func invertY(gc draw2d.GraphicContext, height float64) {
	gc.Translate(0, height)
	gc.Scale(1.0, -1.0)
}

type legendItem struct {
	label string
	color color.Color
}

// GearColors is the qualitative palette for gears 1 to 8 and beyond;
// gear g uses entry g-1.
func GearColors() ([]color.Color, error) {
	p, err := brewer.GetPalette(brewer.TypeQualitative, "Paired", 12)
	if err != nil {
		return nil, errors.Wrap(err, "gear palette")
	}
	return p.Colors(), nil
}

func gearColor(colors []color.Color, gear int) color.Color {
	if gear < 1 {
		return noDataColor
	}
	return colors[(gear-1)%len(colors)]
}

// SpeedColor maps a speed in km/h to the fixed 50-350 km/h color scale.
func SpeedColor(speed float64) color.Color {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(minSpeed)
	cm.SetMax(maxSpeed)
	c, err := cm.At(math.Min(math.Max(speed, minSpeed), maxSpeed))
	if err != nil {
		return noDataColor
	}
	return c
}

func trackMap(kind Kind, s Session, o Options) (image.Image, error) {
	trace := s.Telemetry.For(o.Driver, o.Lap)
	if len(trace) < 2 {
		return nil, errors.Wrapf(ErrNoTelemetry, "%s lap %d", o.Driver, o.Lap)
	}

	var (
		title   string
		colorOf func(model.Telemetry) color.Color
		legend  []legendItem
	)
	switch kind {
	case GearShifts:
		colors, err := GearColors()
		if err != nil {
			return nil, err
		}
		title = "Gear Shifts"
		colorOf = func(t model.Telemetry) color.Color { return gearColor(colors, t.NGear) }
		for g := 1; g <= 8; g++ {
			legend = append(legend, legendItem{label: fmt.Sprintf("Gear %d", g), color: gearColor(colors, g)})
		}
	case SpeedOverLap:
		title = "Speed"
		colorOf = func(t model.Telemetry) color.Color { return SpeedColor(t.Speed) }
		for v := maxSpeed; v >= minSpeed; v -= 50 {
			legend = append(legend, legendItem{label: fmt.Sprintf("%.0f km/h", v), color: SpeedColor(v)})
		}
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	angle := o.Rotation
	if angle == 0 {
		angle = DefaultRotation
	}

	mu.Lock()
	defer mu.Unlock()

	dpi := float64(o.dpi())
	width, height := mapWidthIn*dpi, mapHeightIn*dpi
	mapWidth := width - legendWidthIn*dpi
	dest := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	draw.Draw(dest, dest.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	pts := trackBounds(trace, angle, mapWidth, height, dpi/2)
	gc := draw2dimg.NewGraphicContext(dest)
	gc.Save()
	invertY(gc, height)
	gc.SetLineWidth(dpi / 25)
	gc.SetLineCap(draw2d.RoundCap)
	for i := 0; i < len(pts)-1; i++ {
		gc.SetStrokeColor(colorOf(trace[i]))
		gc.MoveTo(pts[i].x, pts[i].y)
		gc.LineTo(pts[i+1].x, pts[i+1].y)
		gc.Stroke()
	}
	gc.Restore()

	drawLegend(gc, dest, legend, mapWidth, dpi)
	caption(dest, fmt.Sprintf("%s: %s", title, trackMapSubtitle(s, o)), int(dpi/10), int(dpi/10), textScale(dpi))
	return dest, nil
}

// trackMapSubtitle ends with the driver and the lap, plus the lap time when
// the laps table has one.
func trackMapSubtitle(s Session, o Options) string {
	lap := fmt.Sprintf("Lap: %d", o.Lap)
	if l, ok := s.Laps.Find(o.Driver, o.Lap); ok && l.LapTime != nil {
		if t, err := helper.FormatLapTime(l.LapTime); err == nil {
			lap += " (" + t + ")"
		}
	}
	return s.subtitle("Driver: "+o.Driver, lap)
}

func drawLegend(gc draw2d.GraphicContext, dest draw.Image, items []legendItem, left, dpi float64) {
	box := dpi / 8
	y := dpi / 2
	for _, it := range items {
		gc.SetFillColor(it.color)
		draw2dkit.Rectangle(gc, left, y, left+box, y+box)
		gc.Fill()
		caption(dest, it.label, int(left+box*1.5), int(y), textScale(dpi))
		y += box * 1.8
	}
}
