// Package weather selects and describes the weather channels shown in the
// stacked weather chart.
package weather

import (
	"fmt"
	"math"

	"formulastats/pkg/model"
)

const (
	AirTemp          = "Air Temp"
	TrackTemp        = "Track Temp"
	Rainfall         = "Rainfall"
	WindSpeed        = "Wind Speed"
	WindDirection    = "Wind Direction"
	AirPressure      = "Air Pressure"
	RelativeHumidity = "Relative Humidity"
)

type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Descriptor is the display metadata of one channel. Column names the
// source column in the weather table.
type Descriptor struct {
	Column string                        `json:"column"`
	YLabel string                        `json:"yLabel"`
	Title  string                        `json:"title"`
	Color  string                        `json:"color"`
	Ticks  []Tick                        `json:"ticks,omitempty"`
	Value  func(w model.Weather) float64 `json:"-"`
}

// Table is the set of known channels and their canonical order.
type Table struct {
	Order       []string
	Descriptors map[string]Descriptor
}

func DefaultTable() Table {
	return Table{
		Order: []string{AirTemp, TrackTemp, Rainfall, WindSpeed, WindDirection, AirPressure, RelativeHumidity},
		Descriptors: map[string]Descriptor{
			AirTemp: {Column: "AirTemp", YLabel: "Air Temp (°C)", Title: "Air Temperature", Color: "#ff0000",
				Value: func(w model.Weather) float64 { return w.AirTemp }},
			TrackTemp: {Column: "TrackTemp", YLabel: "Track Temp (°C)", Title: "Track Temperature", Color: "#bf00bf",
				Value: func(w model.Weather) float64 { return w.TrackTemp }},
			Rainfall: {Column: "Rainfall", YLabel: "Rainfall", Title: "Rainfall", Color: "#00bfbf",
				Ticks: []Tick{{Value: 0, Label: "No"}, {Value: 1, Label: "Yes"}},
				Value: func(w model.Weather) float64 {
					if w.Rainfall {
						return 1
					}
					return 0
				}},
			WindDirection: {Column: "WindDirection", YLabel: "Wind Direction (°)", Title: "Wind Direction", Color: "#bfbf00",
				Value: func(w model.Weather) float64 { return w.WindDirection }},
			WindSpeed: {Column: "WindSpeed", YLabel: "Wind Speed (m/s)", Title: "Wind Speed", Color: "#ffa500",
				Value: func(w model.Weather) float64 { return w.WindSpeed }},
			AirPressure: {Column: "Pressure", YLabel: "Air Press (mbar)", Title: "Air Pressure", Color: "#008000",
				Value: func(w model.Weather) float64 { return w.Pressure }},
			RelativeHumidity: {Column: "Humidity", YLabel: "Rel Humid (%)", Title: "Humidity", Color: "#0000ff",
				Value: func(w model.Weather) float64 { return w.Humidity }},
		},
	}
}

type UnknownChannelError struct {
	Name string
}

func (e *UnknownChannelError) Error() string {
	return fmt.Sprintf("unknown weather channel %q", e.Name)
}

// Series is one panel of the weather chart.
type Series struct {
	Name string `json:"name"`
	Descriptor
	// X is elapsed whole minutes, Y the channel value.
	X           []float64 `json:"x"`
	Y           []float64 `json:"y"`
	HeightRatio float64   `json:"heightRatio"`
}

// Select builds the panels for names in the given order. An empty selection
// means every channel of table in canonical order.
func Select(names []string, rows []model.Weather, table Table) ([]Series, error) {
	if len(names) == 0 {
		names = table.Order
	}

	x := make([]float64, len(rows))
	for i, r := range rows {
		x[i] = math.Floor(r.Time.Seconds() / 60)
	}

	ratios := HeightRatios(names)
	out := make([]Series, 0, len(names))
	for i, name := range names {
		d, ok := table.Descriptors[name]
		if !ok {
			return nil, &UnknownChannelError{Name: name}
		}
		y := make([]float64, len(rows))
		for j, r := range rows {
			y[j] = d.Value(r)
		}
		out = append(out, Series{Name: name, Descriptor: d, X: x, Y: y, HeightRatio: ratios[i]})
	}
	return out, nil
}

// HeightRatios gives the relative panel heights. With more than two panels
// temperatures and wind speed get more room and the near-binary channels
// less.
func HeightRatios(names []string) []float64 {
	out := make([]float64, len(names))
	for i, name := range names {
		if len(names) <= 2 {
			out[i] = 1.5
			continue
		}
		switch name {
		case AirTemp, TrackTemp, WindSpeed:
			out[i] = 1.5
		case Rainfall, RelativeHumidity:
			out[i] = 0.5
		default:
			out[i] = 1
		}
	}
	return out
}
