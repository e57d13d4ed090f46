package helper

import (
	"fmt"
	"hash/fnv"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFinite is returned for NaN or infinite lap times.
var ErrNotFinite = errors.New("lap time is not a finite number")

type InputTypeError struct {
	Type string
}

func (e *InputTypeError) Error() string {
	return fmt.Sprintf("expected seconds as a number or a duration, got %s", e.Type)
}

// FormatLapTime renders a lap time as M:SS.mmm. It accepts a time.Duration
// (or a pointer to one) or any numeric kind holding seconds; anything else
// is an *InputTypeError.
func FormatLapTime(v any) (string, error) {
	seconds, err := toSeconds(v)
	if err != nil {
		return "", err
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", errors.Wrapf(ErrNotFinite, "%v", seconds)
	}
	return SecondsToMinutes(seconds), nil
}

func toSeconds(v any) (float64, error) {
	switch t := v.(type) {
	case time.Duration:
		return t.Seconds(), nil
	case *time.Duration:
		if t == nil {
			return 0, &InputTypeError{Type: "nil duration"}
		}
		return t.Seconds(), nil
	case nil:
		return 0, &InputTypeError{Type: "nil"}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	}
	return 0, &InputTypeError{Type: fmt.Sprintf("%T", v)}
}

// method to convert from seconds to minutes:seconds.milliseconds
// NaN and infinities have no lap time and read "No Data".
func SecondsToMinutes(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "No Data"
	}
	minutes := math.Floor(seconds / 60)
	rem := seconds - minutes*60
	milliseconds := int((rem - math.Floor(rem)) * 1000)
	return fmt.Sprintf("%d:%02d.%03d", int(minutes), int(rem), milliseconds)
}

// LapLabel is the two-line tick label used under box and bar charts.
func LapLabel(entity string, seconds float64, hasData bool) string {
	if !hasData {
		return entity + "\nNo Data"
	}
	return entity + "\n" + SecondsToMinutes(seconds)
}

func DeltaLabel(delta float64) string {
	return fmt.Sprintf("+%.2f%%", delta)
}

// ExportFileName builds "<kind>_<year>_<event>_<session>[_<extra>...].png".
func ExportFileName(kind string, year int, event, session string, extra ...string) string {
	parts := []string{kind, fmt.Sprint(year), strings.ToLower(strings.ReplaceAll(event, " ", "_")), session}
	parts = append(parts, extra...)
	return strings.Join(parts, "_") + ".png"
}

// Subtitle is the "<year> | <event> | <Session>" line printed under chart
// titles, with optional extra segments.
func Subtitle(year int, event, sessionTitle string, extra ...string) string {
	parts := []string{fmt.Sprint(year), event, sessionTitle}
	parts = append(parts, extra...)
	return strings.Join(parts, " | ")
}

// convert name to a short stable id, used where telegram limits callback data
func ToID(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprint(h.Sum32())
}
