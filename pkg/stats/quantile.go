package stats

import (
	"math"
	"sort"
)

// Quantile returns the p-quantile of xs using linear interpolation between
// the closest ranks at position (n-1)*p. xs is not modified. NaN for an
// empty sample.
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return quantileSorted(sorted, p)
}

func quantileSorted(sorted []float64, p float64) float64 {
	pos := float64(len(sorted)-1) * p
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (sorted[int(hi)]-sorted[int(lo)])*(pos-lo)
}

// Median is the 0.5 quantile; even-sized samples average the two middle values.
func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
