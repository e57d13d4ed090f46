package stats

import (
	"formulastats/pkg/model"
)

// OutlierFilter trims laps before they are grouped. Implementations return a
// subsequence of their input: rows keep their order and all their columns.
type OutlierFilter interface {
	Filter(laps model.Laps) model.Laps
}

// NoFilter returns its input unchanged.
type NoFilter struct{}

func (NoFilter) Filter(laps model.Laps) model.Laps {
	return laps
}

// IQRFilter keeps laps whose time lies within [Q1-k*IQR, Q3+k*IQR].
// Laps without a usable time are dropped.
type IQRFilter struct {
	// K is the IQR multiplier, 1.5 when zero.
	K float64
}

func (f IQRFilter) k() float64 {
	if f.K == 0 {
		return 1.5
	}
	return f.K
}

// Bounds returns the inclusive retention interval for the sample. ok is
// false when the sample is empty.
func (f IQRFilter) Bounds(xs []float64) (lower, upper float64, ok bool) {
	if len(xs) == 0 {
		return 0, 0, false
	}
	q1 := Quantile(xs, 0.25)
	q3 := Quantile(xs, 0.75)
	iqr := q3 - q1
	return q1 - f.k()*iqr, q3 + f.k()*iqr, true
}

func (f IQRFilter) Filter(laps model.Laps) model.Laps {
	secs := make([]float64, 0, len(laps))
	for _, l := range laps {
		if s, ok := l.Seconds(); ok {
			secs = append(secs, s)
		}
	}
	out := model.Laps{}
	lower, upper, ok := f.Bounds(secs)
	if !ok {
		return out
	}
	for _, l := range laps {
		s, ok := l.Seconds()
		if ok && s >= lower && s <= upper {
			out = append(out, l)
		}
	}
	return out
}

// FilterFor maps the "remove outliers" switch to a filter.
func FilterFor(removeOutliers bool) OutlierFilter {
	if removeOutliers {
		return IQRFilter{}
	}
	return NoFilter{}
}

// Scope says whether a filter sees the whole session at once or each team
// separately.
type Scope string

const (
	ScopeJoint   Scope = "joint"
	ScopePerTeam Scope = "per_team"
)

// Scoped applies scope to f.
func Scoped(f OutlierFilter, scope Scope) OutlierFilter {
	if scope == ScopePerTeam {
		return PerTeam(f)
	}
	return f
}

type perTeam struct {
	inner OutlierFilter
}

// PerTeam runs inner independently on every team's laps. The result keeps
// the original row order.
func PerTeam(inner OutlierFilter) OutlierFilter {
	return perTeam{inner: inner}
}

func (p perTeam) Filter(laps model.Laps) model.Laps {
	groups := map[string][]int{}
	order := []string{}
	for i, l := range laps {
		if _, ok := groups[l.Team]; !ok {
			order = append(order, l.Team)
		}
		groups[l.Team] = append(groups[l.Team], i)
	}

	keep := make([]bool, len(laps))
	for _, team := range order {
		idx := groups[team]
		group := make(model.Laps, len(idx))
		for j, i := range idx {
			group[j] = laps[i]
		}
		kept := p.inner.Filter(group)
		// kept is a subsequence of group, walk both in step
		k := 0
		for j := range group {
			if k < len(kept) && kept[k] == group[j] {
				keep[idx[j]] = true
				k++
			}
		}
	}

	out := model.Laps{}
	for i, l := range laps {
		if keep[i] {
			out = append(out, l)
		}
	}
	return out
}
