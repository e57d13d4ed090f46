package stats

import "github.com/pkg/errors"

var (
	// ErrNoRepresentative is returned when no team has a usable
	// representative lap time, or the fastest one is zero.
	ErrNoRepresentative = errors.New("no representative lap time")
	ErrUnknownStatistic = errors.New("unknown statistic")
	ErrUnknownPaceMode  = errors.New("unknown pace mode")
)
