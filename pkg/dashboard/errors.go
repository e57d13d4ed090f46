package dashboard

import (
	"formulastats/pkg/charts"
	"formulastats/pkg/helper"
	"formulastats/pkg/model"
	"formulastats/pkg/stats"
	"formulastats/pkg/store"
	"formulastats/pkg/weather"

	"github.com/pkg/errors"
)

type ErrorClass int

const (
	ErrorInternal ErrorClass = iota
	// ErrorInvalid is a request that cannot be answered as asked.
	ErrorInvalid
	ErrorNotFound
	// ErrorNoData means the tables exist but hold nothing to plot.
	ErrorNoData
)

// Classify tells the front ends how to report err.
func Classify(err error) ErrorClass {
	var (
		validation *ValidationError
		session    *model.UnknownSessionError
		channel    *weather.UnknownChannelError
		input      *helper.InputTypeError
	)
	switch {
	case store.IsNotFound(err):
		return ErrorNotFound
	case errors.Is(err, charts.ErrNoLaps),
		errors.Is(err, charts.ErrNoTelemetry),
		errors.Is(err, stats.ErrNoRepresentative):
		return ErrorNoData
	case errors.As(err, &validation),
		errors.As(err, &session),
		errors.As(err, &channel),
		errors.As(err, &input),
		errors.Is(err, charts.ErrUnknownKind),
		errors.Is(err, stats.ErrUnknownStatistic),
		errors.Is(err, stats.ErrUnknownPaceMode):
		return ErrorInvalid
	}
	return ErrorInternal
}
