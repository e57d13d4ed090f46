package dashboard

import (
	"fmt"
	"testing"

	"formulastats/pkg/charts"
	"formulastats/pkg/helper"
	"formulastats/pkg/model"
	"formulastats/pkg/stats"
	"formulastats/pkg/store"
	"formulastats/pkg/weather"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorClass
	}{
		{&store.NotFoundError{What: "event"}, ErrorNotFound},
		{errors.Wrap(&store.NotFoundError{What: "laps"}, "load 2024"), ErrorNotFound},
		{charts.ErrNoLaps, ErrorNoData},
		{fmt.Errorf("render: %w", stats.ErrNoRepresentative), ErrorNoData},
		{&ValidationError{Field: "year", Reason: "required"}, ErrorInvalid},
		{&model.UnknownSessionError{Input: "warmup"}, ErrorInvalid},
		{&weather.UnknownChannelError{Name: "Fog"}, ErrorInvalid},
		{&helper.InputTypeError{Type: "string"}, ErrorInvalid},
		{charts.ErrUnknownKind, ErrorInvalid},
		{stats.ErrUnknownPaceMode, ErrorInvalid},
		{errors.New("disk on fire"), ErrorInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), tt.err.Error())
	}
}
