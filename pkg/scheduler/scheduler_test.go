package scheduler

import (
	"context"
	"testing"

	"formulastats/pkg/roster"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	calls []roster.Category
	fail  roster.Category
}

func (f *fakeRefresher) Refresh(_ context.Context, c roster.Category) (roster.Roster, error) {
	f.calls = append(f.calls, c)
	if c == f.fail {
		return roster.Roster{}, errors.New("wiki unavailable")
	}
	return roster.Roster{Category: c, Rows: [][]string{{"x"}}}, nil
}

func TestRefreshAllContinuesAfterFailure(t *testing.T) {
	f := &fakeRefresher{fail: roster.CategoryF2}
	s, err := New("", f, roster.Categories, nil)
	require.NoError(t, err)

	failed := s.RefreshAll(context.Background())
	assert.Equal(t, 1, failed)
	assert.Equal(t, roster.Categories, f.calls)
}

func TestInvalidSchedule(t *testing.T) {
	_, err := New("every morning", &fakeRefresher{}, roster.Categories, nil)
	assert.ErrorContains(t, err, "invalid cron schedule")
}

func TestNextRun(t *testing.T) {
	s, err := New("30 5 * * *", &fakeRefresher{}, roster.Categories, nil)
	require.NoError(t, err)
	s.Start()
	defer s.Stop()
	next := s.Next()
	assert.Equal(t, 5, next.Hour())
	assert.Equal(t, 30, next.Minute())
}
