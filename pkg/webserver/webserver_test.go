package webserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"formulastats/pkg/dashboard"
	"formulastats/pkg/roster"
	"formulastats/pkg/stats"
	"formulastats/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRosters struct{}

func (fakeRosters) Get(_ context.Context, category roster.Category) (roster.Roster, error) {
	return roster.Roster{
		Category: category,
		Header:   []string{"Driver name", "Race entries", "Race starts", "Pole positions", "Race wins"},
		Rows: [][]string{
			{"Max Verstappen", "209", "209", "40", "63"},
			{"Lewis Hamilton", "356", "356", "104", "105"},
		},
	}, nil
}

func newTestManager(t *testing.T, limit RateLimitConfig) *Manager {
	t.Helper()
	return newTestManagerWith(t, Config{RateLimit: limit})
}

func newTestManagerWith(t *testing.T, cfg Config) *Manager {
	t.Helper()
	st := store.New(t.TempDir(), nil)
	require.NoError(t, store.Seed(st, 2024))
	opts := dashboard.DefaultOptions()
	opts.DPI = 50
	svc := dashboard.NewService(st, fakeRosters{}, opts, nil)
	return NewManager(svc, cfg, nil)
}

func get(t *testing.T, m *Manager, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAPISessions(t *testing.T) {
	m := newTestManager(t, RateLimitConfig{})

	rec := get(t, m, "/api/sessions?year=2024&event=Bahrain+Grand+Prix")
	require.Equal(t, http.StatusOK, rec.Code)
	var sessions []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	assert.Equal(t, []string{"Race", "Qualifying", "Practice 3", "Practice 2", "Practice 1"}, sessions)
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))

	rec = get(t, m, "/api/years")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[2024]", rec.Body.String())
}

func TestAPIPace(t *testing.T) {
	m := newTestManager(t, RateLimitConfig{})

	rec := get(t, m, "/api/pace?year=2024&event=1&session=race&mode=fastest")
	require.Equal(t, http.StatusOK, rec.Code)
	var deltas []stats.PaceDelta
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deltas))
	require.Len(t, deltas, 4)
	assert.Equal(t, 0.0, deltas[0].Delta)
}

func TestAPIErrors(t *testing.T) {
	m := newTestManager(t, RateLimitConfig{})

	for _, tc := range []struct {
		target string
		status int
	}{
		{"/api/pace?year=2024&event=1&session=race&mode=slowest", http.StatusBadRequest},
		{"/api/pace?year=2024&event=1&session=warmup", http.StatusBadRequest},
		{"/api/order?year=2024&event=1&session=race&by=car", http.StatusBadRequest},
		{"/api/order?year=2024&event=1&session=race&stat=mean", http.StatusBadRequest},
		{"/api/sessions?year=2024&event=Monaco+Grand+Prix", http.StatusNotFound},
		{"/api/speeds?year=2024&event=Abu+Dhabi+Grand+Prix&session=race", http.StatusNotFound},
		{"/api/events?year=abc", http.StatusBadRequest},
	} {
		rec := get(t, m, tc.target)
		assert.Equal(t, tc.status, rec.Code, tc.target)
		var body apiError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), tc.target)
		assert.Equal(t, tc.status, body.Code)
	}
}

func TestChartEndpoint(t *testing.T) {
	m := newTestManager(t, RateLimitConfig{})

	rec := get(t, m, "/charts/team_pace_comparison.png?year=2024&event=1&session=q")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "team_pace_comparison_2024_bahrain_grand_prix_qualifying.png")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = get(t, m, "/charts/pie_chart.png?year=2024&event=1&session=q")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, m, "/charts/speed_over_lap.png?year=2024&event=1&session=race&driver=ver&lap=9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	m := newTestManagerWith(t, Config{ChartCacheDir: dir})

	target := "/charts/team_lap_time_dist.png?year=2024&event=1&session=race"
	first := get(t, m, target)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Contains(t, first.Header().Get("Content-Disposition"), `filename="team_lap_time_dist_2024_bahrain_grand_prix_race.png"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_team_lap_time_dist_2024_bahrain_grand_prix_race.png"))

	second := get(t, m, target)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())

	rec := get(t, m, "/charts/team_lap_time_dist.png?year=2024&event=1&session=race&outliers=false")
	require.Equal(t, http.StatusOK, rec.Code)
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	rec = get(t, m, "/charts/team_lap_time_dist.png?year=2024&event=3&session=race")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestPages(t *testing.T) {
	m := newTestManager(t, RateLimitConfig{})

	rec := get(t, m, "/?year=2024&event=Bahrain+Grand+Prix&session=Race")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "/charts/team_lap_time_dist.png?")
	assert.NotContains(t, body, "/charts/gear_shifts_per_lap.png")
	assert.NotContains(t, body, `name="lap"`)

	rec = get(t, m, "/?year=2024&event=Bahrain+Grand+Prix&session=Race&driver=lec")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, `name="lap"`)
	assert.Contains(t, body, `<option value="2">2</option>`)
	assert.NotContains(t, body, `<option value="1">1</option>`)
	assert.Contains(t, body, "/charts/gear_shifts_per_lap.png?")
	assert.Contains(t, body, "lap=2")

	rec = get(t, m, "/schedule?year=2024")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORMULA 1 LENOVO CHINESE GRAND PRIX")

	rec = get(t, m, "/records")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Most Wins: Lewis Hamilton - 105 wins")

	rec = get(t, m, "/drivers?category=f9")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestRateLimit(t *testing.T) {
	m := newTestManager(t, RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, get(t, m, "/api/years").Code)
	}
	rec := get(t, m, "/api/years")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRequestIDPropagates(t *testing.T) {
	m := newTestManager(t, RateLimitConfig{})
	req := httptest.NewRequest(http.MethodGet, "/api/years", nil)
	req.Header.Set(headerRequestID, "abc-123")
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(headerRequestID))
}
