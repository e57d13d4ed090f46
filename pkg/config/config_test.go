package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"formulastats/pkg/palette"
	"formulastats/pkg/roster"
	"formulastats/pkg/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FORMULASTATS_DATA_DIR", "WEBSERVER_ADDRESS", "FORMULASTATS_RESOURCES_DIR", "FORMULASTATS_CHART_CACHE", "FORMULASTATS_DB",
		"TELEGRAM_TOKEN", "LOG_LEVEL", "FORMULASTATS_FALLBACK_COLOR", "FORMULASTATS_SCHEME",
		"FORMULASTATS_OUTLIER_SCOPE", "FORMULASTATS_SCRAPE_CRON", "FORMULASTATS_REMOVE_OUTLIERS",
		"FORMULASTATS_WATERMARK", "FORMULASTATS_DPI", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"FORMULASTATS_CATEGORIES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./f1_data", cfg.DataDir)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "./formulastats.db", cfg.DBPath)
	assert.Equal(t, "#FFFFFF", cfg.Fallback)
	assert.InDelta(t, 122.3, cfg.Rotation, 1e-9)
	assert.Equal(t, 300, cfg.DPI)
	assert.Equal(t, "0 6 * * *", cfg.ScrapeCron)
	assert.Equal(t, RateLimitConfig{RPS: 20, Burst: 40}, cfg.RateLimit)
	assert.True(t, cfg.Outliers.Remove)
	assert.Equal(t, "joint", cfg.Outliers.Scope)
	assert.Equal(t, roster.Categories, cfg.RosterCategories())
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "formulastats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /srv/f1
listen_addr: ":9000"
chart_cache_dir: /tmp/charts
scheme: fastf1
dpi: 150
watermark: false
outliers:
  remove: false
  scope: per_team
categories: [f1]
rate_limit:
  rps: 5
  burst: 10
`), 0o644))
	t.Setenv("WEBSERVER_ADDRESS", ":9100")
	t.Setenv("RATE_LIMIT_BURST", "12")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/f1", cfg.DataDir)
	assert.Equal(t, ":9100", cfg.ListenAddr)
	assert.Equal(t, RateLimitConfig{RPS: 5, Burst: 12}, cfg.RateLimit)
	assert.Equal(t, []roster.Category{roster.CategoryF1}, cfg.RosterCategories())

	opts := cfg.DashboardOptions()
	assert.Equal(t, palette.SchemeFastf1, opts.Scheme)
	assert.False(t, opts.RemoveOutliers)
	assert.False(t, opts.Watermark)
	assert.Equal(t, stats.ScopePerTeam, opts.OutlierScope)
	assert.Equal(t, 150, opts.DPI)

	web := cfg.WebConfig()
	assert.Equal(t, ":9100", web.Address)
	assert.Equal(t, "/tmp/charts", web.ChartCacheDir)
	assert.InDelta(t, 5.0, web.RateLimit.RequestsPerSecond, 1e-9)
	assert.Equal(t, 12, web.RateLimit.Burst)
}

func TestLoad_Warnings(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORMULASTATS_OUTLIER_SCOPE", "everywhere")
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("FORMULASTATS_CATEGORIES", "f1, indycar")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "joint", cfg.Outliers.Scope)
	assert.InDelta(t, 20.0, cfg.RateLimit.RPS, 1e-9)
	assert.Equal(t, []roster.Category{roster.CategoryF1}, cfg.RosterCategories())
	assert.Len(t, cfg.Warnings, 3)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		assert.Equal(t, tt.want, cfg.SlogLevel(), tt.in)
	}
}
