package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command against a temp data directory and returns
// what it printed.
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "formulastats.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dpi: 50\nlog_level: error\n"), 0o644))

	var out, errOut bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", cfgPath, "--data-dir", dataDir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedThenSchedule(t *testing.T) {
	t.Setenv("FORMULASTATS_DATA_DIR", "")
	dir := t.TempDir()

	out, err := run(t, dir, "seed", "--year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2024")

	out, err = run(t, dir, "schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "Bahrain Grand Prix")
	assert.Contains(t, out, "Sprint")
	assert.Contains(t, out, "OFFICIAL NAME")

	_, err = run(t, dir, "schedule", "twenty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a year")
}

func TestPace(t *testing.T) {
	t.Setenv("FORMULASTATS_DATA_DIR", "")
	dir := t.TempDir()
	_, err := run(t, dir, "seed")
	require.NoError(t, err)

	out, err := run(t, dir, "pace", "2024", "1", "race", "fastest")
	require.NoError(t, err)
	assert.Contains(t, out, "Team pace, lap: Fastest")
	assert.Contains(t, out, "+0.00%")

	_, err = run(t, dir, "pace", "2024", "1", "race", "slowest")
	require.Error(t, err)
}

func TestChartWritesPNG(t *testing.T) {
	t.Setenv("FORMULASTATS_DATA_DIR", "")
	dir := t.TempDir()
	_, err := run(t, dir, "seed")
	require.NoError(t, err)

	outDir := t.TempDir()
	out, err := run(t, dir, "chart", "team_pace_comparison", "2024", "Bahrain Grand Prix", "q", "--out", outDir)
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(outDir, "team_pace_comparison_2024_bahrain_grand_prix_qualifying.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = run(t, dir, "chart", "gear_shifts_per_lap", "2024", "1", "race", "--out", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "track maps need a driver and a lap")
}

func TestScrapeRejectsUnknownCategory(t *testing.T) {
	_, err := run(t, t.TempDir(), "scrape", "indycar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not one of f1, f2, f3")
}

func TestBotNeedsToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	_, err := run(t, t.TempDir(), "bot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
}
