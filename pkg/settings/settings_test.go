package settings

import (
	"path/filepath"
	"testing"

	"formulastats/pkg/palette"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "settings.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestDefaultsForUnknownUser(t *testing.T) {
	m := newManager(t)
	p, err := m.Preferences("42")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), p)
}

func TestToggle(t *testing.T) {
	m := newManager(t)

	p, err := m.Toggle("42", "ana", "1001", Outliers)
	require.NoError(t, err)
	assert.False(t, p.RemoveOutliers)

	p, err = m.Toggle("42", "ana", "1001", Scheme)
	require.NoError(t, err)
	assert.Equal(t, palette.SchemeFastf1, p.Scheme)

	p, err = m.Toggle("42", "ana", "1001", Compounds)
	require.NoError(t, err)
	assert.True(t, p.ShowCompounds)

	stored, err := m.Preferences("42")
	require.NoError(t, err)
	assert.Equal(t, Preferences{RemoveOutliers: false, ShowCompounds: true, Scheme: palette.SchemeFastf1}, stored)

	p, err = m.Toggle("42", "ana", "1001", Outliers)
	require.NoError(t, err)
	assert.True(t, p.RemoveOutliers)

	_, err = m.Toggle("42", "ana", "1001", "Sound")
	assert.ErrorIs(t, err, ErrUnknownSetting)
}

func TestRosterSubscribers(t *testing.T) {
	m := newManager(t)

	_, err := m.Toggle("7", "bo", "2002", Roster)
	require.NoError(t, err)
	_, err = m.Toggle("8", "cy", "3003", Roster)
	require.NoError(t, err)
	_, err = m.Toggle("8", "cy", "3003", Roster)
	require.NoError(t, err)
	_, err = m.Toggle("9", "", "4004", Compounds)
	require.NoError(t, err)

	users, err := m.ListUsersForRosterUpdates()
	require.NoError(t, err)
	assert.Equal(t, []TelegramUser{{ID: "7", Name: "bo", ChatID: "2002"}}, users)
}

func TestPreferencesString(t *testing.T) {
	s := Defaults().String()
	assert.Contains(t, s, "✅ Remove outlier laps")
	assert.Contains(t, s, "⬜ Show tyre compounds")
	assert.Contains(t, s, "Team colours: official")
	assert.Contains(t, s, "🔕 Driver roster updates")
}
