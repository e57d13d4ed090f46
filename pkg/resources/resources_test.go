package resources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOnce(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "charts"), nil)
	require.NoError(t, err)

	calls := 0
	build := PNG(func(context.Context) ([]byte, error) {
		calls++
		return []byte("png"), nil
	})

	r, err := m.Build(context.Background(), "42", "pace.png", build)
	require.NoError(t, err)
	assert.Equal(t, "42_pace.png", r.FileName())
	assert.Equal(t, "pace.png", r.Name())
	assert.Equal(t, filepath.Join(m.Dir(), "42_pace.png"), r.FilePath())

	_, err = m.Build(context.Background(), "42", "pace.png", build)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	data, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	_, err = m.Build(context.Background(), "43", "pace.png", build)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	require.NoError(t, m.Remove("42", "pace.png"))
	_, err = m.Build(context.Background(), "42", "pace.png", build)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestBuildFailureLeavesNothing(t *testing.T) {
	m, err := NewManager(t.TempDir(), nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = m.Build(context.Background(), "", "x.png", func(_ context.Context, path string) error {
		require.NoError(t, os.WriteFile(path, []byte("half"), 0o644))
		return boom
	})
	require.ErrorIs(t, err, boom)

	entries, err := os.ReadDir(m.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = m.Build(context.Background(), "", "", PNG(nil))
	require.Error(t, err)

	assert.NoError(t, m.Remove("", "missing.png"))
}
