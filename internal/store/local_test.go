package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"folio/internal/types"
)

func openTestStore(t *testing.T) *Local {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "folio.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestSnapshotRoundTrip(t *testing.T) {
	l := openTestStore(t)

	p := types.Portfolio{
		Name:   "Ada Lovelace",
		Title:  "Engineer",
		Skills: []string{"Go", "SQL"},
		Projects: []types.Project{
			{Name: "Engine", Technologies: []string{"Go"}, Description: "d"},
		},
		About:      "about text",
		Generating: true, // transient, must not survive the round trip
	}
	require.NoError(t, l.SaveSnapshot(p))

	got, err := l.LoadSnapshot()
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.False(t, got.Generating, "transient flag is never persisted")
	p.Generating = false
	assert.Equal(t, p, *got)
}

func TestLoadSnapshotAbsent(t *testing.T) {
	l := openTestStore(t)

	got, err := l.LoadSnapshot()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadSnapshotCorrupt(t *testing.T) {
	l := openTestStore(t)
	require.NoError(t, l.Set(SnapshotKey, "{not json"))

	got, err := l.LoadSnapshot()
	require.NoError(t, err, "corrupt data is treated as absent, not an error")
	assert.Nil(t, got)
}

func TestSaveIsLastWriteWins(t *testing.T) {
	l := openTestStore(t)

	require.NoError(t, l.SaveSnapshot(types.Portfolio{Name: "first"}))
	require.NoError(t, l.SaveSnapshot(types.Portfolio{Name: "second"}))

	got, err := l.LoadSnapshot()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.Name)
}

func TestClearSnapshot(t *testing.T) {
	l := openTestStore(t)
	require.NoError(t, l.SaveSnapshot(types.Portfolio{Name: "Ada"}))
	require.NoError(t, l.ClearSnapshot())

	got, err := l.LoadSnapshot()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTakeConsumesOnce(t *testing.T) {
	l := openTestStore(t)
	require.NoError(t, l.Set(ActionKey, "preview"))

	v, ok, err := l.Take(ActionKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "preview", v)

	_, ok, err = l.Take(ActionKey)
	require.NoError(t, err)
	assert.False(t, ok, "second read returns nothing")
}

func TestTakeAbsent(t *testing.T) {
	l := openTestStore(t)

	_, ok, err := l.Take(ActionKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActionOverwrite(t *testing.T) {
	l := openTestStore(t)
	require.NoError(t, l.Set(ActionKey, "ai"))
	require.NoError(t, l.Set(ActionKey, "export"))

	v, ok, err := l.Take(ActionKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "export", v, "queueing a second action overwrites the first")
}
