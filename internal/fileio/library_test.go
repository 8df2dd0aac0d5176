package fileio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLibrary(t *testing.T) *Library {
	t.Helper()
	l, err := OpenLibrary(filepath.Join(t.TempDir(), "boards.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLibraryPutGet(t *testing.T) {
	l := openTestLibrary(t)
	want := sampleStrokes()

	require.NoError(t, l.Put("standup", want))

	got, err := l.Get("standup")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLibraryPutOverwrites(t *testing.T) {
	l := openTestLibrary(t)

	require.NoError(t, l.Put("standup", sampleStrokes()))
	require.NoError(t, l.Put("standup", nil))

	got, err := l.Get("standup")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLibraryGetMissing(t *testing.T) {
	l := openTestLibrary(t)

	_, err := l.Get("never-saved")
	assert.ErrorIs(t, err, ErrNoBoard)
}

func TestLibraryList(t *testing.T) {
	l := openTestLibrary(t)

	require.NoError(t, l.Put("first", nil))
	require.NoError(t, l.Put("second", sampleStrokes()))

	infos, err := l.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	names := []string{infos[0].Name, infos[1].Name}
	assert.Contains(t, names, "first")
	assert.Contains(t, names, "second")
}
