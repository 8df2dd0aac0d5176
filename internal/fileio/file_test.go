package fileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slatecast/internal/state"
)

func sampleStrokes() []state.Stroke {
	return []state.Stroke{
		state.NewStroke("#000000", 3, state.Point{X: 0, Y: 0}),
		state.NewStroke("#ff0000", 5, state.Point{X: 10, Y: -4, Pressure: 0.8}),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	want := sampleStrokes()

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99,"strokes":[]}`), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "version")
}

func TestLoadRejectsInvalidStroke(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	// A stroke with no points violates the committed-stroke invariant.
	require.NoError(t, os.WriteFile(path, []byte(
		`{"version":1,"strokes":[{"id":"x","color":"#000000","width":3,"points":[],"timestamp":0}]}`,
	), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
