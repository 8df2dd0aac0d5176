// Package fileio owns the on-disk shapes: the JSON board file and the sqlite
// board library used for autosave. The state core only ever sees []Stroke.
package fileio

import (
	"encoding/json"
	"fmt"
	"os"

	"slatecast/internal/state"
)

const FileVersion = 1

// BoardFile is the saved JSON shape.
type BoardFile struct {
	Version int            `json:"version"`
	Strokes []state.Stroke `json:"strokes"`
}

// Encode renders strokes as an indented JSON board file.
func Encode(strokes []state.Stroke) ([]byte, error) {
	data, err := json.MarshalIndent(BoardFile{Version: FileVersion, Strokes: strokes}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("fileio: encode board: %w", err)
	}
	return data, nil
}

// Save writes the strokes to path as a board file.
func Save(path string, strokes []state.Stroke) error {
	data, err := Encode(strokes)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("fileio: write %s: %w", path, err)
	}
	return nil
}

// Load reads and validates a board file. A file that fails validation is
// rejected whole; the caller's document is never partially replaced.
func Load(path string) ([]state.Stroke, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fileio: read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses and validates board file bytes.
func Decode(data []byte) ([]state.Stroke, error) {
	var f BoardFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fileio: parse board: %w", err)
	}
	if f.Version != FileVersion {
		return nil, fmt.Errorf("fileio: unsupported board version %d", f.Version)
	}
	if err := state.ValidateDocument(state.Document{Strokes: f.Strokes}); err != nil {
		return nil, fmt.Errorf("fileio: invalid board: %w", err)
	}
	return f.Strokes, nil
}
