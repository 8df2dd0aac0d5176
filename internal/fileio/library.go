package fileio

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"slatecast/internal/state"
)

// ErrNoBoard is returned by Get for a name the library has never seen.
var ErrNoBoard = errors.New("fileio: no such board")

// Library is the sqlite-backed collection of named boards. The autosave loop
// writes the live session into it so a crash or restart reopens where the
// user left off.
type Library struct {
	db *sql.DB
}

// BoardInfo is one library listing.
type BoardInfo struct {
	Name      string
	UpdatedAt time.Time
}

// OpenLibrary opens (creating if needed) the board library at path.
func OpenLibrary(path string) (*Library, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("fileio: open library %s: %w", path, err)
	}
	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS boards (
			name text not null primary key,
			content text not null,
			updated_at timestamp not null
		)`,
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("fileio: init library: %w", err)
	}
	return &Library{db: db}, nil
}

// Put stores the strokes under name, replacing any previous snapshot.
func (l *Library) Put(name string, strokes []state.Stroke) error {
	data, err := json.Marshal(BoardFile{Version: FileVersion, Strokes: strokes})
	if err != nil {
		return fmt.Errorf("fileio: encode board %q: %w", name, err)
	}
	if _, err := l.db.Exec(
		`INSERT INTO boards (name, content, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, string(data), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("fileio: store board %q: %w", name, err)
	}
	return nil
}

// Get loads the named board, validating it like a board file.
func (l *Library) Get(name string) ([]state.Stroke, error) {
	var content string
	err := l.db.QueryRow(`SELECT content FROM boards WHERE name = ?`, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoBoard
	}
	if err != nil {
		return nil, fmt.Errorf("fileio: load board %q: %w", name, err)
	}
	return Decode([]byte(content))
}

// List returns every stored board, most recently updated first.
func (l *Library) List() ([]BoardInfo, error) {
	rows, err := l.db.Query(`SELECT name, updated_at FROM boards ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("fileio: list boards: %w", err)
	}
	defer rows.Close()

	var out []BoardInfo
	for rows.Next() {
		var info BoardInfo
		if err := rows.Scan(&info.Name, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("fileio: scan board row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (l *Library) Close() error {
	return l.db.Close()
}
