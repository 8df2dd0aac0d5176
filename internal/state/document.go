package state

import "slatecast/internal/bus"

// DocumentStore owns the drawing. Nothing else mutates a Document: input
// capture drives the gesture lifecycle, file load goes through ReplaceAll,
// and the history engine replays inverses through the unexported helpers.
type DocumentStore struct {
	*Store[Document]
	history *History
}

func NewDocumentStore(conn bus.Conn, sender string) (*DocumentStore, error) {
	s, err := NewStore(conn, ChannelDocument, sender, Document{}, ValidateDocument)
	if err != nil {
		return nil, err
	}
	return &DocumentStore{Store: s}, nil
}

// Strokes returns a copy of the committed strokes.
func (d *DocumentStore) Strokes() []Stroke {
	doc := d.Get()
	out := make([]Stroke, len(doc.Strokes))
	copy(out, doc.Strokes)
	return out
}

// StartStroke begins a gesture. The stroke is visible to every window right
// away but stays out of history until it commits.
func (d *DocumentStore) StartStroke(s Stroke) {
	d.Mutate(func(doc Document) Document {
		doc.InProgress = &s
		return doc
	})
}

// AppendPoint extends the in-progress stroke. Called per pointer move, so it
// appends in place of the old slice header rather than copying the points.
func (d *DocumentStore) AppendPoint(p Point) {
	d.Mutate(func(doc Document) Document {
		if doc.InProgress == nil {
			return doc
		}
		s := *doc.InProgress
		s.Points = append(s.Points, p)
		doc.InProgress = &s
		return doc
	})
}

// CommitStroke moves the in-progress stroke onto the document and records it
// in history. No-op when no gesture is active.
func (d *DocumentStore) CommitStroke() {
	var committed *Stroke
	d.Mutate(func(doc Document) Document {
		if doc.InProgress == nil {
			return doc
		}
		s := *doc.InProgress
		doc.Strokes = appendStroke(doc.Strokes, s)
		doc.InProgress = nil
		committed = &s
		return doc
	})
	if committed != nil {
		d.record(Entry{Kind: EntryStrokeAdded, Stroke: *committed})
	}
}

// CancelStroke discards the in-progress stroke, leaving no trace in the
// document or in history. Used when a competing gesture interrupts drawing.
func (d *DocumentStore) CancelStroke() {
	d.Mutate(func(doc Document) Document {
		doc.InProgress = nil
		return doc
	})
}

// RemoveStrokeAt deletes the stroke at index. An out-of-range index is a
// caller bug and a deliberate no-op here.
func (d *DocumentStore) RemoveStrokeAt(index int, recordHistory bool) {
	var removed *Stroke
	d.Mutate(func(doc Document) Document {
		if index < 0 || index >= len(doc.Strokes) {
			return doc
		}
		s := doc.Strokes[index]
		removed = &s
		doc.Strokes = deleteStroke(doc.Strokes, index)
		return doc
	})
	if removed != nil && recordHistory {
		d.record(Entry{Kind: EntryStrokeRemoved, Stroke: *removed, Index: index})
	}
}

// ClearAll wipes the document. The prior strokes go into history so a single
// undo brings the whole drawing back.
func (d *DocumentStore) ClearAll() {
	var prior []Stroke
	d.Mutate(func(doc Document) Document {
		if len(doc.Strokes) > 0 {
			prior = doc.Strokes
		}
		doc.Strokes = nil
		doc.InProgress = nil
		return doc
	})
	if prior != nil {
		d.record(Entry{Kind: EntryCleared, Prior: prior})
	}
}

// ReplaceAll swaps in a loaded set of strokes. It records no history; the
// load path clears the log explicitly (see DESIGN.md).
func (d *DocumentStore) ReplaceAll(strokes []Stroke) {
	copied := make([]Stroke, len(strokes))
	copy(copied, strokes)
	d.Mutate(func(doc Document) Document {
		doc.Strokes = copied
		doc.InProgress = nil
		return doc
	})
}

func (d *DocumentStore) record(e Entry) {
	if d.history != nil {
		d.history.Record(e)
	}
}

// The helpers below are the history engine's replay surface. None of them
// record history, and all of them go through Mutate so other windows see
// undo and redo like any other edit.

// removeByID removes the newest stroke with the given ID. Undoing a commit
// targets the stroke itself, not a position, so a remote edit that moved or
// already deleted it degrades to a no-op instead of hitting a neighbor.
func (d *DocumentStore) removeByID(id string) {
	d.Mutate(func(doc Document) Document {
		for i := len(doc.Strokes) - 1; i >= 0; i-- {
			if doc.Strokes[i].ID == id {
				doc.Strokes = deleteStroke(doc.Strokes, i)
				break
			}
		}
		return doc
	})
}

// insertAt re-inserts a stroke at its recorded position, clamped to the
// current document length.
func (d *DocumentStore) insertAt(s Stroke, index int) {
	d.Mutate(func(doc Document) Document {
		if index < 0 {
			index = 0
		}
		if index > len(doc.Strokes) {
			index = len(doc.Strokes)
		}
		out := make([]Stroke, 0, len(doc.Strokes)+1)
		out = append(out, doc.Strokes[:index]...)
		out = append(out, s)
		out = append(out, doc.Strokes[index:]...)
		doc.Strokes = out
		return doc
	})
}

func (d *DocumentStore) appendCommitted(s Stroke) {
	d.Mutate(func(doc Document) Document {
		doc.Strokes = appendStroke(doc.Strokes, s)
		return doc
	})
}

func (d *DocumentStore) setStrokes(strokes []Stroke) {
	d.Mutate(func(doc Document) Document {
		doc.Strokes = strokes
		return doc
	})
}

// appendStroke never grows the shared backing array of an older snapshot.
func appendStroke(ss []Stroke, s Stroke) []Stroke {
	return append(ss[:len(ss):len(ss)], s)
}

func deleteStroke(ss []Stroke, i int) []Stroke {
	out := make([]Stroke, 0, len(ss)-1)
	out = append(out, ss[:i]...)
	out = append(out, ss[i+1:]...)
	return out
}
