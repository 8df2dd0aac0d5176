package state

import "sync"

// MaxHistory bounds the undo log; recording past it evicts the oldest entry.
const MaxHistory = 100

type EntryKind string

const (
	EntryStrokeAdded   EntryKind = "stroke_added"
	EntryStrokeRemoved EntryKind = "stroke_removed"
	EntryCleared       EntryKind = "cleared"
)

// Entry is one reversible document action. Which fields are set depends on
// Kind: Stroke for added/removed, Index for removed, Prior for cleared.
type Entry struct {
	Kind   EntryKind
	Stroke Stroke
	Index  int
	Prior  []Stroke
}

// History is this window's private undo/redo log. It is deliberately not
// replicated: each window undoes its own actions, and only the resulting
// document mutations travel to the other windows. Remote changes never land
// here, so one window can never undo another's work.
type History struct {
	doc *DocumentStore

	mu     sync.Mutex
	past   []Entry // most recent last
	future []Entry // most recent last
}

// NewHistory attaches a fresh log to doc. Locally-recorded document actions
// start flowing into it from this point on.
func NewHistory(doc *DocumentStore) *History {
	h := &History{doc: doc}
	doc.history = h
	return h
}

// Record pushes a new entry and discards any redo branch.
func (h *History) Record(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.past = append(h.past, e)
	if len(h.past) > MaxHistory {
		h.past = append([]Entry(nil), h.past[len(h.past)-MaxHistory:]...)
	}
	h.future = nil
}

// Undo reverts the most recent recorded action. Returns false when there is
// nothing to undo; that is a boundary, not an error.
func (h *History) Undo() bool {
	h.mu.Lock()
	if len(h.past) == 0 {
		h.mu.Unlock()
		return false
	}
	e := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, e)
	h.mu.Unlock()

	switch e.Kind {
	case EntryStrokeAdded:
		h.doc.removeByID(e.Stroke.ID)
	case EntryStrokeRemoved:
		h.doc.insertAt(e.Stroke, e.Index)
	case EntryCleared:
		h.doc.setStrokes(e.Prior)
	}
	return true
}

// Redo re-applies the most recently undone action. Returns false when the
// redo branch is empty.
func (h *History) Redo() bool {
	h.mu.Lock()
	if len(h.future) == 0 {
		h.mu.Unlock()
		return false
	}
	e := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, e)
	h.mu.Unlock()

	switch e.Kind {
	case EntryStrokeAdded:
		h.doc.appendCommitted(e.Stroke)
	case EntryStrokeRemoved:
		h.doc.removeByID(e.Stroke.ID)
	case EntryCleared:
		h.doc.setStrokes(nil)
	}
	return true
}

func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.past) > 0
}

func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.future) > 0
}

// Clear empties both stacks. Called after loading a board so undo cannot
// resurrect strokes from before the load.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.past = nil
	h.future = nil
}
