package state

import (
	"fmt"

	"github.com/google/uuid"

	"slatecast/internal/bus"
)

// Replica is everything one window holds: its copies of the three replicated
// stores plus its private history log, all sharing one sender identity on
// the transport.
type Replica struct {
	ID       string
	Document *DocumentStore
	Viewport *ViewportStore
	Tools    *ToolStore
	History  *History
}

// NewReplica wires a fresh window onto conn. The replica starts from the
// default values; a window joining mid-session stays at the defaults until
// the next broadcast reaches it.
func NewReplica(conn bus.Conn) (*Replica, error) {
	id := uuid.NewString()

	doc, err := NewDocumentStore(conn, id)
	if err != nil {
		return nil, fmt.Errorf("state: document store: %w", err)
	}
	vp, err := NewViewportStore(conn, id)
	if err != nil {
		doc.Close()
		return nil, fmt.Errorf("state: viewport store: %w", err)
	}
	tools, err := NewToolStore(conn, id)
	if err != nil {
		doc.Close()
		vp.Close()
		return nil, fmt.Errorf("state: tool store: %w", err)
	}

	return &Replica{
		ID:       id,
		Document: doc,
		Viewport: vp,
		Tools:    tools,
		History:  NewHistory(doc),
	}, nil
}

// Close releases every channel subscription this window holds.
func (r *Replica) Close() {
	r.Document.Close()
	r.Viewport.Close()
	r.Tools.Close()
}
