package state

import "slatecast/internal/bus"

// ToolStore replicates the active pen settings so every window's toolbar
// shows the same tool. Convenience replication: nothing breaks if a window
// briefly disagrees, it is just confusing.
type ToolStore struct {
	*Store[ToolSettings]
}

func NewToolStore(conn bus.Conn, sender string) (*ToolStore, error) {
	s, err := NewStore(conn, ChannelTools, sender, DefaultToolSettings(), ValidateToolSettings)
	if err != nil {
		return nil, err
	}
	return &ToolStore{Store: s}, nil
}

func (ts *ToolStore) SetColor(color string) {
	ts.Mutate(func(t ToolSettings) ToolSettings {
		t.Color = color
		return t
	})
}

func (ts *ToolStore) SetWidth(width float64) {
	ts.Mutate(func(t ToolSettings) ToolSettings {
		t.Width = width
		return t
	})
}

func (ts *ToolStore) SetBrush(brush string) {
	ts.Mutate(func(t ToolSettings) ToolSettings {
		t.Brush = brush
		return t
	})
}
