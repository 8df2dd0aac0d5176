package state

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Channel names the three stores publish on.
const (
	ChannelDocument = "slatecast/document"
	ChannelViewport = "slatecast/viewport"
	ChannelTools    = "slatecast/tools"
)

// Point is one sample of a stroke, always in world space. Pressure and tilt
// come straight from the input device when it reports them.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure,omitempty"`
	TiltX    float64 `json:"tilt_x,omitempty"`
	TiltY    float64 `json:"tilt_y,omitempty"`
}

// Stroke is one freehand line. Points are append-only while the stroke is in
// progress; once committed the stroke never changes.
type Stroke struct {
	ID     string  `json:"id"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"` // world units
	Points []Point `json:"points"`
	Time   int64   `json:"timestamp"` // epoch millis
}

// NewStroke starts a stroke at first with the given pen settings.
func NewStroke(color string, width float64, first Point) Stroke {
	return Stroke{
		ID:     uuid.NewString(),
		Color:  color,
		Width:  width,
		Points: []Point{first},
		Time:   time.Now().UnixMilli(),
	}
}

func (s Stroke) validate() error {
	if s.ID == "" {
		return errors.New("stroke has no id")
	}
	if s.Width <= 0 || math.IsNaN(s.Width) || math.IsInf(s.Width, 0) {
		return fmt.Errorf("stroke %s has width %v", s.ID, s.Width)
	}
	if len(s.Points) == 0 {
		return fmt.Errorf("stroke %s has no points", s.ID)
	}
	for _, p := range s.Points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("stroke %s has a non-finite point", s.ID)
		}
	}
	return nil
}

// Document is the drawing itself: the committed strokes in draw order plus
// the single stroke currently under the pen, if any.
type Document struct {
	Strokes    []Stroke `json:"strokes"`
	InProgress *Stroke  `json:"in_progress,omitempty"`
}

// ValidateDocument rejects documents that arrive off the wire malformed.
func ValidateDocument(d Document) error {
	for _, s := range d.Strokes {
		if err := s.validate(); err != nil {
			return err
		}
	}
	if d.InProgress != nil {
		if err := d.InProgress.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Brush kinds the toolbar offers.
const (
	BrushPen         = "pen"
	BrushHighlighter = "highlighter"
	BrushEraser      = "eraser"
)

// ToolSettings is the active pen shared by every window's toolbar.
type ToolSettings struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Brush string  `json:"brush"`
}

// DefaultToolSettings is a black pen, 3 world units wide.
func DefaultToolSettings() ToolSettings {
	return ToolSettings{Color: "#000000", Width: 3, Brush: BrushPen}
}

// ValidateToolSettings rejects tool payloads that arrive malformed.
func ValidateToolSettings(t ToolSettings) error {
	if t.Color == "" {
		return errors.New("tool settings have no color")
	}
	if t.Width <= 0 || math.IsNaN(t.Width) || math.IsInf(t.Width, 0) {
		return fmt.Errorf("tool settings have width %v", t.Width)
	}
	switch t.Brush {
	case BrushPen, BrushHighlighter, BrushEraser:
		return nil
	default:
		return fmt.Errorf("unknown brush %q", t.Brush)
	}
}
