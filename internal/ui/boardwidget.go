package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"slatecast/internal/geom"
	"slatecast/internal/state"
)

const wheelZoomStep = 10 // scroll notch -> zoomAt delta

// BoardWidget paints one replica's document through its viewport. The
// control window gets an editable one; the presentation window gets a
// read-only one on its own replica and follows along purely via the stores.
type BoardWidget struct {
	widget.BaseWidget
	replica  *state.Replica
	editable bool

	drawing bool
	panning bool
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(r *state.Replica, editable bool) *BoardWidget {
	b := &BoardWidget{replica: r, editable: editable}
	b.ExtendBaseWidget(b)

	r.Document.Watch(func(state.Document) { fyne.Do(b.Refresh) })
	r.Viewport.Watch(func(geom.Viewport) { fyne.Do(b.Refresh) })
	return b
}

// penFor derives the stroke look from the shared tool settings. The eraser
// is a fat background-colored pen, same trick as any whiteboard.
func penFor(t state.ToolSettings) (string, float64) {
	switch t.Brush {
	case state.BrushEraser:
		return "#ffffff", t.Width * 6
	case state.BrushHighlighter:
		return t.Color, t.Width * 3
	default:
		return t.Color, t.Width
	}
}

func (b *BoardWidget) worldPos(pos fyne.Position) state.Point {
	wx, wy := geom.ScreenToWorld(float64(pos.X), float64(pos.Y), b.replica.Viewport.Get())
	return state.Point{X: wx, Y: wy}
}

func (b *BoardWidget) MouseDown(ev *desktop.MouseEvent) {
	if !b.editable {
		return
	}
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		// Width is in world units, so strokes zoom with the canvas.
		col, width := penFor(b.replica.Tools.Get())
		b.replica.Document.StartStroke(state.NewStroke(col, width, b.worldPos(ev.Position)))
		b.drawing = true
	case desktop.MouseButtonSecondary:
		if b.drawing {
			// A competing gesture interrupts the stroke.
			b.replica.Document.CancelStroke()
			b.drawing = false
			return
		}
		b.panning = true
	}
}

func (b *BoardWidget) MouseUp(ev *desktop.MouseEvent) {
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		if b.drawing {
			b.replica.Document.CommitStroke()
			b.drawing = false
		}
	case desktop.MouseButtonSecondary:
		b.panning = false
	}
}

func (b *BoardWidget) Dragged(ev *fyne.DragEvent) {
	if !b.editable {
		return
	}
	if b.drawing {
		b.replica.Document.AppendPoint(b.worldPos(ev.Position))
		return
	}
	if b.panning {
		b.replica.Viewport.Pan(float64(ev.Dragged.DX), float64(ev.Dragged.DY))
	}
}

func (b *BoardWidget) DragEnd() {
	if b.drawing {
		b.replica.Document.CommitStroke()
		b.drawing = false
	}
	b.panning = false
}

func (b *BoardWidget) Scrolled(ev *fyne.ScrollEvent) {
	if !b.editable {
		return
	}
	b.replica.Viewport.ZoomAt(
		float64(ev.Scrolled.DY)*wheelZoomStep,
		float64(ev.Position.X),
		float64(ev.Position.Y),
	)
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut()                      {}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	return r
}

type boardRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	doc := r.board.replica.Document.Get()
	vp := r.board.replica.Viewport.Get()

	objects := []fyne.CanvasObject{r.background}
	for _, s := range doc.Strokes {
		objects = appendStrokeLines(objects, s, vp)
	}
	if doc.InProgress != nil {
		objects = appendStrokeLines(objects, *doc.InProgress, vp)
	}
	return objects
}

func appendStrokeLines(objects []fyne.CanvasObject, s state.Stroke, vp geom.Viewport) []fyne.CanvasObject {
	col := strokeColor(s.Color)
	width := float32(s.Width * vp.Scale)
	if width < 1 {
		width = 1
	}

	if len(s.Points) == 1 {
		x, y := geom.WorldToScreen(s.Points[0].X, s.Points[0].Y, vp)
		dot := canvas.NewCircle(col)
		r := width / 2
		dot.Move(fyne.NewPos(float32(x)-r, float32(y)-r))
		dot.Resize(fyne.NewSize(width, width))
		return append(objects, dot)
	}

	for i := 1; i < len(s.Points); i++ {
		x1, y1 := geom.WorldToScreen(s.Points[i-1].X, s.Points[i-1].Y, vp)
		x2, y2 := geom.WorldToScreen(s.Points[i].X, s.Points[i].Y, vp)
		line := canvas.NewLine(col)
		line.StrokeWidth = width
		line.Position1 = fyne.NewPos(float32(x1), float32(y1))
		line.Position2 = fyne.NewPos(float32(x2), float32(y2))
		objects = append(objects, line)
	}
	return objects
}

// strokeColor parses #rgb / #rrggbb, defaulting to black.
func strokeColor(s string) color.Color {
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	if len(s) != 7 || s[0] != '#' {
		return color.Black
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.Black
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func (r *boardRenderer) Layout(size fyne.Size) { r.background.Resize(size) }
func (r *boardRenderer) MinSize() fyne.Size    { return fyne.NewSize(400, 300) }
func (r *boardRenderer) Refresh()              { canvas.Refresh(r.board) }
func (r *boardRenderer) Destroy()              {}
