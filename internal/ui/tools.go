package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"slatecast/internal/state"
)

// colorSwatch is a tappable square of one palette color.
type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	OnTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(strokeColor(s.Hex))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

var palette = []string{
	"#000000", // black
	"#e03131", // red
	"#2f9e44", // green
	"#1971c2", // blue
	"#f08c00", // orange
}

// NewToolbar builds the control window's toolbar. Everything it shows is
// read from the replicated tool store, so a color picked in any window is
// reflected here too.
func NewToolbar(r *state.Replica) fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			r.Tools.SetBrush(state.BrushPen)
		}),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), func() {
			r.Tools.SetBrush(state.BrushHighlighter)
		}),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() {
			r.Tools.SetBrush(state.BrushEraser)
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() {
			r.History.Undo()
		}),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() {
			r.History.Redo()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			r.Document.ClearAll()
		}),
		widget.NewToolbarAction(theme.HomeIcon(), func() {
			r.Viewport.Reset()
		}),
	)

	colorBox := container.NewHBox()
	for _, hex := range palette {
		colorBox.Add(newColorSwatch(hex, r.Tools.SetColor))
	}

	widthSlider := widget.NewSlider(1, 30)
	widthSlider.SetValue(r.Tools.Get().Width)
	widthSlider.OnChanged = r.Tools.SetWidth

	r.Tools.Watch(func(t state.ToolSettings) {
		fyne.Do(func() { widthSlider.SetValue(t.Width) })
	})

	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(140, 36)), widthSlider)

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderBox,
		layout.NewSpacer(),
	)
}
