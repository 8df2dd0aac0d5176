package export

import (
	"errors"
	"io"
	"os"

	"github.com/fogleman/gg"

	"slatecast/internal/state"
)

// PNG rasterizes the strokes to a w×h image at path, white background,
// fit to the canvas the same way the PDF export fits the page.
func PNG(path string, strokes []state.Stroke, w, h int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WritePNG(f, strokes, w, h)
}

// WritePNG renders the same image to any writer.
func WritePNG(out io.Writer, strokes []state.Stroke, w, h int) error {
	b, ok := strokeBounds(strokes)
	if !ok {
		return errors.New("export: nothing to export")
	}
	f := fitBounds(b, float64(w), float64(h))

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, s := range strokes {
		r, g, bl := parseHexColor(s.Color)
		dc.SetRGB255(int(r), int(g), int(bl))
		lw := s.Width * f.scale
		if lw < 1 {
			lw = 1
		}
		dc.SetLineWidth(lw)
		dc.SetLineCapRound()
		dc.SetLineJoinRound()

		if len(s.Points) == 1 {
			x, y := f.point(b, s.Points[0])
			dc.DrawCircle(x, y, lw/2)
			dc.Fill()
			continue
		}
		x0, y0 := f.point(b, s.Points[0])
		dc.MoveTo(x0, y0)
		for _, p := range s.Points[1:] {
			x, y := f.point(b, p)
			dc.LineTo(x, y)
		}
		dc.Stroke()
	}

	return dc.EncodePNG(out)
}
