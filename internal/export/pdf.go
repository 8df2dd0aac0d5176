package export

import (
	"errors"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"slatecast/internal/state"
)

// A4 landscape with a small margin, in millimetres.
const (
	pdfPageW  = 297.0
	pdfPageH  = 210.0
	pdfMargin = 10.0
)

// PDF writes the strokes to path as a single-page A4 landscape PDF, fit to
// the page and preserving per-stroke color and relative width.
func PDF(path string, strokes []state.Stroke) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WritePDF(f, strokes)
}

// WritePDF renders the same document to any writer.
func WritePDF(out io.Writer, strokes []state.Stroke) error {
	b, ok := strokeBounds(strokes)
	if !ok {
		return errors.New("export: nothing to export")
	}
	f := fitBounds(b, pdfPageW-2*pdfMargin, pdfPageH-2*pdfMargin)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	for _, s := range strokes {
		r, g, bl := parseHexColor(s.Color)
		pdf.SetDrawColor(int(r), int(g), int(bl))
		w := s.Width * f.scale
		if w < 0.2 {
			w = 0.2
		}
		pdf.SetLineWidth(w)
		pdf.SetLineCapStyle("round")

		if len(s.Points) == 1 {
			x, y := f.point(b, s.Points[0])
			pdf.Circle(x+pdfMargin, y+pdfMargin, w/2, "F")
			continue
		}
		for i := 1; i < len(s.Points); i++ {
			x1, y1 := f.point(b, s.Points[i-1])
			x2, y2 := f.point(b, s.Points[i])
			pdf.Line(x1+pdfMargin, y1+pdfMargin, x2+pdfMargin, y2+pdfMargin)
		}
	}

	return pdf.Output(out)
}
