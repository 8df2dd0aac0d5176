// Package export renders the committed strokes to PDF and PNG. It is a pure
// consumer of the document: world-space strokes in, pixels or vectors out.
package export

import (
	"fmt"
	"math"
	"strconv"

	"slatecast/internal/state"
)

// bounds is the world-space bounding box of a set of strokes, padded by half
// the widest stroke so nothing is clipped at the edges.
type bounds struct {
	minX, minY, maxX, maxY float64
}

func strokeBounds(strokes []state.Stroke) (bounds, bool) {
	b := bounds{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
	widest := 0.0
	any := false
	for _, s := range strokes {
		for _, p := range s.Points {
			b.minX = math.Min(b.minX, p.X)
			b.minY = math.Min(b.minY, p.Y)
			b.maxX = math.Max(b.maxX, p.X)
			b.maxY = math.Max(b.maxY, p.Y)
			any = true
		}
		widest = math.Max(widest, s.Width)
	}
	if !any {
		return bounds{}, false
	}
	pad := widest/2 + 1
	b.minX -= pad
	b.minY -= pad
	b.maxX += pad
	b.maxY += pad
	return b, true
}

// fit maps world space onto a target rectangle preserving aspect ratio.
type fit struct {
	scale      float64
	offX, offY float64
}

func fitBounds(b bounds, w, h float64) fit {
	bw := b.maxX - b.minX
	bh := b.maxY - b.minY
	if bw <= 0 {
		bw = 1
	}
	if bh <= 0 {
		bh = 1
	}
	scale := math.Min(w/bw, h/bh)
	return fit{
		scale: scale,
		offX:  (w - bw*scale) / 2,
		offY:  (h - bh*scale) / 2,
	}
}

func (f fit) point(b bounds, p state.Point) (float64, float64) {
	return (p.X-b.minX)*f.scale + f.offX, (p.Y-b.minY)*f.scale + f.offY
}

// parseHexColor accepts #rgb and #rrggbb. Anything else renders black, which
// beats refusing to export over one odd stroke.
func parseHexColor(s string) (r, g, b uint8) {
	if len(s) == 4 && s[0] == '#' {
		s = fmt.Sprintf("#%c%c%c%c%c%c", s[1], s[1], s[2], s[2], s[3], s[3])
	}
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
