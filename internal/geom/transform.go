package geom

import "math"

const (
	ScaleMin = 0.01
	ScaleMax = 100.0
)

// Viewport is one window's view of the infinite canvas: a pan offset in
// screen pixels and a zoom scale. Strokes themselves are stored in world
// space and never move; only the viewport does.
type Viewport struct {
	PanX  float64 `json:"pan_x"`
	PanY  float64 `json:"pan_y"`
	Scale float64 `json:"scale"`
}

// DefaultViewport is the view every window starts from: origin, 1:1 zoom.
func DefaultViewport() Viewport {
	return Viewport{Scale: 1}
}

// ClampScale keeps a zoom scale inside the supported range.
func ClampScale(s float64) float64 {
	if s < ScaleMin {
		return ScaleMin
	}
	if s > ScaleMax {
		return ScaleMax
	}
	return s
}

// Valid reports whether v is safe to apply: all fields finite and the scale
// in range. Used to reject malformed viewport payloads off the wire.
func (v Viewport) Valid() bool {
	for _, f := range [3]float64{v.PanX, v.PanY, v.Scale} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return v.Scale >= ScaleMin && v.Scale <= ScaleMax
}

// ScreenToWorld maps a pixel coordinate in one window to the canvas point
// under it.
func ScreenToWorld(sx, sy float64, v Viewport) (wx, wy float64) {
	return (sx - v.PanX) / v.Scale, (sy - v.PanY) / v.Scale
}

// WorldToScreen is the inverse of ScreenToWorld for the same viewport.
func WorldToScreen(wx, wy float64, v Viewport) (sx, sy float64) {
	return wx*v.Scale + v.PanX, wy*v.Scale + v.PanY
}
