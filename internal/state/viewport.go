package state

import (
	"errors"

	"slatecast/internal/bus"
	"slatecast/internal/geom"
)

const zoomRate = 0.001

// ViewportStore replicates the pan/zoom so the presentation window tracks
// the control window's view.
type ViewportStore struct {
	*Store[geom.Viewport]
}

func NewViewportStore(conn bus.Conn, sender string) (*ViewportStore, error) {
	s, err := NewStore(conn, ChannelViewport, sender, geom.DefaultViewport(), func(v geom.Viewport) error {
		if !v.Valid() {
			return errors.New("viewport out of range")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ViewportStore{Store: s}, nil
}

// ZoomAt scales the view around the screen point (anchorX, anchorY): the
// world point under the cursor stays under the cursor. A delta that the
// scale clamp swallows entirely is a no-op and must not touch the pan, or
// wheel events at the zoom limit would creep the view sideways and spam the
// other windows with identical updates.
func (vs *ViewportStore) ZoomAt(delta, anchorX, anchorY float64) {
	cur := vs.Get()
	factor := 1 + delta*zoomRate
	newScale := geom.ClampScale(cur.Scale * factor)
	if newScale == cur.Scale {
		return
	}

	// Anchor in world space under the pre-zoom viewport.
	wx, wy := geom.ScreenToWorld(anchorX, anchorY, cur)

	vs.Mutate(func(geom.Viewport) geom.Viewport {
		return geom.Viewport{
			PanX:  anchorX - wx*newScale,
			PanY:  anchorY - wy*newScale,
			Scale: newScale,
		}
	})
}

// Pan translates the view by a screen-space delta.
func (vs *ViewportStore) Pan(dx, dy float64) {
	vs.Mutate(func(v geom.Viewport) geom.Viewport {
		v.PanX += dx
		v.PanY += dy
		return v
	})
}
