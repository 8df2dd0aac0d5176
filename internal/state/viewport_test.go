package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slatecast/internal/bus"
	"slatecast/internal/geom"
)

func newViewport(t *testing.T, m *bus.Memory, sender string) *ViewportStore {
	t.Helper()
	vs, err := NewViewportStore(m, sender)
	require.NoError(t, err)
	t.Cleanup(vs.Close)
	return vs
}

func TestZoomAtAnchorInvariance(t *testing.T) {
	vs := newViewport(t, bus.NewMemory(), "a")
	vs.Mutate(func(geom.Viewport) geom.Viewport {
		return geom.Viewport{PanX: 37, PanY: -12, Scale: 1.5}
	})

	const ax, ay = 250.0, 180.0
	before := vs.Get()
	bwx, bwy := geom.ScreenToWorld(ax, ay, before)

	vs.ZoomAt(400, ax, ay)

	after := vs.Get()
	require.NotEqual(t, before.Scale, after.Scale)
	awx, awy := geom.ScreenToWorld(ax, ay, after)
	assert.InDelta(t, bwx, awx, 1e-9, "world point under the anchor moved")
	assert.InDelta(t, bwy, awy, 1e-9, "world point under the anchor moved")
}

func TestZoomInThenOutReturnsToIdentity(t *testing.T) {
	vs := newViewport(t, bus.NewMemory(), "a")

	vs.ZoomAt(1000, 400, 300) // scale 1 -> 2
	require.InDelta(t, 2.0, vs.Get().Scale, 1e-9)
	vs.ZoomAt(-500, 400, 300) // factor 0.5, scale 2 -> 1

	got := vs.Get()
	assert.InDelta(t, 1.0, got.Scale, 1e-9)
	assert.InDelta(t, 0.0, got.PanX, 1e-9)
	assert.InDelta(t, 0.0, got.PanY, 1e-9)
}

func TestZoomClampIsNoOp(t *testing.T) {
	vs := newViewport(t, bus.NewMemory(), "a")
	vs.Mutate(func(geom.Viewport) geom.Viewport {
		return geom.Viewport{PanX: 10, PanY: 20, Scale: geom.ScaleMax}
	})

	var broadcasts int
	vs.Watch(func(geom.Viewport) { broadcasts++ })

	vs.ZoomAt(1000, 400, 300) // already at max scale

	got := vs.Get()
	assert.Equal(t, geom.ScaleMax, got.Scale)
	assert.Equal(t, 10.0, got.PanX, "clamped zoom must not perturb pan")
	assert.Equal(t, 20.0, got.PanY, "clamped zoom must not perturb pan")
	assert.Zero(t, broadcasts, "clamped zoom must not mutate at all")
}

func TestZoomPartialClampStillAnchors(t *testing.T) {
	vs := newViewport(t, bus.NewMemory(), "a")
	vs.Mutate(func(geom.Viewport) geom.Viewport {
		return geom.Viewport{Scale: 60}
	})

	const ax, ay = 100.0, 100.0
	bwx, bwy := geom.ScreenToWorld(ax, ay, vs.Get())

	vs.ZoomAt(1000, ax, ay) // 60*2=120 clamps to 100

	after := vs.Get()
	require.Equal(t, geom.ScaleMax, after.Scale)
	awx, awy := geom.ScreenToWorld(ax, ay, after)
	assert.InDelta(t, bwx, awx, 1e-9)
	assert.InDelta(t, bwy, awy, 1e-9)
}

func TestPan(t *testing.T) {
	vs := newViewport(t, bus.NewMemory(), "a")

	vs.Pan(15, -7)
	vs.Pan(5, 7)

	got := vs.Get()
	assert.Equal(t, 20.0, got.PanX)
	assert.Equal(t, 0.0, got.PanY)
	assert.Equal(t, 1.0, got.Scale)
}

func TestViewportReplicates(t *testing.T) {
	m := bus.NewMemory()
	a := newViewport(t, m, "a")
	b := newViewport(t, m, "b")

	a.ZoomAt(500, 100, 50)

	assert.Equal(t, a.Get(), b.Get(), "presentation window must track the control viewport")
}

func TestViewportReset(t *testing.T) {
	vs := newViewport(t, bus.NewMemory(), "a")

	vs.ZoomAt(700, 10, 10)
	vs.Pan(100, 100)
	vs.Reset()

	assert.Equal(t, geom.DefaultViewport(), vs.Get())
}
