package clayeval_test

import (
	"testing"

	"claymarch/claybuf"
	"claymarch/clayeval"

	"github.com/soypat/geometry/ms3"
)

func overlaySnapshot(t *testing.T, pts ...ms3.Vec) *claybuf.Snapshot {
	t.Helper()
	return mustSnapshot(t, func(pk *claybuf.Packer) {
		for _, p := range pts {
			pk.AddControlPoint(p)
		}
	})
}

func TestOverlayFillAndBorder(t *testing.T) {
	snap := overlaySnapshot(t, ms3.Vec{})
	o := clayeval.DefaultOverlay()
	cam := ms3.Vec{Z: 5}

	// Dead center: the ray points straight at the control point.
	c := o.Sample(snap, cam, ms3.Vec{Z: -1})
	if c != o.Fill {
		t.Errorf("center sample %+v, want fill %+v", c, o.Fill)
	}

	// Ring: planar offset between inner (0.06) and outer (0.1) radius
	// at camera distance 5.
	dir := ms3.Unit(ms3.Vec{X: 0.08, Z: -5})
	c = o.Sample(snap, cam, dir)
	if c != o.Border {
		t.Errorf("ring sample %+v, want border %+v", c, o.Border)
	}

	// Far outside: untouched.
	dir = ms3.Unit(ms3.Vec{X: 1, Z: -5})
	c = o.Sample(snap, cam, dir)
	if c != (claybuf.RGBA{}) {
		t.Errorf("distant sample %+v, want zero", c)
	}
}

func TestOverlayAccumulateClamps(t *testing.T) {
	// Two coincident control points: fills add and clamp to 1.
	snap := overlaySnapshot(t, ms3.Vec{}, ms3.Vec{})
	o := clayeval.DefaultOverlay()
	c := o.Sample(snap, ms3.Vec{Z: 5}, ms3.Vec{Z: -1})
	if c.A != 1 {
		t.Errorf("accumulated alpha %v, want clamped to 1", c.A)
	}
	if c.R != 1 || c.G != 1 || c.B != 1 {
		t.Errorf("accumulated color %+v, want clamped white", c)
	}
}

func TestOverlayPointAtCameraSkipped(t *testing.T) {
	snap := overlaySnapshot(t, ms3.Vec{Z: 5})
	o := clayeval.DefaultOverlay()
	c := o.Sample(snap, ms3.Vec{Z: 5}, ms3.Vec{Z: -1})
	if c != (claybuf.RGBA{}) {
		t.Errorf("zero-distance point contributed %+v", c)
	}
}

func TestCompositeAlphaOver(t *testing.T) {
	base := claybuf.RGBA{R: 0.5, G: 0.25, B: 0.75, A: 1}
	if got := clayeval.Composite(base, claybuf.RGBA{}); got != base {
		t.Errorf("zero alpha overlay changed base: %+v", got)
	}
	solid := claybuf.RGBA{R: 1, A: 1}
	if got := clayeval.Composite(base, solid); got != solid {
		t.Errorf("solid overlay did not replace base: %+v", got)
	}
	half := claybuf.RGBA{R: 1, A: 0.5}
	got := clayeval.Composite(base, half)
	if got.R != 0.75 || got.A != 1 {
		t.Errorf("half alpha composite %+v, want R=0.75 A=1", got)
	}
}
