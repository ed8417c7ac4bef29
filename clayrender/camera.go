// Package clayrender rasterizes packed scene snapshots on the CPU by
// marching one ray per pixel from an orbiting camera.
package clayrender

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Camera orbits a target point. Yaw and pitch are radians, Dist the
// distance from target to eye. The zero yaw and pitch camera sits on
// the negative Z side of the target looking along positive Z.
type Camera struct {
	Target ms3.Vec
	Yaw    float32
	Pitch  float32
	Dist   float32
	// Focal is the image plane distance in view units. Zero selects
	// the default of 1.5.
	Focal float32
}

// MaxPitch keeps orbit pitch short of the poles where the view basis
// degenerates.
const MaxPitch = math32.Pi/2 - 0.01

// AutoFrame aims the camera at the bounds center from a distance equal
// to the bounds diagonal, keeping yaw and pitch.
func (c *Camera) AutoFrame(bb ms3.Box) {
	c.Target = bb.Center()
	diag := bb.Diagonal()
	if diag <= 0 {
		diag = 2
	}
	c.Dist = diag
}

// Position returns the eye position.
func (c Camera) Position() ms3.Vec {
	sy, cy := math32.Sincos(c.Yaw)
	sp, cp := math32.Sincos(c.Pitch)
	dir := ms3.Vec{X: cp * sy, Y: sp, Z: cp * cy}
	return ms3.Sub(c.Target, ms3.Scale(c.Dist, dir))
}

// Basis returns the right, up and forward unit vectors of the view.
func (c Camera) Basis() (right, up, forward ms3.Vec) {
	ww := ms3.Unit(ms3.Sub(c.Target, c.Position()))
	uu := cross(ww, ms3.Vec{Y: 1})
	if nrm := ms3.Norm(uu); nrm < 1e-6 {
		// Looking straight along the pole.
		uu = ms3.Vec{X: 1}
	} else {
		uu = ms3.Scale(1/nrm, uu)
	}
	vv := cross(uu, ww)
	return uu, vv, ww
}

// Proxy returns the image-plane point for the center of pixel (px, py)
// of a width by height frame. Marched rays pass through this point
// heading away from Position.
func (c Camera) Proxy(px, py, width, height int) ms3.Vec {
	uu, vv, ww := c.Basis()
	return c.proxyAt(c.Position(), uu, vv, ww, px, py, width, height)
}

// proxyAt is Proxy with the per-frame camera terms hoisted out so the
// render loop does not recompute the basis for every pixel.
func (c Camera) proxyAt(pos, uu, vv, ww ms3.Vec, px, py, width, height int) ms3.Vec {
	// Fragment convention: origin at the image center, y up, scaled by
	// image height. Image rows run top down.
	x := (2*(float32(px)+0.5) - float32(width)) / float32(height)
	y := (2*(float32(height-1-py)+0.5) - float32(height)) / float32(height)
	d := ms3.Add(ms3.Add(ms3.Scale(x, uu), ms3.Scale(y, vv)), ms3.Scale(c.focal(), ww))
	return ms3.Add(pos, d)
}

func (c Camera) focal() float32 {
	if c.Focal == 0 {
		return 1.5
	}
	return c.Focal
}

func cross(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
