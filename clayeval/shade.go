package clayeval

import (
	"claymarch/claybuf"

	"github.com/soypat/geometry/ms3"
)

// Lighting is the fixed-light shading model applied at hit points.
type Lighting struct {
	// LightPos is the world position of the single point light.
	LightPos ms3.Vec
	// Ambient scales the base color term present on every hit.
	Ambient float32
	// SpecularStrength scales the white highlight term.
	SpecularStrength float32
	// Highlight is added on top when the closest primitive is
	// selected. Selection is cosmetic and never moves geometry.
	Highlight claybuf.RGBA
}

// DefaultLighting places the light up and to the side of the origin,
// matching the interactive viewer.
func DefaultLighting() Lighting {
	return Lighting{
		LightPos:         ms3.Vec{X: 2, Y: 4, Z: 4},
		Ambient:          0.35,
		SpecularStrength: 0.5,
		Highlight:        claybuf.RGBA{R: 0.25, G: 0.25, B: 0.25},
	}
}

// Shade converts a march result into a display color: quartic diffuse
// and specular terms plus an ambient term attenuated by an iteration
// ratio occlusion proxy, all additive in the blended base color.
// Misses are transparent black so callers can composite over any
// background.
func (l Lighting) Shade(snap *claybuf.Snapshot, r Result) claybuf.RGBA {
	if r.State != Hit || r.Closest < 0 {
		return claybuf.RGBA{}
	}
	n := Normal(snap, r.Closest, r.Pos)
	ldir := ms3.Unit(ms3.Sub(l.LightPos, r.Pos))
	lambert := maxf(ms3.Dot(n, ldir), 0)
	dif := pow4(lambert)
	refl := ms3.Sub(ms3.Scale(2*ms3.Dot(n, ldir), n), ldir)
	view := ms3.Scale(-1, r.Dir)
	spec := l.SpecularStrength * pow4(maxf(ms3.Dot(refl, view), 0))
	// Rays that burn most of the step budget graze geometry, a cheap
	// stand-in for ambient occlusion.
	occ := clampf(2*(1-float32(r.Steps)/claybuf.MaxIterations), 0, 1)
	amb := l.Ambient * occ
	out := claybuf.RGBA{
		R: r.Color.R*(dif+amb) + spec,
		G: r.Color.G*(dif+amb) + spec,
		B: r.Color.B*(dif+amb) + spec,
		A: 1,
	}
	if snap.Meta[r.Closest].Selected {
		out.R += l.Highlight.R
		out.G += l.Highlight.G
		out.B += l.Highlight.B
	}
	out.R = clampf(out.R, 0, 1)
	out.G = clampf(out.G, 0, 1)
	out.B = clampf(out.B, 0, 1)
	return out
}
