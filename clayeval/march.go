package clayeval

import (
	"claymarch/claybuf"

	"github.com/soypat/geometry/ms3"
)

// State is the walk state of a marched ray.
type State uint8

const (
	// Marching is the in-flight state. Returned Results never carry it.
	Marching State = iota
	// Hit means the union distance dropped below the close threshold.
	Hit
	// Miss means the ray left the scene or exhausted its step budget.
	Miss
)

func (s State) String() string {
	switch s {
	case Marching:
		return "marching"
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	}
	return "invalid"
}

// Result is the outcome of marching a single ray.
type Result struct {
	State State
	// Pos is the last sampled position. For Hit it is the surface point.
	Pos ms3.Vec
	// Dir is the unit ray direction.
	Dir ms3.Vec
	// Dist is the union distance at the final sample.
	Dist float32
	// Closest indexes the slot nearest the final sample by absolute
	// distance, -1 if no live slot was seen.
	Closest int
	// Steps is the number of marching iterations executed including
	// the terminating one.
	Steps int
	// Color is the distance-blended albedo accumulated along the walk.
	Color claybuf.RGBA
}

// MarchRay walks a ray through the snapshot's union field. The ray
// passes through the image-plane proxy point heading away from camPos
// and starts one unit behind the proxy so geometry just in front of
// the image plane still resolves.
//
// A negative union distance is below the close threshold, so rays born
// inside geometry hit immediately at their origin sample; steps are
// clamped to be non-negative and the walk never reverses.
func MarchRay(snap *claybuf.Snapshot, camPos, proxy ms3.Vec) Result {
	dir := ms3.Unit(ms3.Sub(proxy, camPos))
	res := Result{
		Pos:     ms3.Sub(proxy, dir),
		Dir:     dir,
		Closest: -1,
	}
	var col claybuf.RGBA
	for res.Steps < claybuf.MaxIterations {
		res.Steps++
		d := float32(claybuf.FarInit)
		for j := 0; j < claybuf.MaxPrimitives; j++ {
			if snap.Meta[j].Kind == claybuf.KindEnd {
				break
			}
			dj := SlotDist(snap, j, res.Pos)
			if absf(dj) < absf(d) {
				res.Closest = j
			}
			if w := blendWeight(dj); w > 0 {
				col = lerpRGBA(col, snap.Colors[j], w)
			}
			d = minf(d, dj)
			if d < claybuf.CloseDist {
				res.State = Hit
				res.Dist = d
				res.Color = col
				return res
			}
		}
		res.Dist = d
		if absf(d) > claybuf.FarDist {
			break
		}
		res.Pos = ms3.Add(res.Pos, ms3.Scale(maxf(d, 0)*claybuf.StepScale, dir))
	}
	res.State = Miss
	res.Color = col
	return res
}

// blendWeight is the cosmetic color contribution of a primitive at
// signed distance d: a quartic falloff from 1 at the surface to 0 at
// the blend band edge.
func blendWeight(d float32) float32 {
	q := absf(d) * (1 / float32(claybuf.BlendDist))
	q *= q
	return clampf(1-q*q, 0, 1)
}

func lerpRGBA(a, b claybuf.RGBA, t float32) claybuf.RGBA {
	return claybuf.RGBA{
		R: mixf(a.R, b.R, t),
		G: mixf(a.G, b.G, t),
		B: mixf(a.B, b.B, t),
		A: mixf(a.A, b.A, t),
	}
}
