package clayeval

import (
	"claymarch/claybuf"

	"github.com/soypat/geometry/ms3"
)

// Sphere returns the signed distance from p to the surface of a sphere
// of radius r centered at the origin.
func Sphere(p ms3.Vec, r float32) float32 {
	return ms3.Norm(p) - r
}

// Box returns the exact signed distance from p to an axis aligned box
// centered at the origin with the given half extents.
func Box(p, half ms3.Vec) float32 {
	q := ms3.Sub(ms3.AbsElem(p), half)
	return ms3.Norm(ms3.MaxElem(q, ms3.Vec{})) + minf(maxf(q.X, maxf(q.Y, q.Z)), 0)
}

// SlotDist returns the world-space signed distance from p to slot i of
// the snapshot: p is taken to the slot's local space by the inverse
// transform and the local distance is scaled back to a conservative
// world distance. Unknown kinds yield a huge distance so corrupt
// buffers read as empty space rather than crashing the walk.
func SlotDist(snap *claybuf.Snapshot, i int, p ms3.Vec) float32 {
	q := snap.InvTransforms[i].MulPosition(p)
	var d float32
	switch snap.Meta[i].Kind {
	case claybuf.KindSphere:
		d = Sphere(q, snap.Params[i].X)
	case claybuf.KindBox:
		d = Box(q, snap.Params[i])
	default:
		return largenum
	}
	return d * snap.DistScale[i]
}

// SceneDist returns the union distance from p to the snapshot along
// with the slot index of the primitive closest by absolute distance,
// -1 when no live slot exists. Exact ties keep the lowest slot index.
func SceneDist(snap *claybuf.Snapshot, p ms3.Vec) (d float32, closest int) {
	d = largenum
	closest = -1
	for i := 0; i < claybuf.MaxPrimitives; i++ {
		if snap.Meta[i].Kind == claybuf.KindEnd {
			break
		}
		di := SlotDist(snap, i, p)
		if absf(di) < absf(d) {
			closest = i
		}
		d = minf(d, di)
	}
	return d, closest
}
