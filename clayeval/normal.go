package clayeval

import (
	"claymarch/claybuf"

	"github.com/soypat/geometry/ms3"
)

// Normal estimates the outward surface normal of a single slot at p by
// central differences over that slot's own corrected distance. The
// union field is deliberately not sampled so normals stay stable where
// primitives meet; seam-aware normals are out of scope.
func Normal(snap *claybuf.Snapshot, slot int, p ms3.Vec) ms3.Vec {
	const h = claybuf.CloseDist
	n := ms3.Vec{
		X: SlotDist(snap, slot, ms3.Add(p, ms3.Vec{X: h})) - SlotDist(snap, slot, ms3.Sub(p, ms3.Vec{X: h})),
		Y: SlotDist(snap, slot, ms3.Add(p, ms3.Vec{Y: h})) - SlotDist(snap, slot, ms3.Sub(p, ms3.Vec{Y: h})),
		Z: SlotDist(snap, slot, ms3.Add(p, ms3.Vec{Z: h})) - SlotDist(snap, slot, ms3.Sub(p, ms3.Vec{Z: h})),
	}
	if n == (ms3.Vec{}) {
		// Degenerate sample, e.g. the exact center of a primitive.
		return ms3.Vec{Y: 1}
	}
	return ms3.Unit(n)
}
