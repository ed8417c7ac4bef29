package claybuf

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Errors accumulated by a [Packer] and surfaced by [Packer.Snapshot].
var (
	ErrOverflow            = errors.New("too many primitives for snapshot")
	ErrControlOverflow     = errors.New("too many control points for snapshot")
	ErrDegenerateTransform = errors.New("degenerate primitive transform")
	ErrUnknownKind         = errors.New("unknown primitive kind")
)

// epstol is used to check for badly conditioned transformation matrix
// determinants.
const epstol = 6e-7

// Packer assembles Snapshots slot by slot. Packing problems accumulate
// rather than abort so a whole scene's worth of issues surfaces in one
// joined error from Snapshot.
type Packer struct {
	snap      Snapshot
	accumErrs []error
}

// Reset discards all packed slots and accumulated errors so the Packer
// can be reused.
func (p *Packer) Reset() {
	p.snap = Snapshot{}
	p.accumErrs = p.accumErrs[:0]
}

// Err returns the accumulated packing errors joined together, or nil.
func (p *Packer) Err() error {
	if len(p.accumErrs) == 0 {
		return nil
	}
	return errors.Join(p.accumErrs...)
}

func (p *Packer) packErrorf(msg string, args ...any) {
	p.accumErrs = append(p.accumErrs, fmt.Errorf(msg, args...))
}

// AddSphere packs a sphere of radius r placed by the forward world
// transform. selected marks the slot for cosmetic highlighting only.
func (p *Packer) AddSphere(r float32, color RGBA, transform ms3.Mat4, selected bool) {
	if r <= 0 {
		p.packErrorf("zero or negative sphere radius")
		return
	}
	localBB := ms3.Box{
		Min: ms3.Vec{X: -r, Y: -r, Z: -r},
		Max: ms3.Vec{X: r, Y: r, Z: r},
	}
	p.addSlot(KindSphere, color, transform, ms3.Vec{X: r}, selected, localBB)
}

// AddBox packs a box of the given half extents placed by the forward
// world transform.
func (p *Packer) AddBox(half ms3.Vec, color RGBA, transform ms3.Mat4, selected bool) {
	if half.X <= 0 || half.Y <= 0 || half.Z <= 0 {
		p.packErrorf("zero or negative box dimension")
		return
	}
	localBB := ms3.Box{Min: ms3.Scale(-1, half), Max: half}
	p.addSlot(KindBox, color, transform, half, selected, localBB)
}

// AddPrimitive packs a primitive by kind tag, dispatching on the
// shape parameter convention: radius in params.X for spheres, half
// extents for boxes. Unknown kinds accumulate ErrUnknownKind so
// corrupt scenes fail at pack time instead of reaching the kernel.
func (p *Packer) AddPrimitive(kind Kind, color RGBA, transform ms3.Mat4, params ms3.Vec, selected bool) {
	switch kind {
	case KindSphere:
		p.AddSphere(params.X, color, transform, selected)
	case KindBox:
		p.AddBox(params, color, transform, selected)
	default:
		p.packErrorf("%w: tag %d at slot %d", ErrUnknownKind, kind, p.snap.Count)
	}
}

// AddControlPoint packs an editor handle position for overlay drawing.
func (p *Packer) AddControlPoint(pos ms3.Vec) {
	if p.snap.CtrlCount >= MaxControlPoints {
		p.packErrorf("%w: point %d", ErrControlOverflow, p.snap.CtrlCount)
		return
	}
	p.snap.Ctrl[p.snap.CtrlCount] = pos
	p.snap.CtrlCount++
}

// Snapshot returns a copy of the packed scene, or nil and the joined
// accumulated errors if any edit failed. The copy does not alias the
// Packer so callers may Reset and repack while renders are in flight.
func (p *Packer) Snapshot() (*Snapshot, error) {
	if err := p.Err(); err != nil {
		return nil, err
	}
	snap := p.snap
	return &snap, nil
}

func (p *Packer) addSlot(kind Kind, color RGBA, transform ms3.Mat4, params ms3.Vec, selected bool, localBB ms3.Box) {
	if p.snap.Count >= MaxPrimitives {
		p.packErrorf("%w: %s at slot %d", ErrOverflow, kind.String(), p.snap.Count)
		return
	}
	det := transform.Determinant()
	if math32.Abs(det) < epstol {
		p.packErrorf("%w: %s determinant %v", ErrDegenerateTransform, kind.String(), det)
		return
	}
	inv := transform.Inverse()
	i := p.snap.Count
	p.snap.Meta[i] = Meta{Kind: kind, Selected: selected}
	p.snap.Colors[i] = color
	p.snap.InvTransforms[i] = inv
	p.snap.Params[i] = params
	p.snap.DistScale[i] = distScale(inv)
	bb := transform.MulBox(localBB)
	if i == 0 {
		p.snap.Bounds = bb
	} else {
		p.snap.Bounds = p.snap.Bounds.Union(bb)
	}
	p.snap.Count++
}

// distScale returns the factor that maps a local-space distance to a
// world-space lower bound. It is the reciprocal of the largest norm
// among the images of the basis vectors under inv, which for a forward
// transform with per-axis scales equals the smallest scale.
func distScale(inv ms3.Mat4) float32 {
	o := inv.MulPosition(ms3.Vec{})
	nx := ms3.Norm(ms3.Sub(inv.MulPosition(ms3.Vec{X: 1}), o))
	ny := ms3.Norm(ms3.Sub(inv.MulPosition(ms3.Vec{Y: 1}), o))
	nz := ms3.Norm(ms3.Sub(inv.MulPosition(ms3.Vec{Z: 1}), o))
	return 1 / math32.Max(nx, math32.Max(ny, nz))
}
