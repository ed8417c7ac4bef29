// Package clayeval evaluates packed scene snapshots: primitive signed
// distances, the sphere-tracing walk, surface normals, shading and the
// control point overlay. All evaluation is pure so rays can be traced
// from any number of goroutines over one shared snapshot.
package clayeval

import (
	"errors"

	"claymarch/claybuf"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

const largenum = 1e20

var (
	errEmptyBuffers         = errors.New("empty buffers")
	errMismatchBufferLength = errors.New("position and distance buffer length mismatch")
	errNilSnapshot          = errors.New("nil snapshot")
)

// SceneSDF adapts a Snapshot to the vectorized signed distance field
// interface so scene fields compose with buffered row renderers and
// numeric tooling.
type SceneSDF struct {
	Snap *claybuf.Snapshot
}

// Evaluate stores the scene union distance for each position in dist.
// pos and dist must be of same length. userData is accepted for
// interface parity and ignored.
func (s *SceneSDF) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if s.Snap == nil {
		return errNilSnapshot
	} else if len(pos) != len(dist) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	for i, p := range pos {
		dist[i], _ = SceneDist(s.Snap, p)
	}
	return nil
}

// Bounds returns the snapshot's world bounds.
func (s *SceneSDF) Bounds() ms3.Box {
	return s.Snap.Bounds
}

func minf(a, b float32) float32 {
	return math32.Min(a, b)
}

func maxf(a, b float32) float32 {
	return math32.Max(a, b)
}

func absf(a float32) float32 {
	return math32.Abs(a)
}

func clampf(v, Min, Max float32) float32 {
	if v < Min {
		return Min
	} else if v > Max {
		return Max
	}
	return v
}

func mixf(x, y, a float32) float32 {
	return x*(1-a) + y*a
}

func pow4(x float32) float32 {
	x *= x
	return x * x
}
