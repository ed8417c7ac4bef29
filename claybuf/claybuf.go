// Package claybuf defines the packed scene format consumed by the
// sphere-tracing kernel: fixed-capacity parallel arrays of primitive
// data terminated by an End sentinel, and the constants shared by the
// packer, the kernel and the viewer shader.
package claybuf

import (
	"github.com/soypat/geometry/ms3"
)

// Kind is the primitive type tag stored in a slot's meta lane.
type Kind int32

const (
	// KindEnd marks the first unused slot. The zero value of a slot
	// array is therefore already sentinel-terminated.
	KindEnd Kind = iota
	KindSphere
	KindBox
)

func (k Kind) String() string {
	switch k {
	case KindEnd:
		return "end"
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	}
	return "unknown"
}

// Buffer capacities. Scenes beyond these sizes fail to pack.
const (
	MaxPrimitives    = 512
	MaxControlPoints = 128
)

// Marching thresholds. These are baked into both the CPU kernel and
// the viewer's fragment shader so the two walks agree.
const (
	// MaxIterations bounds the outer marching loop. Rays that exhaust
	// the budget report a miss.
	MaxIterations = 64
	// CloseDist is the hit threshold on the union distance.
	CloseDist = 0.003
	// FarDist aborts rays whose union distance exceeds it.
	FarDist = 100.0
	// FarInit is the per-step union distance sentinel, well beyond FarDist.
	FarInit = 10000.0
	// BlendDist is the cosmetic color blending band around each primitive.
	BlendDist = 0.03
	// StepScale shortens every marching step for stability near thin
	// or non-uniformly scaled geometry.
	StepScale = 0.75
	// MinScale is the per-axis magnitude floor scene edits clamp scale
	// components to so interactive edits cannot collapse a transform.
	// Its cube stays above the packer's determinant tolerance, so a
	// transform clamped on every axis still packs.
	MinScale = 1e-2
)

// RGBA is a linear-light color. Channels are not premultiplied.
type RGBA struct {
	R, G, B, A float32
}

// Meta is the per-slot tag lane: primitive kind and cosmetic selection
// state. Selection never affects geometry.
type Meta struct {
	Kind     Kind
	Selected bool
}

// Snapshot is an immutable packed copy of a scene. Slot arrays are
// parallel: slot i of every array describes the same primitive. Slots
// Count..MaxPrimitives-1 are zero, so their Kind is KindEnd and any
// walk stops there; a full snapshot has no sentinel and walks must
// also bound by capacity.
type Snapshot struct {
	Meta   [MaxPrimitives]Meta
	Colors [MaxPrimitives]RGBA
	// InvTransforms maps world points into each primitive's local
	// space. The forward transform is not retained.
	InvTransforms [MaxPrimitives]ms3.Mat4
	// Params is the local-space shape parameter: radius in X for
	// spheres, half extents for boxes.
	Params [MaxPrimitives]ms3.Vec
	// DistScale converts a local-space distance to a world-space lower
	// bound: multiply. Computed at pack time from the inverse
	// transform. Exact for uniform scaling, conservative otherwise.
	DistScale [MaxPrimitives]float32
	Count     int

	Ctrl      [MaxControlPoints]ms3.Vec
	CtrlCount int

	// Bounds is the world-space union of all packed primitive bounds.
	// Cameras use it to frame the scene.
	Bounds ms3.Box
}

// ControlPoints returns the live prefix of the control point array.
func (s *Snapshot) ControlPoints() []ms3.Vec {
	return s.Ctrl[:s.CtrlCount]
}
