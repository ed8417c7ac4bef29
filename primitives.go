package claymarch

import (
	"claymarch/claybuf"

	"github.com/soypat/geometry/ms3"
)

// Primitive is one editable object of a scene: a typed shape with its
// own color and translate-rotate-scale placement.
type Primitive struct {
	ID   uint32       `json:"id"`
	Kind claybuf.Kind `json:"kind"`
	// Color is the linear-light albedo used by the shading stage.
	Color       claybuf.RGBA `json:"color"`
	Translation ms3.Vec      `json:"translation"`
	// RotAngle is radians around RotAxis. A zero axis means no
	// rotation.
	RotAngle float32 `json:"rotAngle,omitempty"`
	RotAxis  ms3.Vec `json:"rotAxis,omitempty"`
	Scale    ms3.Vec `json:"scale"`
	// Params is the local shape parameter: radius in X for spheres,
	// half extents for boxes.
	Params ms3.Vec `json:"params"`
}

// Transform composes the primitive's forward world matrix in
// translate rotate scale order.
func (pr *Primitive) Transform() ms3.Mat4 {
	m := ms3.ScalingMat4(pr.Scale)
	if pr.RotAngle != 0 && pr.RotAxis != (ms3.Vec{}) {
		m = ms3.MulMat4(ms3.RotationMat4(pr.RotAngle, pr.RotAxis), m)
	}
	return ms3.MulMat4(ms3.TranslatingMat4(pr.Translation), m)
}
