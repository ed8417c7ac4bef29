// Package claymarch models an editable scene of signed distance
// primitives: spheres and boxes placed by translate-rotate-scale
// transforms with per-object color, a cosmetic selection set and
// editor control points. Scenes pack into claybuf snapshots which the
// clayeval kernel and clayrender rasterizer consume.
package claymarch

import (
	"errors"
	"fmt"
	"slices"

	"claymarch/claybuf"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Scene is an ordered, editable collection of primitives. Packing
// order follows insertion order. Scenes are not safe for concurrent
// mutation; snapshots taken from them are immutable and are.
type Scene struct {
	prims     []Primitive
	selected  map[uint32]bool
	ctrl      []ms3.Vec
	nextID    uint32
	accumErrs []error
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{selected: make(map[uint32]bool), nextID: 1}
}

// Err returns the errors accumulated by scene edits joined together,
// or nil.
func (s *Scene) Err() error {
	if len(s.accumErrs) == 0 {
		return nil
	}
	return errors.Join(s.accumErrs...)
}

func (s *Scene) sceneErrorf(msg string, args ...any) {
	s.accumErrs = append(s.accumErrs, fmt.Errorf(msg, args...))
}

// AddSphere appends a sphere of radius r at the origin and returns its
// id. Invalid dimensions accumulate an error and add nothing.
func (s *Scene) AddSphere(r float32) uint32 {
	if r <= 0 {
		s.sceneErrorf("zero or negative sphere radius")
		return 0
	}
	return s.add(Primitive{Kind: claybuf.KindSphere, Params: ms3.Vec{X: r}})
}

// AddBox appends a box with the given half extents at the origin and
// returns its id. Invalid dimensions accumulate an error and add
// nothing.
func (s *Scene) AddBox(half ms3.Vec) uint32 {
	if half.X <= 0 || half.Y <= 0 || half.Z <= 0 {
		s.sceneErrorf("zero or negative box dimension")
		return 0
	}
	return s.add(Primitive{Kind: claybuf.KindBox, Params: half})
}

func (s *Scene) add(pr Primitive) uint32 {
	pr.ID = s.nextID
	s.nextID++
	if pr.Scale == (ms3.Vec{}) {
		pr.Scale = ms3.Vec{X: 1, Y: 1, Z: 1}
	}
	if pr.Color == (claybuf.RGBA{}) {
		pr.Color = claybuf.RGBA{R: 0.8, G: 0.8, B: 0.8, A: 1}
	}
	s.prims = append(s.prims, pr)
	return pr.ID
}

// Len returns the number of primitives in the scene.
func (s *Scene) Len() int { return len(s.prims) }

// At returns a copy of the primitive at packing position i.
func (s *Scene) At(i int) Primitive { return s.prims[i] }

// Primitive returns a copy of the primitive with the given id.
func (s *Scene) Primitive(id uint32) (Primitive, bool) {
	if i := s.index(id); i >= 0 {
		return s.prims[i], true
	}
	return Primitive{}, false
}

func (s *Scene) index(id uint32) int {
	for i := range s.prims {
		if s.prims[i].ID == id {
			return i
		}
	}
	return -1
}

// Remove deletes the primitive with the given id and reports whether
// it existed. Removed ids are never reused.
func (s *Scene) Remove(id uint32) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.prims = append(s.prims[:i], s.prims[i+1:]...)
	delete(s.selected, id)
	return true
}

// SetTranslation moves a primitive and reports whether the id exists.
func (s *Scene) SetTranslation(id uint32, t ms3.Vec) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.prims[i].Translation = t
	return true
}

// SetRotation sets a primitive's rotation as an angle in radians
// around an axis. A zero axis accumulates an error and changes
// nothing.
func (s *Scene) SetRotation(id uint32, radians float32, axis ms3.Vec) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	if radians != 0 && axis == (ms3.Vec{}) {
		s.sceneErrorf("null rotation axis")
		return false
	}
	s.prims[i].RotAngle = radians
	s.prims[i].RotAxis = axis
	return true
}

// SetScale sets a primitive's per-axis scale. Component magnitudes are
// clamped to the MinScale floor so interactive edits cannot collapse
// the transform into a degenerate matrix.
func (s *Scene) SetScale(id uint32, sc ms3.Vec) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.prims[i].Scale = ms3.Vec{
		X: clampScaleAxis(sc.X),
		Y: clampScaleAxis(sc.Y),
		Z: clampScaleAxis(sc.Z),
	}
	return true
}

func clampScaleAxis(v float32) float32 {
	if math32.Abs(v) >= claybuf.MinScale {
		return v
	}
	if v < 0 {
		return -claybuf.MinScale
	}
	return claybuf.MinScale
}

// SetColor recolors a primitive and reports whether the id exists.
func (s *Scene) SetColor(id uint32, c claybuf.RGBA) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.prims[i].Color = c
	return true
}

// SetParams replaces a primitive's shape parameter: radius in X for
// spheres, half extents for boxes. Invalid dimensions accumulate an
// error and change nothing.
func (s *Scene) SetParams(id uint32, params ms3.Vec) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	switch s.prims[i].Kind {
	case claybuf.KindSphere:
		if params.X <= 0 {
			s.sceneErrorf("zero or negative sphere radius")
			return false
		}
	case claybuf.KindBox:
		if params.X <= 0 || params.Y <= 0 || params.Z <= 0 {
			s.sceneErrorf("zero or negative box dimension")
			return false
		}
	}
	s.prims[i].Params = params
	return true
}

// Select marks a primitive as selected and reports whether the id
// exists. Selection only highlights; geometry is unaffected.
func (s *Scene) Select(id uint32) bool {
	if s.index(id) < 0 {
		return false
	}
	s.selected[id] = true
	return true
}

// Deselect unmarks a primitive.
func (s *Scene) Deselect(id uint32) {
	delete(s.selected, id)
}

// ClearSelection unmarks everything.
func (s *Scene) ClearSelection() {
	clear(s.selected)
}

// Selected reports whether the primitive with the given id is
// selected.
func (s *Scene) Selected(id uint32) bool {
	return s.selected[id]
}

// SelectedIDs returns the selected ids in ascending order.
func (s *Scene) SelectedIDs() []uint32 {
	ids := make([]uint32, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// SetControlPoints replaces the editor handle list drawn by the
// overlay stage.
func (s *Scene) SetControlPoints(pts []ms3.Vec) {
	s.ctrl = slices.Clone(pts)
}

// ControlPoints returns a copy of the editor handle list.
func (s *Scene) ControlPoints() []ms3.Vec {
	return slices.Clone(s.ctrl)
}

// SelectionHandles returns the world translations of the selected
// primitives in packing order, the default handle layout for grab
// gizmos.
func (s *Scene) SelectionHandles() []ms3.Vec {
	var pts []ms3.Vec
	for i := range s.prims {
		if s.selected[s.prims[i].ID] {
			pts = append(pts, s.prims[i].Translation)
		}
	}
	return pts
}

// Pack feeds the scene through pk in insertion order and returns the
// packed snapshot. Identical scene state packs to identical snapshots.
func (s *Scene) Pack(pk *claybuf.Packer) (*claybuf.Snapshot, error) {
	pk.Reset()
	for i := range s.prims {
		pr := &s.prims[i]
		pk.AddPrimitive(pr.Kind, pr.Color, pr.Transform(), pr.Params, s.selected[pr.ID])
	}
	for _, cp := range s.ctrl {
		pk.AddControlPoint(cp)
	}
	return pk.Snapshot()
}
