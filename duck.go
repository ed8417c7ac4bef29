package claymarch

import (
	"claymarch/claybuf"

	"github.com/soypat/geometry/ms3"
)

// DuckScene returns the built-in demo scene: a duck sculpted from
// seven scaled spheres floating beside three boxes.
func DuckScene() *Scene {
	s := NewScene()
	sphere := func(t, sc ms3.Vec, c claybuf.RGBA) {
		id := s.AddSphere(0.2)
		s.SetTranslation(id, t)
		s.SetScale(id, sc)
		s.SetColor(id, c)
	}
	box := func(t ms3.Vec, sc float32, c claybuf.RGBA) {
		id := s.AddBox(ms3.Vec{X: 0.3, Y: 0.3, Z: 0.3})
		s.SetTranslation(id, t)
		s.SetScale(id, ms3.Vec{X: sc, Y: sc, Z: sc})
		s.SetColor(id, c)
	}
	var (
		feathers = claybuf.RGBA{R: 0.9607843, G: 0.47058824, B: 0, A: 1}
		beak     = claybuf.RGBA{R: 0.96862745, G: 0.09019608, B: 0.003921569, A: 1}
		eye      = claybuf.RGBA{R: 0.99215686, G: 0.98039216, B: 1, A: 1}
		pupil    = claybuf.RGBA{R: 0.22745098, G: 0.3019608, B: 0.9882353, A: 1}
		block    = claybuf.RGBA{R: 0.8, G: 0, B: 0.3, A: 1}
	)
	// Body and head.
	sphere(ms3.Vec{X: -0.039564557, Y: -0.05530733, Z: 0.0039417893}, ms3.Vec{X: 2.9846828, Y: 2.0542152, Z: 2.0542152}, feathers)
	sphere(ms3.Vec{X: -0.4358579, Y: 0.33660573, Z: 0.018686771}, ms3.Vec{X: 1.0200547, Y: 1.1013157, Z: 1.2369081}, feathers)
	// Beak.
	sphere(ms3.Vec{X: -0.67697287, Y: 0.29824245, Z: 0.029914975}, ms3.Vec{X: 0.6127368, Y: 0.29784858, Z: 0.68878657}, beak)
	// Eyes, then pupils.
	sphere(ms3.Vec{X: -0.5857675, Y: 0.38067508, Z: -0.06614481}, ms3.Vec{X: 0.34238243, Y: 0.42364347, Z: 0.38934505}, eye)
	sphere(ms3.Vec{X: -0.5863435, Y: 0.38714525, Z: 0.10365233}, ms3.Vec{X: 0.34238243, Y: 0.42364347, Z: 0.38934505}, eye)
	sphere(ms3.Vec{X: -0.6537031, Y: 0.37902522, Z: -0.07645878}, ms3.Vec{X: 0.12807572, Y: 0.20933676, Z: 0.17503834}, pupil)
	sphere(ms3.Vec{X: -0.662081, Y: 0.38266537, Z: 0.09888915}, ms3.Vec{X: 0.12807572, Y: 0.20933676, Z: 0.17503834}, pupil)
	// Scenery blocks.
	box(ms3.Vec{X: -0.53114486, Y: 0.13603073, Z: -0.51351607}, 0.655612, block)
	box(ms3.Vec{X: 0.4031095, Y: 0.30512357, Z: -0.37686935}, 1.04097, block)
	box(ms3.Vec{X: 0.56811357, Y: 0.0916934, Z: 0.38035285}, 0.5556836, block)
	return s
}
