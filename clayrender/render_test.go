package clayrender_test

import (
	"image"
	"testing"

	"claymarch/claybuf"
	"claymarch/clayeval"
	"claymarch/clayrender"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

func sphereSnapshot(t *testing.T) *claybuf.Snapshot {
	t.Helper()
	var pk claybuf.Packer
	pk.AddSphere(0.2, claybuf.RGBA{R: 1, A: 1}, ms3.TranslatingMat4(ms3.Vec{}), false)
	snap, err := pk.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func frontCamera() clayrender.Camera {
	return clayrender.Camera{Dist: 5}
}

func TestCameraPosition(t *testing.T) {
	cam := frontCamera()
	// Zero yaw and pitch puts the eye on the negative Z side of the
	// target, looking along positive Z.
	pos := cam.Position()
	want := ms3.Vec{Z: -5}
	if d := ms3.Norm(ms3.Sub(pos, want)); d > 1e-6 {
		t.Errorf("camera position %v, want %v", pos, want)
	}
	right, up, fwd := cam.Basis()
	for name, v := range map[string]ms3.Vec{"right": right, "up": up, "forward": fwd} {
		if d := math32.Abs(ms3.Norm(v) - 1); d > 1e-6 {
			t.Errorf("%s basis vector %v not unit", name, v)
		}
	}
	if d := math32.Abs(ms3.Dot(right, up)); d > 1e-6 {
		t.Error("basis not orthogonal")
	}
	if d := ms3.Norm(ms3.Sub(fwd, ms3.Vec{Z: 1})); d > 1e-6 {
		t.Errorf("forward %v, want +Z", fwd)
	}
}

func TestCameraProxyCenter(t *testing.T) {
	cam := frontCamera()
	// An odd-sized frame has a pixel centered exactly on the axis.
	proxy := cam.Proxy(4, 4, 9, 9)
	_, _, fwd := cam.Basis()
	want := ms3.Add(cam.Position(), ms3.Scale(1.5, fwd))
	if d := ms3.Norm(ms3.Sub(proxy, want)); d > 1e-6 {
		t.Errorf("center proxy %v, want on-axis image plane point %v", proxy, want)
	}
}

func TestCameraAutoFrame(t *testing.T) {
	var cam clayrender.Camera
	bb := ms3.Box{Min: ms3.Vec{X: -1, Y: -1, Z: -1}, Max: ms3.Vec{X: 1, Y: 1, Z: 1}}
	cam.AutoFrame(bb)
	if cam.Target != (ms3.Vec{}) {
		t.Errorf("target %v, want bounds center", cam.Target)
	}
	if d := math32.Abs(cam.Dist - bb.Diagonal()); d > 1e-6 {
		t.Errorf("distance %v, want diagonal %v", cam.Dist, bb.Diagonal())
	}
	cam.AutoFrame(ms3.Box{})
	if cam.Dist <= 0 {
		t.Error("degenerate bounds must keep a positive distance")
	}
}

func TestRenderSilhouette(t *testing.T) {
	snap := sphereSnapshot(t)
	r := clayrender.Renderer{
		Lighting: clayeval.DefaultLighting(),
		Overlay:  clayeval.DefaultOverlay(),
	}
	img := image.NewRGBA(image.Rect(0, 0, 33, 33))
	err := r.Render(snap, frontCamera(), img)
	if err != nil {
		t.Fatal(err)
	}
	// Center pixel hits the sphere and shades opaque reddish.
	center := img.RGBAAt(16, 16)
	if center.A == 0 {
		t.Fatal("center pixel transparent, want sphere hit")
	}
	if center.R <= center.G {
		t.Errorf("center pixel %+v, want dominant red", center)
	}
	// Corner pixels miss and stay transparent over the zero background.
	for _, at := range [][2]int{{0, 0}, {32, 0}, {0, 32}, {32, 32}} {
		c := img.RGBAAt(at[0], at[1])
		if c.A != 0 {
			t.Errorf("corner %v pixel %+v, want transparent", at, c)
		}
	}
}

func TestRenderWorkerDeterminism(t *testing.T) {
	snap := sphereSnapshot(t)
	render := func(workers int) *image.RGBA {
		r := clayrender.Renderer{
			Lighting: clayeval.DefaultLighting(),
			Overlay:  clayeval.DefaultOverlay(),
			Workers:  workers,
		}
		img := image.NewRGBA(image.Rect(0, 0, 32, 24))
		if err := r.Render(snap, frontCamera(), img); err != nil {
			t.Fatal(err)
		}
		return img
	}
	a, b := render(1), render(4)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel data diverges at byte %d with different worker counts", i)
		}
	}
}

func TestRenderSupersampleAndBackground(t *testing.T) {
	snap := sphereSnapshot(t)
	r := clayrender.Renderer{
		Lighting:    clayeval.DefaultLighting(),
		Overlay:     clayeval.DefaultOverlay(),
		Background:  claybuf.RGBA{R: 0, G: 0, B: 1, A: 1},
		Supersample: 2,
	}
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	err := r.Render(snap, frontCamera(), img)
	if err != nil {
		t.Fatal(err)
	}
	// Miss pixels take the opaque background.
	c := img.RGBAAt(0, 0)
	if c.A != 255 || c.B < 200 {
		t.Errorf("corner pixel %+v, want blue background", c)
	}
}

func TestRenderOverlayMarker(t *testing.T) {
	var pk claybuf.Packer
	pk.AddControlPoint(ms3.Vec{})
	snap, err := pk.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	r := clayrender.Renderer{Overlay: clayeval.DefaultOverlay()}
	img := image.NewRGBA(image.Rect(0, 0, 33, 33))
	err = r.Render(snap, frontCamera(), img)
	if err != nil {
		t.Fatal(err)
	}
	// The control point projects to the frame center as a filled disc.
	c := img.RGBAAt(16, 16)
	if c.A == 0 || c.R < 200 {
		t.Errorf("center pixel %+v, want overlay fill", c)
	}
	if c := img.RGBAAt(0, 0); c.A != 0 {
		t.Errorf("corner pixel %+v, want untouched", c)
	}
}

func TestRenderErrors(t *testing.T) {
	var r clayrender.Renderer
	if err := r.Render(nil, frontCamera(), image.NewRGBA(image.Rect(0, 0, 4, 4))); err == nil {
		t.Error("want error for nil snapshot")
	}
	snap := sphereSnapshot(t)
	if err := r.Render(snap, frontCamera(), nil); err == nil {
		t.Error("want error for nil image")
	}
	if err := r.Render(snap, frontCamera(), image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("want error for empty image")
	}
}
