package clayrender

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"runtime"
	"sync"

	"claymarch/claybuf"
	"claymarch/clayeval"

	"github.com/anthonynsimon/bild/transform"
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Renderer rasterizes snapshots by marching one ray per pixel center,
// shading hits and compositing the control point overlay on top.
type Renderer struct {
	Lighting clayeval.Lighting
	Overlay  clayeval.Overlay
	// Background is composited under the shaded scene. A zero alpha
	// background keeps miss pixels transparent.
	Background claybuf.RGBA
	// Supersample above 1 renders at an integer multiple of the target
	// size and downscales linearly.
	Supersample int
	// Gamma applies the viewer's square root gamma before quantizing.
	Gamma bool
	// Workers caps the row-parallel worker count. Zero means one per
	// CPU. Pixel values are identical for any worker count.
	Workers int
}

var (
	errNilSnapshot = errors.New("nil snapshot")
	errEmptyImage  = errors.New("empty render target")
)

// Render fills img with the snapshot as seen from cam.
func (r *Renderer) Render(snap *claybuf.Snapshot, cam Camera, img *image.RGBA) error {
	if snap == nil {
		return errNilSnapshot
	} else if img == nil {
		return errEmptyImage
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return errEmptyImage
	}
	if r.Supersample < 2 {
		r.renderInto(snap, cam, img)
		return nil
	}
	big := image.NewRGBA(image.Rect(0, 0, w*r.Supersample, h*r.Supersample))
	r.renderInto(snap, cam, big)
	small := transform.Resize(big, w, h, transform.Linear)
	draw.Draw(img, b, small, image.Point{}, draw.Src)
	return nil
}

func (r *Renderer) renderInto(snap *claybuf.Snapshot, cam Camera, img *image.RGBA) {
	h := img.Bounds().Dy()
	pos := cam.Position()
	uu, vv, ww := cam.Basis()
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > h {
		workers = h
	}
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for wk := 0; wk < workers; wk++ {
		wid := wk
		go func() {
			defer wg.Done()
			for y := wid; y < h; y += workers {
				r.renderRow(snap, cam, pos, uu, vv, ww, img, y)
			}
		}()
	}
	wg.Wait()
}

func (r *Renderer) renderRow(snap *claybuf.Snapshot, cam Camera, pos, uu, vv, ww ms3.Vec, img *image.RGBA, y int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for x := 0; x < w; x++ {
		proxy := cam.proxyAt(pos, uu, vv, ww, x, y, w, h)
		res := clayeval.MarchRay(snap, pos, proxy)
		col := r.Lighting.Shade(snap, res)
		col = clayeval.Composite(r.Background, col)
		col = clayeval.Composite(col, r.Overlay.Sample(snap, pos, res.Dir))
		if r.Gamma {
			col.R = math32.Sqrt(col.R)
			col.G = math32.Sqrt(col.G)
			col.B = math32.Sqrt(col.B)
		}
		img.SetRGBA(b.Min.X+x, b.Min.Y+y, color.RGBA{
			R: c8(col.R),
			G: c8(col.G),
			B: c8(col.B),
			A: c8(col.A),
		})
	}
}

func c8(v float32) uint8 {
	if v <= 0 {
		return 0
	} else if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
