package clayaux

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"claymarch"
	"claymarch/claybuf"
	"claymarch/clayeval"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/geometry/ms3"
)

// HeatmapPNGFile renders a horizontal-axis slice of the scene's union
// distance field to a PNG file with said filename. The slice plane is
// normal to Z through the bounds center, padded by a third of the
// diagonal so the surrounding field is visible. Image width is sized
// automatically from the height to preserve the slice aspect ratio.
// A nil color conversion function selects the Inigo Quilez palette.
func HeatmapPNGFile(filename string, scene *claymarch.Scene, picHeight int, colorConversion func(float32) color.Color) error {
	if scene == nil {
		return errors.New("nil scene")
	} else if picHeight <= 0 {
		return errors.New("bad image height")
	}
	var pk claybuf.Packer
	snap, err := scene.Pack(&pk)
	if err != nil {
		return fmt.Errorf("packing scene: %w", err)
	}
	sdf := &clayeval.SceneSDF{Snap: snap}
	bb := sdf.Bounds()
	pad := bb.Diagonal() / 3
	if pad <= 0 {
		pad = 1
	}
	bb.Min = ms3.AddScalar(-pad, bb.Min)
	bb.Max = ms3.AddScalar(pad, bb.Max)
	if colorConversion == nil {
		colorConversion = ColorConversionInigoQuilez(bb.Diagonal() / 3)
	}
	sz := bb.Size()
	pixPerUnit := float64(picHeight) / float64(sz.Y)
	picWidth := int(pixPerUnit * float64(sz.X))
	img := image.NewRGBA(image.Rect(0, 0, picWidth, picHeight))

	z := bb.Center().Z
	dx := sz.X / float32(picWidth)
	dy := sz.Y / float32(picHeight)
	pos := make([]ms3.Vec, picWidth)
	dist := make([]float32, picWidth)
	// Rows run top down, world Y runs up.
	for j := 0; j < picHeight; j++ {
		y := bb.Max.Y - (float32(j)+0.5)*dy
		for i := 0; i < picWidth; i++ {
			pos[i] = ms3.Vec{X: bb.Min.X + (float32(i)+0.5)*dx, Y: y, Z: z}
		}
		err = sdf.Evaluate(pos, dist, nil)
		if err != nil {
			return err
		}
		for i := 0; i < picWidth; i++ {
			img.Set(i, j, colorConversion(dist[i]))
		}
	}
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = png.Encode(fp, img)
	if err != nil {
		return err
	}
	return fp.Sync()
}

var red = color.RGBA{R: 255, A: 255}

// ColorConversionInigoQuilez creates a new color conversion using [Inigo Quilez]'s style.
// A good value for characteristic distance is the bounding box diagonal divided by 3. Returns red for NaN values.
//
// [Inigo Quilez]: https://iquilezles.org/articles/distfunctions2d/
func ColorConversionInigoQuilez(characteristicDistance float32) func(float32) color.Color {
	inv := 1. / characteristicDistance
	return func(d float32) color.Color {
		if math.IsNaN(d) {
			return red
		}
		d *= inv
		var one = ms3.Vec{X: 1, Y: 1, Z: 1}
		var c ms3.Vec
		if d > 0 {
			c = ms3.Vec{X: 0.9, Y: 0.6, Z: 0.3}
		} else {
			c = ms3.Vec{X: 0.65, Y: 0.85, Z: 1.0}
		}
		c = ms3.Scale(1-math.Exp(-6*math.Abs(d)), c)
		c = ms3.Scale(0.8+0.2*math.Cos(150*d), c)
		max := 1 - ms1.SmoothStep(0, 0.01, math.Abs(d))
		c = ms3.InterpElem(c, one, ms3.Vec{X: max, Y: max, Z: max})
		return color.RGBA{
			R: uint8(c.X * 255),
			G: uint8(c.Y * 255),
			B: uint8(c.Z * 255),
			A: 255,
		}
	}
}
