// Package clayaux aids users in getting set up with claymarch quickly:
// one-call PNG rendering of a scene, distance-field heatmap slices,
// HUD label stamping, YAML render configuration and an interactive
// GLFW viewer. Ideally users wire the lower level packages themselves
// since applications vary widely.
package clayaux

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"claymarch"
	"claymarch/claybuf"
	"claymarch/clayeval"
	"claymarch/clayrender"
)

// RenderConfig parameterizes [Render] and [RenderPNGFile].
type RenderConfig struct {
	Width, Height int
	// Supersample above 1 renders at a multiple of Width x Height and
	// downscales.
	Supersample int
	// Gamma applies the viewer's square root gamma.
	Gamma bool
	// Background is composited under miss pixels. Zero alpha keeps
	// misses transparent.
	Background claybuf.RGBA
	// Camera overrides the auto-framed orbit camera when non-nil.
	Camera *clayrender.Camera
	// Label is stamped onto the bottom left corner when non-empty,
	// using the TTF at FontPath or a builtin bitmap face.
	Label    string
	FontPath string
	Silent   bool
}

// Render packs the scene, frames a camera around its bounds and
// marches every pixel into a new image.
func Render(scene *claymarch.Scene, cfg RenderConfig) (*image.RGBA, error) {
	if scene == nil {
		return nil, errors.New("nil scene")
	} else if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("bad image dimensions")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	var pk claybuf.Packer
	watch := stopwatch()
	snap, err := scene.Pack(&pk)
	if err != nil {
		return nil, fmt.Errorf("packing scene: %w", err)
	}
	log("packed", snap.Count, "primitives in", watch())

	var cam clayrender.Camera
	if cfg.Camera != nil {
		cam = *cfg.Camera
	} else {
		cam = clayrender.Camera{Yaw: 0.6, Pitch: -0.4}
		cam.AutoFrame(snap.Bounds)
	}
	r := clayrender.Renderer{
		Lighting:    clayeval.DefaultLighting(),
		Overlay:     clayeval.DefaultOverlay(),
		Background:  cfg.Background,
		Supersample: cfg.Supersample,
		Gamma:       cfg.Gamma,
	}
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	watch = stopwatch()
	err = r.Render(snap, cam, img)
	if err != nil {
		return nil, err
	}
	log("marched", cfg.Width*cfg.Height, "pixels in", watch())
	if cfg.Label != "" {
		err = StampLabel(img, cfg.Label, cfg.FontPath)
		if err != nil {
			return nil, fmt.Errorf("stamping label: %w", err)
		}
	}
	return img, nil
}

// RenderPNGFile renders the scene and saves the result to a PNG file
// with said filename.
func RenderPNGFile(filename string, scene *claymarch.Scene, cfg RenderConfig) error {
	img, err := Render(scene, cfg)
	if err != nil {
		return err
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
	err = fp.Sync()
	if err != nil {
		return err
	}
	if !cfg.Silent {
		fmt.Println("wrote", filename)
	}
	return nil
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
