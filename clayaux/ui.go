package clayaux

import (
	"context"

	"claymarch"
)

// UIConfig parameterizes the interactive GLFW viewer.
type UIConfig struct {
	Width, Height int
	// Context cancels the viewer loop early when done.
	Context context.Context
}

// UI opens a window that sphere-traces the scene in a fragment shader
// with mouse orbit and zoom controls. Tab cycles the selected
// primitive, R repacks the scene after external edits. Blocks until
// the window closes. Requires cgo; builds without it return an
// explanatory error.
func UI(scene *claymarch.Scene, cfg UIConfig) error {
	if scene == nil {
		panic("nil scene")
	}
	if cfg.Width <= 0 {
		cfg.Width = 1000
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	return ui(scene, cfg)
}
