//go:build tinygo || !cgo

package clayaux

import (
	"errors"

	"claymarch"
)

func ui(scene *claymarch.Scene, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
