package clayaux

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// StampLabel draws label into the bottom left corner of img with a
// one pixel drop shadow for contrast on any background. fontPath names
// a TTF file; when empty a builtin bitmap face is used.
func StampLabel(img draw.Image, label string, fontPath string) error {
	face, err := labelFace(fontPath)
	if err != nil {
		return err
	}
	b := img.Bounds()
	dot := fixed.P(b.Min.X+8, b.Max.Y-8)
	shadow := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  dot.Add(fixed.P(1, 1)),
	}
	shadow.DrawString(label)
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  dot,
	}
	d.DrawString(label)
	return nil
}

func labelFace(fontPath string) (font.Face, error) {
	if fontPath == "" {
		return basicfont.Face7x13, nil
	}
	ttfData, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	ttf, err := truetype.Parse(ttfData)
	if err != nil {
		return nil, fmt.Errorf("parsing font %q: %w", fontPath, err)
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: 14}), nil
}
