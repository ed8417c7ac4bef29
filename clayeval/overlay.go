package clayeval

import (
	"claymarch/claybuf"

	"github.com/soypat/geometry/ms3"
)

// Overlay draws editor control points as screen-facing discs with a
// border ring. Disc radii are proportional to each point's camera
// distance so handles keep a constant apparent size on screen.
type Overlay struct {
	Fill   claybuf.RGBA
	Border claybuf.RGBA
	// InnerRadius and OuterRadius are world units per unit of camera
	// distance. Offsets below inner draw the fill, below outer the
	// border.
	InnerRadius float32
	OuterRadius float32
}

// DefaultOverlay is a white handle with a dark ring.
func DefaultOverlay() Overlay {
	return Overlay{
		Fill:        claybuf.RGBA{R: 1, G: 1, B: 1, A: 0.9},
		Border:      claybuf.RGBA{R: 0.05, G: 0.05, B: 0.05, A: 0.9},
		InnerRadius: 0.012,
		OuterRadius: 0.02,
	}
}

// Sample accumulates the overlay color of all control points along the
// unit ray dir from camPos: the ray is walked to each point's camera
// distance and the planar offset there picks fill, border or nothing.
// Overlapping points add and channels clamp to 1.
func (o Overlay) Sample(snap *claybuf.Snapshot, camPos, dir ms3.Vec) claybuf.RGBA {
	var acc claybuf.RGBA
	for i := 0; i < snap.CtrlCount; i++ {
		cp := snap.Ctrl[i]
		dcam := ms3.Norm(ms3.Sub(cp, camPos))
		if dcam == 0 {
			continue
		}
		at := ms3.Add(camPos, ms3.Scale(dcam, dir))
		off := ms3.Norm(ms3.Sub(at, cp))
		switch {
		case off < o.InnerRadius*dcam:
			acc = addRGBA(acc, o.Fill)
		case off < o.OuterRadius*dcam:
			acc = addRGBA(acc, o.Border)
		}
	}
	return clampRGBA(acc)
}

// Composite lays over on top of base with straight-alpha over: a zero
// alpha overlay leaves base untouched, a solid one replaces it.
func Composite(base, over claybuf.RGBA) claybuf.RGBA {
	ia := 1 - over.A
	return claybuf.RGBA{
		R: over.R*over.A + base.R*ia,
		G: over.G*over.A + base.G*ia,
		B: over.B*over.A + base.B*ia,
		A: over.A + base.A*ia,
	}
}

func addRGBA(a, b claybuf.RGBA) claybuf.RGBA {
	return claybuf.RGBA{R: a.R + b.R, G: a.G + b.G, B: a.B + b.B, A: a.A + b.A}
}

func clampRGBA(c claybuf.RGBA) claybuf.RGBA {
	return claybuf.RGBA{
		R: clampf(c.R, 0, 1),
		G: clampf(c.G, 0, 1),
		B: clampf(c.B, 0, 1),
		A: clampf(c.A, 0, 1),
	}
}
