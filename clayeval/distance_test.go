package clayeval_test

import (
	"math/rand"
	"testing"

	"claymarch/claybuf"
	"claymarch/clayeval"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

func translating(x, y, z float32) ms3.Mat4 {
	return ms3.TranslatingMat4(ms3.Vec{X: x, Y: y, Z: z})
}

func mustSnapshot(t *testing.T, pack func(*claybuf.Packer)) *claybuf.Snapshot {
	t.Helper()
	var pk claybuf.Packer
	pack(&pk)
	snap, err := pk.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestSphereDistance(t *testing.T) {
	const r = 0.2
	if d := clayeval.Sphere(ms3.Vec{X: r}, r); math32.Abs(d) > 1e-3 {
		t.Errorf("boundary distance %v, want ~0", d)
	}
	if d := clayeval.Sphere(ms3.Vec{}, r); math32.Abs(d+r) > 1e-6 {
		t.Errorf("center distance %v, want %v", d, -r)
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 64; i++ {
		p := ms3.Vec{
			X: rng.Float32()*4 - 2,
			Y: rng.Float32()*4 - 2,
			Z: rng.Float32()*4 - 2,
		}
		want := ms3.Norm(p) - r
		if got := clayeval.Sphere(p, r); math32.Abs(got-want) > 1e-6 {
			t.Fatalf("sphere distance at %v = %v, want %v", p, got, want)
		}
	}
}

func TestBoxDistance(t *testing.T) {
	half := ms3.Vec{X: 1, Y: 2, Z: 3}
	for _, tc := range []struct {
		p    ms3.Vec
		want float32
	}{
		{p: ms3.Vec{X: 2}, want: 1},                           // face
		{p: ms3.Vec{X: 2, Y: 3}, want: math32.Sqrt2},          // edge
		{p: ms3.Vec{X: 2, Y: 3, Z: 4}, want: math32.Sqrt(3)},  // corner
		{p: ms3.Vec{X: 1}, want: 0},                           // on surface
		{p: ms3.Vec{}, want: -1},                              // center, nearest face
		{p: ms3.Vec{X: 0.5, Y: 1.5, Z: -2.5}, want: -0.5},     // interior
		{p: ms3.Vec{X: -3, Y: 0, Z: 0}, want: 2},              // negative side
	} {
		if got := clayeval.Box(tc.p, half); math32.Abs(got-tc.want) > 1e-6 {
			t.Errorf("box distance at %v = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestSceneDistUnion(t *testing.T) {
	snap := mustSnapshot(t, func(pk *claybuf.Packer) {
		pk.AddSphere(0.5, claybuf.RGBA{R: 1, A: 1}, translating(2, 0, 0), false)
		pk.AddSphere(0.5, claybuf.RGBA{B: 1, A: 1}, translating(-2, 0, 0), false)
	})
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 128; i++ {
		p := ms3.Vec{
			X: rng.Float32()*8 - 4,
			Y: rng.Float32()*8 - 4,
			Z: rng.Float32()*8 - 4,
		}
		d0 := clayeval.SlotDist(snap, 0, p)
		d1 := clayeval.SlotDist(snap, 1, p)
		want := math32.Min(d0, d1)
		got, closest := clayeval.SceneDist(snap, p)
		if math32.Abs(got-want) > 1e-6 {
			t.Fatalf("union distance at %v = %v, want min(%v, %v)", p, got, d0, d1)
		}
		wantClosest := 0
		if math32.Abs(d1) < math32.Abs(d0) {
			wantClosest = 1
		}
		if closest != wantClosest {
			t.Fatalf("closest slot at %v = %d, want %d", p, closest, wantClosest)
		}
	}
}

func TestSceneDistEmpty(t *testing.T) {
	snap := mustSnapshot(t, func(pk *claybuf.Packer) {})
	d, closest := clayeval.SceneDist(snap, ms3.Vec{X: 1, Y: 2, Z: 3})
	if d < claybuf.FarDist {
		t.Errorf("empty scene distance %v, want huge", d)
	}
	if closest != -1 {
		t.Errorf("empty scene closest %d, want -1", closest)
	}
}

func TestSceneDistFullCapacityNoSentinel(t *testing.T) {
	// A snapshot at exactly MaxPrimitives has no End slot; the walk
	// must stop at the capacity bound instead.
	snap := mustSnapshot(t, func(pk *claybuf.Packer) {
		for i := 0; i < claybuf.MaxPrimitives; i++ {
			pk.AddSphere(0.1, claybuf.RGBA{A: 1}, translating(float32(i), 0, 0), false)
		}
	})
	if snap.Count != claybuf.MaxPrimitives {
		t.Fatalf("count %d, want full capacity", snap.Count)
	}
	d, closest := clayeval.SceneDist(snap, ms3.Vec{X: float32(claybuf.MaxPrimitives - 1)})
	if math32.Abs(d+0.1) > 1e-4 {
		t.Errorf("distance at last slot center = %v, want -0.1", d)
	}
	if closest != claybuf.MaxPrimitives-1 {
		t.Errorf("closest %d, want last slot", closest)
	}
}

func TestSceneDistTieBreak(t *testing.T) {
	// Identical overlapping spheres: strict less keeps the lowest slot.
	snap := mustSnapshot(t, func(pk *claybuf.Packer) {
		pk.AddSphere(0.5, claybuf.RGBA{R: 1, A: 1}, translating(0, 0, 0), false)
		pk.AddSphere(0.5, claybuf.RGBA{B: 1, A: 1}, translating(0, 0, 0), false)
	})
	_, closest := clayeval.SceneDist(snap, ms3.Vec{X: 1})
	if closest != 0 {
		t.Errorf("tied distances picked slot %d, want 0", closest)
	}
}

func TestSlotDistUniformScaleExact(t *testing.T) {
	snap := mustSnapshot(t, func(pk *claybuf.Packer) {
		pk.AddSphere(0.2, claybuf.RGBA{A: 1}, ms3.ScalingMat4(ms3.Vec{X: 2, Y: 2, Z: 2}), false)
	})
	// Scaled sphere has world radius 0.4.
	if d := clayeval.SlotDist(snap, 0, ms3.Vec{X: 0.8}); math32.Abs(d-0.4) > 1e-6 {
		t.Errorf("scaled sphere distance %v, want 0.4", d)
	}
	if d := clayeval.SlotDist(snap, 0, ms3.Vec{X: 0.4}); math32.Abs(d) > 1e-6 {
		t.Errorf("scaled sphere boundary distance %v, want 0", d)
	}
}

func TestSlotDistNonUniformScaleConservative(t *testing.T) {
	snap := mustSnapshot(t, func(pk *claybuf.Packer) {
		pk.AddSphere(1, claybuf.RGBA{A: 1}, ms3.ScalingMat4(ms3.Vec{X: 1, Y: 3, Z: 1}), false)
	})
	// Brute force the true distance from densely sampled surface points.
	const n = 256
	surface := make([]ms3.Vec, 0, n*n/4)
	for i := 0; i < n; i++ {
		theta := math32.Pi * float32(i) / n
		for j := 0; j < n; j++ {
			phi := 2 * math32.Pi * float32(j) / n
			st, ct := math32.Sincos(theta)
			sp, cp := math32.Sincos(phi)
			surface = append(surface, ms3.Vec{X: st * cp, Y: 3 * ct, Z: st * sp})
		}
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 32; i++ {
		p := ms3.Vec{
			X: rng.Float32()*8 - 4,
			Y: rng.Float32()*8 - 4,
			Z: rng.Float32()*8 - 4,
		}
		truth := float32(math32.MaxFloat32)
		for _, s := range surface {
			truth = math32.Min(truth, ms3.Norm(ms3.Sub(p, s)))
		}
		got := clayeval.SlotDist(snap, 0, p)
		if got > truth+1e-2 {
			t.Fatalf("corrected distance %v overestimates true distance %v at %v", got, truth, p)
		}
	}
}

func TestSlotDistUnknownKindHuge(t *testing.T) {
	snap := mustSnapshot(t, func(pk *claybuf.Packer) {
		pk.AddSphere(0.2, claybuf.RGBA{A: 1}, translating(0, 0, 0), false)
	})
	snap.Meta[0].Kind = claybuf.Kind(9) // corrupt the buffer
	if d := clayeval.SlotDist(snap, 0, ms3.Vec{}); d < claybuf.FarDist {
		t.Errorf("corrupt kind distance %v, want huge", d)
	}
}

func TestSceneSDFEvaluate(t *testing.T) {
	snap := mustSnapshot(t, func(pk *claybuf.Packer) {
		pk.AddSphere(0.2, claybuf.RGBA{A: 1}, translating(0, 0, 0), false)
	})
	sdf := &clayeval.SceneSDF{Snap: snap}
	pos := []ms3.Vec{{X: 0.2}, {X: 1}, {}}
	dist := make([]float32, len(pos))
	err := sdf.Evaluate(pos, dist, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float32{0, 0.8, -0.2} {
		if math32.Abs(dist[i]-want) > 1e-6 {
			t.Errorf("dist[%d] = %v, want %v", i, dist[i], want)
		}
	}
	if err := sdf.Evaluate(pos, dist[:1], nil); err == nil {
		t.Error("want length mismatch error")
	}
	if err := sdf.Evaluate(nil, nil, nil); err == nil {
		t.Error("want empty buffer error")
	}
	if bb := sdf.Bounds(); bb != snap.Bounds {
		t.Error("Bounds does not match snapshot bounds")
	}
}
