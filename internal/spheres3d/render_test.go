package spheres3d

import (
	"math"
	"strings"
	"testing"
)

func testCamera(res int) *RendererSpec {
	return &RendererSpec{
		Resolution:   res,
		ViewportSize: 6,
		Eye:          Vector3{0, 0, -8},
		ProjPlaneU:   Vector3{1, 0, 0},
		ProjPlaneV:   Vector3{0, 1, 0},
		Lights: []Light{
			{Pos: Vector3{0, 20, -20}, Intensity: Color{1, 1, 1}},
			{Pos: Vector3{-10, 0, -5}, Intensity: Color{0.4, 0.3, 0.9}},
		},
	}
}

var renderers = []struct {
	name string
	new  func(*RendererSpec) Renderer
}{
	{"reference", NewReferenceRenderer},
	{"optimized", NewOptimizedRenderer},
}

func diffCount(a, b []float32) (int, float64) {
	n, worst := 0, 0.0
	for i := range a {
		if a[i] != b[i] {
			n++
			worst = math.Max(worst, math.Abs(float64(a[i]-b[i])))
		}
	}
	return n, worst
}

func TestOptimizedRendererMatchesReference(t *testing.T) {
	cam := testCamera(96)
	ref := NewReferenceRenderer(cam)
	opt := NewOptimizedRenderer(cam)
	defer ref.Close()
	defer opt.Close()
	sim := NewReferenceSimulator(crowd(30, 3))
	defer sim.Close()
	for f := 0; f < 3; f++ {
		spheres := sim.Simulate()
		want := ref.Render(spheres)
		got := opt.Render(spheres)
		if n, worst := diffCount(want, got); n != 0 {
			t.Fatalf("frame %d: %d floats differ, worst %g", f, n, worst)
		}
	}
}

func TestOptimizedRendererEdgeCases(t *testing.T) {
	cases := []struct {
		name    string
		spheres []Sphere
	}{
		{"eye inside", []Sphere{{Pos: Vector3{0, 0, -8}, R: 3, Mass: 1, Mat: Material{Diffuse: Color{1, 1, 1}}}}},
		{"straddles the eye plane", []Sphere{{Pos: Vector3{4, 0, -8.5}, R: 2, Mass: 1, Mat: Material{Diffuse: Color{1, 0, 0}}}}},
		{"behind the eye", []Sphere{{Pos: Vector3{0, 0, -20}, R: 1, Mass: 1, Mat: Material{Diffuse: Color{1, 1, 1}}}}},
		{"between eye and plane", []Sphere{{Pos: Vector3{0.5, -0.5, -4}, R: 1, Mass: 1, Mat: Material{Diffuse: Color{0, 1, 0}}}}},
		{"off screen", []Sphere{{Pos: Vector3{100, 0, 5}, R: 1, Mass: 1, Mat: Material{Diffuse: Color{1, 1, 1}}}}},
		{"large and near", []Sphere{{Pos: Vector3{1, 1, -3}, R: 4, Mass: 1, Mat: Material{Diffuse: Color{1, 1, 0}}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cam := testCamera(48)
			ref := NewReferenceRenderer(cam)
			opt := NewOptimizedRenderer(cam)
			if n, worst := diffCount(ref.Render(c.spheres), opt.Render(c.spheres)); n != 0 {
				t.Fatalf("%d floats differ, worst %g", n, worst)
			}
		})
	}
}

func TestRenderDeterministic(t *testing.T) {
	spheres := crowd(20, 5).Spheres
	for _, r := range renderers {
		t.Run(r.name, func(t *testing.T) {
			ren := r.new(testCamera(64))
			defer ren.Close()
			first := append([]float32(nil), ren.Render(spheres)...)
			// A different population in between must not leak into the next render.
			moved := append([]Sphere(nil), spheres...)
			for i := range moved {
				moved[i].Pos.X += 0.7
			}
			ren.Render(moved)
			if n, _ := diffCount(first, ren.Render(spheres)); n != 0 {
				t.Fatalf("%d floats differ between identical renders", n)
			}
		})
	}
}

func TestRenderNoSpheresIsBlack(t *testing.T) {
	for _, r := range renderers {
		ren := r.new(testCamera(16))
		img := ren.Render(nil)
		if len(img) != 3*16*16 {
			t.Fatalf("%s: image has %d floats", r.name, len(img))
		}
		for i, v := range img {
			if v != 0 {
				t.Fatalf("%s: float %d = %v, want black", r.name, i, v)
			}
		}
		ren.Close()
	}
}

func TestRenderShadesCentre(t *testing.T) {
	cam := testCamera(32)
	cam.Lights = []Light{{Pos: Vector3{0, 0, -100}, Intensity: Color{2, 0.5, 1}}}
	s := []Sphere{{Pos: Vector3{0, 0, 10}, R: 3, Mass: 1, Mat: Material{Diffuse: Color{1, 1, 0.5}}}}
	for _, r := range renderers {
		img := r.new(cam).Render(s)
		at := pixelIndex(16, 16, 32)
		// The centre ray hits head on, so cos θ is ~1; red saturates at 1.
		if img[at+ChR] != 1 || !almostEq(float64(img[at+ChG]), 0.5, 1e-3) || !almostEq(float64(img[at+ChB]), 0.5, 1e-3) {
			t.Fatalf("%s: centre pixel %v", r.name, img[at:at+3])
		}
		if corner := img[0:3]; corner[0] != 0 || corner[1] != 0 || corner[2] != 0 {
			t.Fatalf("%s: corner pixel %v should be black", r.name, corner)
		}
	}
}

func TestOcclusionOrder(t *testing.T) {
	eye := Vector3{}
	spheres := []Sphere{
		{Pos: Vector3{0, 0, 10}, R: 1, Mat: Material{Reflection: 0}},
		{Pos: Vector3{0, 0, 5}, R: 1, Mat: Material{Reflection: 1}},
		{Pos: Vector3{0, 0, 10}, R: 1, Mat: Material{Reflection: 2}},
		{Pos: Vector3{0, 3, 4}, R: 1, Mat: Material{Reflection: 3}},
	}
	sorted := sortByOcclusion(eye, spheres)
	want := []float32{1, 3, 0, 2}
	for i, s := range sorted {
		if s.Mat.Reflection != want[i] {
			t.Fatalf("position %d holds sphere %v, want %v", i, s.Mat.Reflection, want[i])
		}
	}

	keys := make([]float32, len(spheres))
	for i := range spheres {
		keys[i] = occlusionKey(eye, &spheres[i])
	}
	ranks := make([]int, len(spheres))
	rankByOcclusion(keys, ranks)
	for i, r := range ranks {
		if sorted[r].Mat.Reflection != spheres[i].Mat.Reflection {
			t.Fatalf("sphere %d ranked %d, but the stable sort put it elsewhere", i, r)
		}
	}
}

func TestBoundsOf(t *testing.T) {
	cam := testCamera(64)
	p := newViewPlane(cam)
	b := p.boundsOf(&Sphere{Pos: Vector3{0, 0, 10}, R: 1})
	if b.x0 > 32 || b.x1 <= 32 || b.y0 > 32 || b.y1 <= 32 || b == p.full() {
		t.Fatalf("bounds %+v should be a proper region around the centre", b)
	}
	if got := p.boundsOf(&Sphere{Pos: cam.Eye, R: 1}); got != p.full() {
		t.Fatalf("eye inside the sphere must use the full image, got %+v", got)
	}
	if got := p.boundsOf(&Sphere{Pos: Vector3{0, 0, -30}, R: 1}); !got.empty() {
		t.Fatalf("sphere behind the eye must be empty, got %+v", got)
	}
	degenerate := testCamera(64)
	degenerate.ProjPlaneV = degenerate.ProjPlaneU
	if got := newViewPlane(degenerate).boundsOf(&Sphere{Pos: Vector3{0, 0, 10}, R: 1}); got != (bounds{0, 0, 64, 64}) {
		t.Fatalf("parallel u and v must fall back to the full image, got %+v", got)
	}
}

func TestPerpBasis(t *testing.T) {
	for _, n := range []Vector3{{0, 0, 1}, {1, 0, 0}, {0, -3, 0}, {1, 2, 3}, {1e-6, 5, 0}} {
		d1, d2 := perpBasis(n)
		un := n.Norm()
		if !almostEq(float64(d1.Dot(un)), 0, 1e-5) || !almostEq(float64(d2.Dot(un)), 0, 1e-5) || !almostEq(float64(d1.Dot(d2)), 0, 1e-5) {
			t.Fatalf("basis for %+v not orthogonal: %+v %+v", n, d1, d2)
		}
		if !almostEq(float64(d1.Len()), 1, 1e-5) || !almostEq(float64(d2.Len()), 1, 1e-5) {
			t.Fatalf("basis for %+v not unit: %+v %+v", n, d1, d2)
		}
	}
}

func TestOptimizedRendererPanicsOnCountChange(t *testing.T) {
	ren := NewOptimizedRenderer(testCamera(8))
	ren.Render(make([]Sphere, 2))
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "sized for 2") {
			t.Fatalf("unexpected panic %v", r)
		}
	}()
	ren.Render(make([]Sphere, 3))
}

func TestIntersectRaySphere(t *testing.T) {
	s := Sphere{Pos: Vector3{0, 0, 5}, R: 1}
	if tt, ok := intersectRaySphere(Vector3{}, Vector3{0, 0, 1}, &s); !ok || tt != 4 {
		t.Fatalf("front hit: %v %v", tt, ok)
	}
	if _, ok := intersectRaySphere(Vector3{0, 0, 10}, Vector3{0, 0, 1}, &s); ok {
		t.Fatal("sphere behind the origin must miss")
	}
	if _, ok := intersectRaySphere(Vector3{}, Vector3{0, 1, 0}, &s); ok {
		t.Fatal("negative discriminant must miss")
	}
}

func TestRenderStatsCountRayTests(t *testing.T) {
	withDebug(t)
	cam := testCamera(64)
	r := NewOptimizedRenderer(cam).(*optimizedRenderer)
	defer r.Close()
	spheres := crowd(30, 3).Spheres
	r.Render(spheres)

	hits := 0
	for _, d := range r.rays {
		for i := range spheres {
			if _, ok := intersectRaySphere(cam.Eye, d, &spheres[i]); ok {
				hits++
				break
			}
		}
	}
	st := r.stats
	all := len(spheres) * cam.Resolution * cam.Resolution
	switch {
	case st.frame != 1:
		t.Fatalf("frame %d", st.frame)
	case st.hits != hits:
		t.Fatalf("%d hits counted, brute force finds %d", st.hits, hits)
	case st.tested < st.hits || st.tested+st.skipped != all:
		t.Fatalf("inconsistent stats %+v for %d sphere-pixel pairs", st, all)
	case st.skipped == 0:
		t.Fatalf("bounds culled nothing: %+v", st)
	}
}

// From inside a sphere only the far root is positive. It counts as a hit, so
// an eye inside a sphere sees the inner surface rather than black.
func TestIntersectRaySphereFromInside(t *testing.T) {
	s := Sphere{Pos: Vector3{0, 0, 5}, R: 1}
	if tt, ok := intersectRaySphere(Vector3{0, 0, 5}, Vector3{0, 0, 1}, &s); !ok || tt != 1 {
		t.Fatalf("centre: %v %v", tt, ok)
	}
	if tt, ok := intersectRaySphere(Vector3{0, 0, 4.5}, Vector3{0, 0, 1}, &s); !ok || tt != 1.5 {
		t.Fatalf("off centre: %v %v", tt, ok)
	}
}
