package spheres3d

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// scratch holds the per-render sphere buffers. Its size is fixed by the
// first Render call.
type scratch struct {
	sized  bool
	keys   []float32
	ranks  []int
	sorted []Sphere
	boxes  []bounds
}

func (s *scratch) fit(n int) {
	if !s.sized {
		s.keys = make([]float32, n)
		s.ranks = make([]int, n)
		s.sorted = make([]Sphere, n)
		s.boxes = make([]bounds, n)
		s.sized = true
		return
	}
	if n != len(s.sorted) {
		panic(fmt.Sprintf("spheres3d: Render called with %d spheres, renderer was sized for %d", n, len(s.sorted)))
	}
}

// optimizedRenderer shades the image in TileGrid×TileGrid tiles in parallel.
// Each sphere only tests the pixels inside its projected bounding region and
// a pixel stops at the first sphere (front to back) that hits it.
type optimizedRenderer struct {
	spec  *RendererSpec
	plane *viewPlane
	rays  []Vector3 // one unit direction per pixel
	marks []bool    // pixel already resolved in this render
	img   []float32
	buf   scratch
	stats renderStats
}

// renderStats counts ray tests of the last render; filled in only while
// Debug is set. Skipped is every sphere-pixel pair that was never tested,
// either culled by the bounds or already resolved.
type renderStats struct {
	frame   int
	tested  int
	hits    int
	skipped int
}

// NewOptimizedRenderer precomputes the camera ray of every pixel.
func NewOptimizedRenderer(spec *RendererSpec) Renderer {
	spec = spec.Clone()
	res := spec.Resolution
	r := &optimizedRenderer{
		spec:  spec,
		plane: newViewPlane(spec),
		rays:  make([]Vector3, res*res),
		marks: make([]bool, res*res),
		img:   make([]float32, FloatsPerPixel*res*res),
	}
	ps := pixelSize(spec)
	parallelFor(res, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			for x := 0; x < res; x++ {
				r.rays[x+y*res] = cameraRay(spec, ps, x, y)
			}
		}
	})
	DebugLog("optimized renderer: %dx%d, %d lights, %d rays", res, res, len(spec.Lights), len(r.rays))
	return r
}

func (r *optimizedRenderer) Render(spheres []Sphere) []float32 {
	n := len(spheres)
	b := &r.buf
	b.fit(n)
	eye := r.spec.Eye

	parallelFor(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			b.keys[i] = occlusionKey(eye, &spheres[i])
		}
	})
	rankByOcclusion(b.keys, b.ranks)
	parallelFor(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			b.sorted[b.ranks[i]] = spheres[i]
		}
	})
	parallelFor(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			b.boxes[i] = r.plane.boundsOf(&b.sorted[i])
		}
	})

	clear(r.img)
	clear(r.marks)

	res := r.spec.Resolution
	var tested [TileGrid * TileGrid]int
	var g errgroup.Group
	for ty := 0; ty < TileGrid; ty++ {
		for tx := 0; tx < TileGrid; tx++ {
			tile := bounds{
				x0: tx * res / TileGrid, x1: (tx + 1) * res / TileGrid,
				y0: ty * res / TileGrid, y1: (ty + 1) * res / TileGrid,
			}
			if tile.empty() {
				continue
			}
			slot := &tested[tx+ty*TileGrid]
			g.Go(func() error {
				*slot = r.renderTile(tile)
				return nil
			})
		}
	}
	_ = g.Wait()
	if Debug {
		r.tally(n, tested[:])
	}
	return r.img
}

func (r *optimizedRenderer) tally(n int, tested []int) {
	st := &r.stats
	st.frame++
	st.tested, st.hits = 0, 0
	for _, t := range tested {
		st.tested += t
	}
	for _, m := range r.marks {
		if m {
			st.hits++
		}
	}
	st.skipped = n*len(r.marks) - st.tested
	DebugLog("render %d: %d spheres, %d ray tests, %d hits, %d sphere-pixel pairs skipped",
		st.frame, n, st.tested, st.hits, st.skipped)
}

// renderTile walks spheres front to back and shades the unresolved pixels
// of tile that fall inside each sphere's bounds. It returns the number of
// ray tests made.
func (r *optimizedRenderer) renderTile(tile bounds) int {
	spec := r.spec
	res := spec.Resolution
	b := &r.buf
	tested := 0
	for i := range b.sorted {
		box := intersectBounds(tile, b.boxes[i])
		if box.empty() {
			continue
		}
		s := &b.sorted[i]
		for y := box.y0; y < box.y1; y++ {
			for x := box.x0; x < box.x1; x++ {
				px := x + y*res
				if r.marks[px] {
					continue
				}
				d := r.rays[px]
				tested++
				t, ok := intersectRaySphere(spec.Eye, d, s)
				if !ok {
					continue
				}
				r.marks[px] = true
				setPixel(r.img, px*FloatsPerPixel, shade(spec.Lights, s, spec.Eye, d, t))
			}
		}
	}
	return tested
}

func intersectBounds(a, b bounds) bounds {
	return bounds{
		x0: max(a.x0, b.x0), y0: max(a.y0, b.y0),
		x1: min(a.x1, b.x1), y1: min(a.y1, b.y1),
	}
}

func (r *optimizedRenderer) Close() {
	r.rays, r.marks, r.img = nil, nil, nil
	r.buf = scratch{}
}
