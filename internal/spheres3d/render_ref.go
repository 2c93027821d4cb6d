package spheres3d

// referenceRenderer shades every pixel sequentially against every sphere.
type referenceRenderer struct {
	spec *RendererSpec
	img  []float32
}

// NewReferenceRenderer allocates a black image for the spec's resolution.
func NewReferenceRenderer(spec *RendererSpec) Renderer {
	res := spec.Resolution
	DebugLog("reference renderer: %dx%d, %d lights", res, res, len(spec.Lights))
	return &referenceRenderer{spec: spec.Clone(), img: make([]float32, FloatsPerPixel*res*res)}
}

func (r *referenceRenderer) Render(spheres []Sphere) []float32 {
	spec := r.spec
	sorted := sortByOcclusion(spec.Eye, spheres)
	ps := pixelSize(spec)
	res := spec.Resolution
	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			d := cameraRay(spec, ps, x, y)
			var c Color
			if s, t := firstHit(sorted, spec.Eye, d); s != nil {
				c = shade(spec.Lights, s, spec.Eye, d, t)
			}
			setPixel(r.img, pixelIndex(x, y, res), c)
		}
	}
	return r.img
}

func (r *referenceRenderer) Close() { r.img = nil }
