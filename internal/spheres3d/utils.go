package spheres3d

import "math"

func isFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// pixelSize is the width of one pixel on the projection plane.
func pixelSize(spec *RendererSpec) float32 {
	ps := spec.ViewportSize / float32(spec.Resolution)
	DebugLogOnce("Pixel size: %g (viewport %g over %d px)", ps, spec.ViewportSize, spec.Resolution)
	return ps
}

// cameraRay is the unit direction from the eye through pixel (x, y).
func cameraRay(spec *RendererSpec, ps float32, x, y int) Vector3 {
	us := float32(-spec.Resolution/2 + x)
	vs := float32(-spec.Resolution/2 + y)
	u := spec.ProjPlaneU.Scale(float32(us * ps))
	v := spec.ProjPlaneV.Scale(float32(vs * ps))
	return u.Add(v).Sub(spec.Eye).Norm()
}

// pixelIndex is the offset of pixel (x, y) in an image of width res.
func pixelIndex(x, y, res int) int { return (x + y*res) * FloatsPerPixel }
