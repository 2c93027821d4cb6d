package spheres3d

// Color stores RGB channels, conventionally in [0,1] (not enforced).
type Color struct {
	R, G, B float32
}

// Material is a diffuse colour plus a reflection coefficient.
// Reflection is carried through specs and dumps but not used by shading.
type Material struct {
	Diffuse    Color
	Reflection float32
}

// clamp1 clamps each channel to at most 1.
func clamp1(x float32) float32 {
	if x < 1 {
		return x
	}
	return 1
}
