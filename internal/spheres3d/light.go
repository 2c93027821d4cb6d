package spheres3d

// Light is a point light. Intensity does not fall off with distance.
type Light struct {
	Pos       Vector3
	Intensity Color
}

// lambert accumulates the diffuse contribution of every light that faces the
// surface at point p with unit normal n. Channel sums stay in float64 until
// the caller narrows and clamps them.
func lambert(lights []Light, mat Material, p, n Vector3) (r, g, b float64) {
	for i := range lights {
		L := &lights[i]
		toLight := L.Pos.Sub(p)
		if n.Dot(toLight) <= 0 {
			continue
		}
		dir := toLight.Scale(1 / toLight.Len())
		cos := dir.Dot(n)
		r += float64(float32(float32(L.Intensity.R*mat.Diffuse.R) * cos))
		g += float64(float32(float32(L.Intensity.G*mat.Diffuse.G) * cos))
		b += float64(float32(float32(L.Intensity.B*mat.Diffuse.B) * cos))
	}
	return r, g, b
}
