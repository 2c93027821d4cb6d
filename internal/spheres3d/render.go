package spheres3d

// Renderer turns a sphere population into an RGB image.
type Renderer interface {
	// Render returns a row-major res×res RGB image with channels in [0, 1].
	// The buffer is owned by the renderer and valid until the next Render
	// or Close.
	Render(spheres []Sphere) []float32
	Close()
}

// firstHit returns the first sphere in front-to-back order hit by the ray.
func firstHit(sorted []Sphere, o, d Vector3) (*Sphere, float32) {
	for i := range sorted {
		if t, ok := intersectRaySphere(o, d, &sorted[i]); ok {
			return &sorted[i], t
		}
	}
	return nil, 0
}

func setPixel(img []float32, at int, c Color) {
	img[at+ChR] = c.R
	img[at+ChG] = c.G
	img[at+ChB] = c.B
}
