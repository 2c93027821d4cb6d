package spheres3d

// occlusionKey is the squared tangent length from the eye to sphere s.
// For non-overlapping spheres, a smaller key means nearer in front.
func occlusionKey(eye Vector3, s *Sphere) float32 {
	d := s.Pos.Dist(eye)
	return float32(float32(d*d) - float32(s.R*s.R))
}

// sortByOcclusion returns a copy of spheres in front-to-back order using a
// stable insertion sort, so equal keys keep their input order.
func sortByOcclusion(eye Vector3, spheres []Sphere) []Sphere {
	out := append([]Sphere(nil), spheres...)
	for i := 1; i < len(out); i++ {
		key := out[i]
		k := occlusionKey(eye, &key)
		j := i - 1
		for j >= 0 && occlusionKey(eye, &out[j]) > k {
			out[j+1] = out[j]
			j--
		}
		out[j+1] = key
	}
	return out
}

// rankByOcclusion writes into ranks[i] the final position of sphere i: the
// number of spheres with a smaller key, or an equal key and a smaller index.
// Each rank is computed independently, so the work splits across spheres.
func rankByOcclusion(keys []float32, ranks []int) {
	parallelFor(len(keys), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			r := 0
			ki := keys[i]
			for j, kj := range keys {
				if kj < ki || (kj == ki && j < i) {
					r++
				}
			}
			ranks[i] = r
		}
	})
}
