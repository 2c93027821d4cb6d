package spheres3d

import "math"

// Sphere is one body of the simulation. R and Mass must be > 0; the engines
// do not check.
type Sphere struct {
	Pos   Vector3
	Vel   Vector3
	Accel Vector3
	R     float32
	Mass  float32
	Mat   Material
}

// intersectRaySphere solves |o + t·d - c|² = r² for the nearest positive t.
// The smaller root wins when positive; otherwise the larger one is used if
// positive (origin inside the sphere). Both roots are computed in the
// cancellation-free form (c/q and q/a), matching on both variants.
func intersectRaySphere(o, d Vector3, s *Sphere) (t float32, ok bool) {
	oc := o.Sub(s.Pos)
	a := d.Dot(d)
	b := float32(2 * d.Dot(oc))
	c := wdiff(oc.Dot(oc), float32(s.R*s.R))
	disc := wdiff(float32(b*b), float32(float32(4*a)*c))
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))

	var t0, t1 float32
	if b >= 0 {
		den := float64(-b) - float64(sq)
		t0 = float32(float32(den) / float32(2*a))
		t1 = float32(float64(float32(2*float64(c))) / den)
	} else {
		den := float64(-b) + float64(sq)
		t0 = float32(float64(float32(2*float64(c))) / den)
		t1 = float32(float32(den) / float32(2*a))
	}
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	if t0 > 0 {
		return t0, true
	}
	if t1 > 0 {
		return t1, true
	}
	return 0, false
}

// shade returns the clamped colour of sphere s seen along direction d from o
// at distance t.
func shade(lights []Light, s *Sphere, o, d Vector3, t float32) Color {
	p := o.Add(d.Scale(t))
	n := p.Sub(s.Pos).Norm()
	r, g, b := lambert(lights, s.Mat, p, n)
	return Color{clamp1(float32(r)), clamp1(float32(g)), clamp1(float32(b))}
}
