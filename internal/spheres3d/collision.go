package spheres3d

import "math"

// collisionTime predicts when spheres a and b touch, assuming both keep
// their current velocities. a is the reference frame; b moves with v_b - v_a.
// It reports false when the spheres do not approach, never come within the
// radii sum, or touch later than window.
func collisionTime(a, b *Sphere, window float32) (float32, bool) {
	d := a.Pos.Sub(b.Pos)
	dist := d.Len()
	sumR := wsum2(a.R, b.R)

	move := b.Vel.Sub(a.Vel)
	speed := move.Len()
	reach := float32(float64(speed) * float64(window))
	if float64(reach) < float64(dist)-float64(sumR) || move.IsZero() {
		return 0, false
	}

	along := move.Scale(1 / speed).Dot(d)
	if along <= 0 {
		return 0, false
	}

	// Right triangle: d is the hypotenuse, along and perpSq's root the legs.
	perpSq := wdiff(float32(dist*dist), float32(along*along))
	sumRSq := float32(sumR * sumR)
	if perpSq >= sumRSq {
		return 0, false
	}
	extra := wdiff(sumRSq, perpSq)
	if extra < 0 {
		return 0, false
	}
	travel := float32(float64(along) - math.Sqrt(float64(extra)))
	if travel < 0 || reach < travel {
		return 0, false
	}
	return travel / speed, true
}

// resolveCollision applies a perfectly elastic collision along the line
// between the centres. Velocity components perpendicular to it are kept.
func resolveCollision(a, b *Sphere) {
	d := a.Pos.Sub(b.Pos)
	total := float32(float64(a.Mass) + float64(b.Mass))
	ka := float32(2*b.Mass) / total
	kb := float32(2*a.Mass) / total
	dd := d.Dot(d)
	rel := a.Vel.Sub(b.Vel)
	proj := d.Scale(rel.Dot(d) / dd)
	a.Vel = a.Vel.Sub(proj.Scale(ka))
	b.Vel = b.Vel.Sub(proj.Scale(-1 * kb))
}

// nextCollision scans pairs (i<j) in order and returns the earliest contact
// inside window. i == -1 means no collision; the returned time is then window.
func nextCollision(spheres []Sphere, window float32) (t float32, i, j int) {
	t, i, j = window, -1, -1
	for a := range spheres {
		if ta, jb, ok := scanBucket(spheres, a, t); ok {
			t, i, j = ta, a, jb
		}
	}
	return t, i, j
}

// scanBucket checks sphere a against every b > a, shrinking the window on
// each hit exactly as the pairwise scan does.
func scanBucket(spheres []Sphere, a int, window float32) (float32, int, bool) {
	best, j, found := window, -1, false
	for b := a + 1; b < len(spheres); b++ {
		if tc, ok := collisionTime(&spheres[a], &spheres[b], best); ok {
			best, j, found = tc, b, true
		}
	}
	return best, j, found
}
