package spheres3d

import "math"

// Vector3 is a position or direction in 3D space.
//
// All multi-term arithmetic follows the same rounding contract: float32
// operands are widened to float64, accumulated, and narrowed once. Two
// implementations that follow it produce byte-identical frames, so every
// rounding point below is an explicit conversion (which also keeps the
// compiler from fusing multiply-add pairs).
type Vector3 struct {
	X, Y, Z float32
}

// wdiff returns a-b computed in float64 and narrowed once.
func wdiff(a, b float32) float32 { return float32(float64(a) - float64(b)) }

// wsum2 returns a+b computed in float64 and narrowed once.
func wsum2(a, b float32) float32 { return float32(float64(a) + float64(b)) }

// wsum3 returns a+b+c accumulated left to right in float64 and narrowed once.
func wsum3(a, b, c float32) float32 {
	return float32(float64(a) + float64(b) + float64(c))
}

// Add returns a+b.
func (a Vector3) Add(b Vector3) Vector3 {
	return Vector3{wsum2(a.X, b.X), wsum2(a.Y, b.Y), wsum2(a.Z, b.Z)}
}

// Sub returns a-b.
func (a Vector3) Sub(b Vector3) Vector3 {
	return Vector3{wdiff(a.X, b.X), wdiff(a.Y, b.Y), wdiff(a.Z, b.Z)}
}

// Scale multiplies each component by s in float32.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{float32(v.X * s), float32(v.Y * s), float32(v.Z * s)}
}

// Dot rounds each product to float32 and sums them in float64.
func (a Vector3) Dot(b Vector3) float32 {
	return wsum3(float32(a.X*b.X), float32(a.Y*b.Y), float32(a.Z*b.Z))
}

// Cross returns a×b.
func (a Vector3) Cross(b Vector3) Vector3 {
	return Vector3{
		wdiff(float32(a.Y*b.Z), float32(a.Z*b.Y)),
		wdiff(float32(a.Z*b.X), float32(a.X*b.Z)),
		wdiff(float32(a.X*b.Y), float32(a.Y*b.X)),
	}
}

// Len returns the Euclidean magnitude.
func (v Vector3) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Dist returns the Euclidean distance between a and b. Differences and
// squares stay in float64; only the sum is narrowed before the root.
func (a Vector3) Dist(b Vector3) float32 {
	dx := float64(a.X) - float64(b.X)
	dy := float64(a.Y) - float64(b.Y)
	dz := float64(a.Z) - float64(b.Z)
	f := float64(dx * dx)
	f += float64(dy * dy)
	f += float64(dz * dz)
	return float32(math.Sqrt(float64(float32(f))))
}

// Norm returns v scaled to unit length (v/|v| as v * (1/|v|)).
func (v Vector3) Norm() Vector3 {
	return v.Scale(1 / v.Len())
}

// IsZero reports whether all components are exactly zero.
func (v Vector3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }
