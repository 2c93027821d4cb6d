package spheres3d

import "math"

// bounds is a half-open pixel rectangle [x0,x1) × [y0,y1).
type bounds struct {
	x0, y0, x1, y1 int
}

func (b bounds) empty() bool { return b.x0 >= b.x1 || b.y0 >= b.y1 }

// viewPlane maps points on the projection plane to pixel coordinates.
type viewPlane struct {
	eye        Vector3
	u, v       Vector3
	normal     Vector3 // u × v
	eyeDot     float32 // -normal·eye
	uu, uv, vv float64
	det        float64
	pixelSize  float64
	half       float64 // resolution/2 in integer division, as used by the camera rays
	res        int
	forward    float64 // sign making the plane side of the eye positive
}

func newViewPlane(spec *RendererSpec) *viewPlane {
	u, v := spec.ProjPlaneU, spec.ProjPlaneV
	n := u.Cross(v)
	p := &viewPlane{
		eye:       spec.Eye,
		u:         u,
		v:         v,
		normal:    n,
		eyeDot:    -n.Dot(spec.Eye),
		uu:        float64(u.Dot(u)),
		uv:        float64(u.Dot(v)),
		vv:        float64(v.Dot(v)),
		pixelSize: float64(pixelSize(spec)),
		half:      float64(spec.Resolution / 2),
		res:       spec.Resolution,
		forward:   1,
	}
	p.det = p.uu*p.vv - p.uv*p.uv
	if p.eyeDot < 0 {
		p.forward = -1
	}
	return p
}

func (p *viewPlane) full() bounds   { return bounds{0, 0, p.res, p.res} }
func (p *viewPlane) nothing() bounds { return bounds{} }

// depth is the signed distance (scaled by |normal|) of q in front of the eye.
func (p *viewPlane) depth(q Vector3) float64 {
	d := q.Sub(p.eye)
	return p.forward * (float64(p.normal.X)*float64(d.X) + float64(p.normal.Y)*float64(d.Y) + float64(p.normal.Z)*float64(d.Z))
}

// project intersects the line eye→q with the plane and returns the plane
// coordinates in pixels.
func (p *viewPlane) project(q Vector3) (x, y float64, ok bool) {
	ray := q.Sub(p.eye)
	t := p.eyeDot / p.normal.Dot(ray)
	if !(t > 0) || math.IsInf(float64(t), 0) {
		return 0, 0, false
	}
	hit := p.eye.Add(ray.Scale(t))
	hu, hv := float64(hit.Dot(p.u)), float64(hit.Dot(p.v))
	a := (hu*p.vv - hv*p.uv) / p.det
	b := (hv*p.uu - hu*p.uv) / p.det
	x = a/p.pixelSize + p.half
	y = b/p.pixelSize + p.half
	return x, y, isFinite(x) && isFinite(y)
}

// perpBasis returns two unit vectors orthogonal to n and to each other.
func perpBasis(n Vector3) (Vector3, Vector3) {
	ax, ay, az := math.Abs(float64(n.X)), math.Abs(float64(n.Y)), math.Abs(float64(n.Z))
	e := Vector3{X: 1}
	switch {
	case ay <= ax && ay <= az:
		e = Vector3{Y: 1}
	case az <= ax && az <= ay:
		e = Vector3{Z: 1}
	}
	d1 := n.Cross(e).Norm()
	d2 := n.Cross(d1).Norm()
	return d1, d2
}

// boundsOf returns a pixel rectangle containing every pixel whose camera ray
// can hit s. A square of half-diagonal r·√2 centred on the point of s nearest
// the eye, perpendicular to the eye-centre line, covers the silhouette cone
// at that depth; its projected corners are enclosed with a one pixel margin.
// Spheres that reach behind the eye or enclose it get the whole image.
func (p *viewPlane) boundsOf(s *Sphere) bounds {
	if p.det == 0 || p.pixelSize == 0 || p.eyeDot == 0 {
		return p.full()
	}
	toEye := p.eye.Sub(s.Pos)
	d := toEye.Len()
	if !(d > s.R) {
		return p.full()
	}
	r := float64(s.R) * math.Sqrt(float64(p.normal.Dot(p.normal)))
	dc := p.depth(s.Pos)
	if dc < -r {
		return p.nothing()
	}
	if dc <= r {
		return p.full()
	}

	near := s.Pos.Add(toEye.Scale(s.R / d))
	half := float32(float64(s.R) * math.Sqrt2)
	d1, d2 := perpBasis(toEye)
	corners := [4]Vector3{
		near.Add(d1.Scale(half)),
		near.Add(d1.Scale(-half)),
		near.Add(d2.Scale(half)),
		near.Add(d2.Scale(-half)),
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y, ok := p.project(c)
		if !ok {
			return p.full()
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return bounds{
		x0: p.clampPx(math.Floor(minX) - 1),
		y0: p.clampPx(math.Floor(minY) - 1),
		x1: p.clampPx(math.Floor(maxX) + 2),
		y1: p.clampPx(math.Floor(maxY) + 2),
	}
}

func (p *viewPlane) clampPx(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= float64(p.res) {
		return p.res
	}
	return int(v)
}
