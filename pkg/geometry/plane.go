package geometry

// Plane is the set of points p where Normal·p + D = 0.
// Points with a positive DotCoordinate lie on the side the normal points to.
type Plane struct {
	Normal Vector3
	D      float64
}

// NewPlane creates a plane from the equation coefficients a*x + b*y + c*z + d = 0
func NewPlane(a, b, c, d float64) Plane {
	return Plane{Normal: NewVector3(a, b, c), D: d}
}

// NewPlaneFromPointNormal creates the plane through point with the given normal
func NewPlaneFromPointNormal(point, normal Vector3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// NewPlaneFromPoints creates the plane through three points, with the normal
// following the counter-clockwise winding p1, p2, p3
func NewPlaneFromPoints(p1, p2, p3 Vector3) Plane {
	normal := p2.Sub(p1).Cross(p3.Sub(p1))
	return NewPlaneFromPointNormal(p1, normal)
}

// DotCoordinate returns Normal·point + D. For a normalized plane this is the
// signed distance from the plane to point.
func (p Plane) DotCoordinate(point Vector3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Normalize scales the plane so its normal has unit length
func (p Plane) Normalize() Plane {
	length := p.Normal.Length()
	if length == 0 {
		return p
	}
	inv := 1.0 / length
	return Plane{Normal: p.Normal.Mul(inv), D: p.D * inv}
}
