package geometry

// Frustum plane indices
const (
	FrustumNear = iota
	FrustumFar
	FrustumLeft
	FrustumRight
	FrustumTop
	FrustumBottom
)

// Frustum holds the six clipping planes of a camera. Every normal points
// into the visible volume.
type Frustum [6]Plane

// NewFrustum extracts the clipping planes from a combined view-projection
// matrix (Gribb/Hartmann). The projection is expected to map depth to
// [0, w], as PerspectiveFovLH does.
func NewFrustum(viewProjection Matrix) Frustum {
	m := viewProjection
	col := func(i int) [4]float64 {
		return [4]float64{m[i], m[4+i], m[8+i], m[12+i]}
	}
	x, y, z, w := col(0), col(1), col(2), col(3)

	plane := func(a, b [4]float64, sign float64) Plane {
		return NewPlane(
			a[0]+sign*b[0],
			a[1]+sign*b[1],
			a[2]+sign*b[2],
			a[3]+sign*b[3],
		).Normalize()
	}

	var f Frustum
	f[FrustumNear] = NewPlane(z[0], z[1], z[2], z[3]).Normalize()
	f[FrustumFar] = plane(w, z, -1)
	f[FrustumLeft] = plane(w, x, 1)
	f[FrustumRight] = plane(w, x, -1)
	f[FrustumTop] = plane(w, y, -1)
	f[FrustumBottom] = plane(w, y, 1)
	return f
}

// Planes returns the planes as a slice, the form the culling volumes take
func (f Frustum) Planes() []Plane {
	return f[:]
}

// ContainsPoint reports whether the point is inside or on every plane
func (f Frustum) ContainsPoint(p Vector3) bool {
	for i := range f {
		if f[i].DotCoordinate(p) < 0 {
			return false
		}
	}
	return true
}
