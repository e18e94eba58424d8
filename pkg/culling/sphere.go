package culling

import "github.com/philipparndt/gocull/pkg/geometry"

// frustumPlaneCount is the number of planes a frustum test consults
const frustumPlaneCount = 6

// BoundingSphere is the sphere through the two corners of a local extent.
// It is conservative rather than minimal, which is all a pre-filter needs.
type BoundingSphere struct {
	Minimum geometry.Vector3
	Maximum geometry.Vector3

	Center geometry.Vector3
	Radius float64

	CenterWorld geometry.Vector3
	RadiusWorld float64

	positioned bool
}

// NewBoundingSphere builds the sphere for a local extent. The world fields
// start as the identity placement, but queries report false until Update
// has been called.
func NewBoundingSphere(minimum, maximum geometry.Vector3) *BoundingSphere {
	s := &BoundingSphere{
		Minimum: minimum,
		Maximum: maximum,
		Center:  minimum.Lerp(maximum, 0.5),
		Radius:  minimum.Distance(maximum) * 0.5,
	}
	s.CenterWorld = s.Center
	s.RadiusWorld = s.Radius
	return s
}

// Update places the sphere with a world matrix and uniform scale
func (s *BoundingSphere) Update(world geometry.Matrix, scale float64) {
	s.CenterWorld = world.TransformCoordinates(s.Center)
	s.RadiusWorld = s.Radius * scale
	s.positioned = true
}

// IsPositioned reports whether Update has run at least once
func (s *BoundingSphere) IsPositioned() bool {
	return s.positioned
}

// IsInFrustum reports false when the sphere lies entirely behind any of the
// first six planes. A true result may be a false positive near the frustum
// corners. planes must hold at least six entries.
func (s *BoundingSphere) IsInFrustum(planes []geometry.Plane) bool {
	if !s.positioned {
		return false
	}
	for i := 0; i < frustumPlaneCount; i++ {
		if planes[i].DotCoordinate(s.CenterWorld) <= -s.RadiusWorld {
			return false
		}
	}
	return true
}

// IntersectsPoint reports whether the point lies inside or on the sphere
func (s *BoundingSphere) IntersectsPoint(point geometry.Vector3) bool {
	if !s.positioned {
		return false
	}
	return s.CenterWorld.Distance(point) <= s.RadiusWorld
}

// SpheresIntersect reports whether two positioned spheres overlap.
// Touching spheres overlap.
func SpheresIntersect(a, b *BoundingSphere) bool {
	if !a.positioned || !b.positioned {
		return false
	}
	return a.CenterWorld.Distance(b.CenterWorld) <= a.RadiusWorld+b.RadiusWorld
}
