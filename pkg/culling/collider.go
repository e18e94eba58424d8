package culling

import "github.com/philipparndt/gocull/pkg/geometry"

// Collider decides whether a moving shape can reach an object, given the
// object's world sphere and axis-aligned world box
type Collider interface {
	CanDoCollision(sphereCenter geometry.Vector3, sphereRadius float64, boxMin, boxMax geometry.Vector3) bool
}

// SweptSphere is a sphere moving by Velocity during the current step
type SweptSphere struct {
	Position geometry.Vector3
	Velocity geometry.Vector3
	Radius   float64
}

var _ Collider = SweptSphere{}

// CanDoCollision grows the sphere by the distance it travels and tests it
// against the object's sphere, then against its world box
func (s SweptSphere) CanDoCollision(sphereCenter geometry.Vector3, sphereRadius float64, boxMin, boxMax geometry.Vector3) bool {
	reach := s.Velocity.Length() + s.Radius

	if s.Position.Distance(sphereCenter) > reach+sphereRadius {
		return false
	}
	return intersectBoxAASphere(boxMin, boxMax, s.Position, reach)
}

func intersectBoxAASphere(boxMin, boxMax, center geometry.Vector3, radius float64) bool {
	if boxMin.X > center.X+radius || center.X-radius > boxMax.X {
		return false
	}
	if boxMin.Y > center.Y+radius || center.Y-radius > boxMax.Y {
		return false
	}
	if boxMin.Z > center.Z+radius || center.Z-radius > boxMax.Z {
		return false
	}
	return true
}
