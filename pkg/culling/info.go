// Package culling holds the per-object bounding volumes a renderer uses to
// skip invisible objects and a physics pass uses to find overlapping pairs.
//
// Every object owns one BoundingInfo, built once from the local extent of
// its geometry and updated whenever its world transform changes. Queries
// run cheapest first: the bounding sphere, then the axis-aligned world box,
// then, when asked for precision, the separating axis test on the oriented
// boxes. A BoundingInfo is not safe for concurrent use, but distinct
// instances share nothing.
package culling

import "github.com/philipparndt/gocull/pkg/geometry"

// Tier names the stage of Classify that decided a pair
type Tier int

const (
	// TierUnpositioned means one side was never updated
	TierUnpositioned Tier = iota
	// TierSphere means the bounding spheres are disjoint
	TierSphere
	// TierAABB means the axis-aligned world boxes are disjoint
	TierAABB
	// TierSAT means a separating axis was found between the oriented boxes
	TierSAT
	// TierBroadPhase means both broad tests passed and precision was not requested
	TierBroadPhase
	// TierOverlap means the oriented boxes overlap on all 15 axes
	TierOverlap
)

var tierNames = [...]string{
	TierUnpositioned: "unpositioned",
	TierSphere:       "sphere",
	TierAABB:         "aabb",
	TierSAT:          "sat",
	TierBroadPhase:   "broad-phase",
	TierOverlap:      "overlap",
}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return "unknown"
	}
	return tierNames[t]
}

// Overlaps reports whether the tier is a positive answer
func (t Tier) Overlaps() bool {
	return t == TierBroadPhase || t == TierOverlap
}

// BoundingInfo pairs a bounding sphere with an oriented box built from the
// same local extent
type BoundingInfo struct {
	Sphere *BoundingSphere
	Box    *OrientedBox
}

// NewBoundingInfo builds both volumes from a local minimum and maximum
func NewBoundingInfo(minimum, maximum geometry.Vector3) *BoundingInfo {
	return &BoundingInfo{
		Sphere: NewBoundingSphere(minimum, maximum),
		Box:    NewOrientedBox(minimum, maximum),
	}
}

// NewBoundingInfoFromBox builds both volumes from an accumulated extent
func NewBoundingInfoFromBox(bbox geometry.BoundingBox) *BoundingInfo {
	return NewBoundingInfo(bbox.Min, bbox.Max)
}

// Update refreshes both volumes for a new world matrix and uniform scale.
// Queries made before the first Update report false.
func (bi *BoundingInfo) Update(world geometry.Matrix, scale float64) {
	bi.Sphere.Update(world, scale)
	bi.Box.Update(world)
}

// IsPositioned reports whether Update has run at least once
func (bi *BoundingInfo) IsPositioned() bool {
	return bi.Sphere.IsPositioned()
}

// IsInFrustum reports whether the object may be visible. The sphere test
// rejects most far-away objects before the eight-corner box test runs.
func (bi *BoundingInfo) IsInFrustum(planes []geometry.Plane) bool {
	if !bi.Sphere.IsInFrustum(planes) {
		return false
	}
	return bi.Box.IsInFrustum(planes)
}

// IsCompletelyInFrustum reports whether the whole box is inside the frustum
func (bi *BoundingInfo) IsCompletelyInFrustum(planes []geometry.Plane) bool {
	return bi.Box.IsCompletelyInFrustum(planes)
}

// IntersectsPoint reports whether the point is inside both volumes
func (bi *BoundingInfo) IntersectsPoint(point geometry.Vector3) bool {
	if !bi.Sphere.IsPositioned() {
		return false
	}
	if !bi.Sphere.IntersectsPoint(point) {
		return false
	}
	return bi.Box.IntersectsPoint(point)
}

// Intersects reports whether two objects overlap. Without precise the
// answer comes from the sphere and axis-aligned tests alone and may be a
// false positive for rotated boxes.
func (bi *BoundingInfo) Intersects(other *BoundingInfo, precise bool) bool {
	return bi.Classify(other, precise).Overlaps()
}

// Classify runs the same tiers as Intersects and returns the one that
// settled the answer
func (bi *BoundingInfo) Classify(other *BoundingInfo, precise bool) Tier {
	if !bi.Sphere.IsPositioned() || !other.Sphere.IsPositioned() {
		return TierUnpositioned
	}
	if !SpheresIntersect(bi.Sphere, other.Sphere) {
		return TierSphere
	}
	if !BoxesIntersect(bi.Box, other.Box) {
		return TierAABB
	}
	if !precise {
		return TierBroadPhase
	}
	if !SeparatingAxisTest(bi.Box, other.Box) {
		return TierSAT
	}
	return TierOverlap
}

// CheckCollision asks the collider whether it can reach this object
func (bi *BoundingInfo) CheckCollision(c Collider) bool {
	if !bi.IsPositioned() {
		return false
	}
	return c.CanDoCollision(bi.Sphere.CenterWorld, bi.Sphere.RadiusWorld, bi.Box.MinimumWorld, bi.Box.MaximumWorld)
}
