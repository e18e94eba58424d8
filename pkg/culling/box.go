package culling

import (
	"math"

	"github.com/philipparndt/gocull/pkg/geometry"
)

var basis = [3]geometry.Vector3{
	{X: 1},
	{Y: 1},
	{Z: 1},
}

// OrientedBox is a box built from a local extent and carried into world
// space by a transform. After Update, Directions are orthonormal and
// ExtendsWorld holds the half size along each of them. Under shear, or a
// non-uniform scale applied after a rotation, the box encloses the
// transformed shape rather than matching it.
type OrientedBox struct {
	Minimum geometry.Vector3
	Maximum geometry.Vector3

	Center  geometry.Vector3
	Extends geometry.Vector3
	Vectors [8]geometry.Vector3

	CenterWorld  geometry.Vector3
	ExtendsWorld geometry.Vector3
	Directions   [3]geometry.Vector3
	VectorsWorld [8]geometry.Vector3
	MinimumWorld geometry.Vector3
	MaximumWorld geometry.Vector3

	positioned bool
}

// NewOrientedBox builds the box for a local extent, placed at identity.
// Queries report false until Update has been called.
func NewOrientedBox(minimum, maximum geometry.Vector3) *OrientedBox {
	b := &OrientedBox{
		Minimum: minimum,
		Maximum: maximum,
		Center:  minimum.Lerp(maximum, 0.5),
		Extends: maximum.Sub(minimum).Mul(0.5),
		Vectors: geometry.BoundingBox{Min: minimum, Max: maximum}.Corners(),
	}
	b.place(geometry.Identity())
	return b
}

// Update places the box with a world matrix
func (b *OrientedBox) Update(world geometry.Matrix) {
	b.place(world)
	b.positioned = true
}

func (b *OrientedBox) place(world geometry.Matrix) {
	aabb := geometry.NewBoundingBox()
	for i, v := range b.Vectors {
		b.VectorsWorld[i] = world.TransformCoordinates(v)
		aabb.Extend(b.VectorsWorld[i])
	}
	b.MinimumWorld = aabb.Min
	b.MaximumWorld = aabb.Max
	b.CenterWorld = world.TransformCoordinates(b.Center)

	var axes [3]geometry.Vector3
	for i := range basis {
		axes[i] = world.TransformNormal(basis[i])
	}
	b.Directions = orthonormalize(axes)
	b.ExtendsWorld = geometry.NewVector3(
		reach(b.Directions[0], axes, b.Extends),
		reach(b.Directions[1], axes, b.Extends),
		reach(b.Directions[2], axes, b.Extends),
	)
}

// reach is the half size of the transformed local box along dir. Under
// shear the skewed axes also reach along the other directions, so the
// result encloses the true shape for any affine transform.
func reach(dir geometry.Vector3, axes [3]geometry.Vector3, extends geometry.Vector3) float64 {
	return math.Abs(dir.Dot(axes[0]))*extends.X +
		math.Abs(dir.Dot(axes[1]))*extends.Y +
		math.Abs(dir.Dot(axes[2]))*extends.Z
}

// orthonormalize runs Gram-Schmidt over the transformed basis. Shear and
// non-uniform scale leave the axes skewed; SAT needs them orthonormal.
// Collapsed axes fall back to a perpendicular of the remaining ones.
func orthonormalize(axes [3]geometry.Vector3) [3]geometry.Vector3 {
	d0 := axes[0]
	if d0.LengthSquared() < geometry.Epsilon {
		d0 = axes[1].Cross(axes[2])
		if d0.LengthSquared() < geometry.Epsilon {
			d0 = basis[0]
		}
	}
	d0 = d0.Normalize()

	d1 := axes[1].Sub(d0.Mul(axes[1].Dot(d0)))
	if d1.LengthSquared() < geometry.Epsilon {
		d1 = axes[2].Cross(d0)
		if d1.LengthSquared() < geometry.Epsilon {
			d1 = anyPerpendicular(d0)
		}
	}
	d1 = d1.Normalize()

	d2 := d0.Cross(d1)
	if axes[2].Dot(d2) < 0 {
		d2 = d2.Mul(-1)
	}
	return [3]geometry.Vector3{d0, d1, d2}
}

func anyPerpendicular(v geometry.Vector3) geometry.Vector3 {
	if math.Abs(v.X) < 0.9 {
		return basis[0].Cross(v)
	}
	return basis[1].Cross(v)
}

// IsPositioned reports whether Update has run at least once
func (b *OrientedBox) IsPositioned() bool {
	return b.positioned
}

// IsInFrustum reports false when all eight corners lie behind one of the
// first six planes. planes must hold at least six entries.
func (b *OrientedBox) IsInFrustum(planes []geometry.Plane) bool {
	if !b.positioned {
		return false
	}
	for p := 0; p < frustumPlaneCount; p++ {
		inside := len(b.VectorsWorld)
		for _, corner := range b.VectorsWorld {
			if planes[p].DotCoordinate(corner) < 0 {
				inside--
			}
		}
		if inside == 0 {
			return false
		}
	}
	return true
}

// IsCompletelyInFrustum reports whether every corner is inside every plane
func (b *OrientedBox) IsCompletelyInFrustum(planes []geometry.Plane) bool {
	if !b.positioned {
		return false
	}
	for p := 0; p < frustumPlaneCount; p++ {
		for _, corner := range b.VectorsWorld {
			if planes[p].DotCoordinate(corner) < 0 {
				return false
			}
		}
	}
	return true
}

// localOffset expresses point in the box frame, relative to its center
func (b *OrientedBox) localOffset(point geometry.Vector3) geometry.Vector3 {
	d := point.Sub(b.CenterWorld)
	return geometry.NewVector3(
		d.Dot(b.Directions[0]),
		d.Dot(b.Directions[1]),
		d.Dot(b.Directions[2]),
	)
}

// IntersectsPoint reports whether the point lies inside the box, with
// geometry.Epsilon of slack on every face
func (b *OrientedBox) IntersectsPoint(point geometry.Vector3) bool {
	if !b.positioned {
		return false
	}
	local := b.localOffset(point).Abs()
	return local.X <= b.ExtendsWorld.X+geometry.Epsilon &&
		local.Y <= b.ExtendsWorld.Y+geometry.Epsilon &&
		local.Z <= b.ExtendsWorld.Z+geometry.Epsilon
}

// IntersectsSphere reports whether a world-space sphere touches the box
func (b *OrientedBox) IntersectsSphere(center geometry.Vector3, radius float64) bool {
	if !b.positioned {
		return false
	}
	local := b.localOffset(center)
	closest := geometry.NewVector3(
		clamp(local.X, -b.ExtendsWorld.X, b.ExtendsWorld.X),
		clamp(local.Y, -b.ExtendsWorld.Y, b.ExtendsWorld.Y),
		clamp(local.Z, -b.ExtendsWorld.Z, b.ExtendsWorld.Z),
	)
	return local.Sub(closest).LengthSquared() <= radius*radius
}

// WorldBounds returns the axis-aligned world extent
func (b *OrientedBox) WorldBounds() geometry.BoundingBox {
	return geometry.BoundingBox{Min: b.MinimumWorld, Max: b.MaximumWorld}
}

// BoxesIntersect compares the axis-aligned world extents of two positioned
// boxes. It can report overlap for rotated boxes that do not touch; it is
// the cheap reject in front of the separating axis test.
func BoxesIntersect(a, b *OrientedBox) bool {
	if !a.positioned || !b.positioned {
		return false
	}
	return a.WorldBounds().Intersects(b.WorldBounds())
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
