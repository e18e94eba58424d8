package culling

import (
	"math"
	"math/rand"
	"testing"

	"github.com/philipparndt/gocull/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitCubeAt(world geometry.Matrix) *BoundingInfo {
	bi := NewBoundingInfo(unitExtent())
	bi.Update(world, 1)
	return bi
}

func at(x, y, z float64) geometry.Matrix {
	return geometry.Translation(geometry.NewVector3(x, y, z))
}

// solid is a local box placed by an affine world. Membership is decided
// in the local frame through the inverse world, independent of the
// oriented box and its axes.
type solid struct {
	min, max geometry.Vector3
	world    geometry.Matrix
	inverse  geometry.Matrix
}

func newSolid(t *testing.T, min, max geometry.Vector3, world geometry.Matrix) solid {
	t.Helper()
	inverse, ok := world.Invert()
	require.True(t, ok, "world must be invertible")
	return solid{min: min, max: max, world: world, inverse: inverse}
}

func unitSolid(t *testing.T, world geometry.Matrix) solid {
	min, max := unitExtent()
	return newSolid(t, min, max, world)
}

// edges returns the twelve world edges
func (s solid) edges() [][2]geometry.Vector3 {
	corner := func(i int) geometry.Vector3 {
		c := s.min
		if i&1 != 0 {
			c.X = s.max.X
		}
		if i&2 != 0 {
			c.Y = s.max.Y
		}
		if i&4 != 0 {
			c.Z = s.max.Z
		}
		return s.world.TransformCoordinates(c)
	}

	out := make([][2]geometry.Vector3, 0, 12)
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				out = append(out, [2]geometry.Vector3{corner(i), corner(i | bit)})
			}
		}
	}
	return out
}

func component(v geometry.Vector3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

// meets clips a world segment against the box in its local frame
func (s solid) meets(segment [2]geometry.Vector3) bool {
	const slack = 1e-9
	origin := s.inverse.TransformCoordinates(segment[0])
	dir := s.inverse.TransformCoordinates(segment[1]).Sub(origin)

	t0, t1 := 0.0, 1.0
	for axis := 0; axis < 3; axis++ {
		o, d := component(origin, axis), component(dir, axis)
		lo, hi := component(s.min, axis)-slack, component(s.max, axis)+slack
		if math.Abs(d) < 1e-15 {
			if o < lo || o > hi {
				return false
			}
			continue
		}
		near, far := (lo-o)/d, (hi-o)/d
		if near > far {
			near, far = far, near
		}
		t0 = math.Max(t0, near)
		t1 = math.Min(t1, far)
		if t0 > t1 {
			return false
		}
	}
	return true
}

// solidsOverlap reports whether two placed boxes share a point. Convex
// solids intersect exactly when an edge of one meets the other.
func solidsOverlap(a, b solid) bool {
	for _, e := range a.edges() {
		if b.meets(e) {
			return true
		}
	}
	for _, e := range b.edges() {
		if a.meets(e) {
			return true
		}
	}
	return false
}

func TestIntersectsUnitCubes(t *testing.T) {
	tests := []struct {
		name    string
		offset  float64
		overlap bool
		tier    Tier
	}{
		{"coincident", 0, true, TierOverlap},
		{"far apart", 10, false, TierSphere},
		{"gap between faces", 1.5, false, TierAABB},
		{"overlapping", 0.9, true, TierOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := unitCubeAt(geometry.Identity())
			b := unitCubeAt(at(tt.offset, 0, 0))

			assert.Equal(t, tt.overlap, a.Intersects(b, true))
			assert.Equal(t, tt.overlap, b.Intersects(a, true))
			assert.Equal(t, tt.tier, a.Classify(b, true))
			assert.Equal(t, tt.overlap, solidsOverlap(unitSolid(t, geometry.Identity()), unitSolid(t, at(tt.offset, 0, 0))))
		})
	}
}

func TestIntersectsRotatedCubeNeedsSeparatingAxis(t *testing.T) {
	world := geometry.RotationZ(math.Pi / 4).Multiply(at(1.1, 1.1, 0))
	a := unitCubeAt(geometry.Identity())
	b := unitCubeAt(world)

	require.True(t, SpheresIntersect(a.Sphere, b.Sphere))
	require.True(t, BoxesIntersect(a.Box, b.Box), "the axis-aligned boxes overlap")

	assert.True(t, a.Intersects(b, false), "broad phase alone accepts the pair")
	assert.Equal(t, TierBroadPhase, a.Classify(b, false))

	assert.False(t, a.Intersects(b, true), "the rotated box does not reach the cube")
	assert.Equal(t, TierSAT, a.Classify(b, true))
	assert.False(t, solidsOverlap(unitSolid(t, geometry.Identity()), unitSolid(t, world)))
}

func TestIntersectsRotatedCubeTouching(t *testing.T) {
	a := unitCubeAt(geometry.Identity())
	b := unitCubeAt(geometry.RotationZ(math.Pi / 4).Multiply(at(1.1, 0, 0)))

	// a rotated corner reaches to x = 1.1 - 0.707 < 0.5
	assert.True(t, a.Intersects(b, true))
}

func TestIntersectsParallelEdgesAreTolerated(t *testing.T) {
	// identical orientation makes every edge cross product vanish
	a := unitCubeAt(geometry.RotationY(0.3))
	b := unitCubeAt(geometry.RotationY(0.3).Multiply(at(0.2, 0.2, 0.2)))

	assert.True(t, a.Intersects(b, true))
}

func randomRotation(rng *rand.Rand) geometry.Matrix {
	return geometry.RotationX(rng.Float64() * math.Pi).
		Multiply(geometry.RotationY(rng.Float64() * math.Pi)).
		Multiply(geometry.RotationZ(rng.Float64() * math.Pi))
}

func randomOffset(rng *rand.Rand) geometry.Matrix {
	return at(rng.Float64()*3-1.5, rng.Float64()*3-1.5, rng.Float64()*3-1.5)
}

func randomScaling(rng *rand.Rand) geometry.Matrix {
	return geometry.Scaling(geometry.NewVector3(0.5+rng.Float64(), 0.5+rng.Float64(), 0.5+rng.Float64()))
}

func TestSeparatingAxisMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	min, max := geometry.NewVector3(-0.5, -0.25, -1), geometry.NewVector3(0.5, 0.25, 1)

	// scale before rotation keeps the boxes rectangular, so the test is exact
	randomWorld := func() geometry.Matrix {
		return randomScaling(rng).Multiply(randomRotation(rng)).Multiply(randomOffset(rng))
	}

	overlaps := 0
	for i := 0; i < 500; i++ {
		wa, wb := randomWorld(), randomWorld()
		a := NewOrientedBox(min, max)
		b := NewOrientedBox(unitExtent())
		a.Update(wa)
		b.Update(wb)

		want := solidsOverlap(newSolid(t, min, max, wa), unitSolid(t, wb))
		require.Equal(t, want, SeparatingAxisTest(a, b), "case %d", i)
		require.Equal(t, want, SeparatingAxisTest(b, a), "case %d", i)
		if want {
			overlaps++
		}
	}
	assert.Positive(t, overlaps)
	assert.Less(t, overlaps, 500)
}

func TestSeparatingAxisNeverMissesSkewedOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	min, max := geometry.NewVector3(-0.5, -0.25, -1), geometry.NewVector3(0.5, 0.25, 1)

	randomWorld := func() geometry.Matrix {
		switch rng.Intn(3) {
		case 0:
			// non-uniform scale after the rotation skews the box
			return randomRotation(rng).Multiply(randomScaling(rng)).Multiply(randomOffset(rng))
		case 1:
			return shearXY(rng.Float64()*2 - 1).Multiply(randomRotation(rng)).Multiply(randomOffset(rng))
		default:
			return randomRotation(rng).Multiply(shearXY(rng.Float64()*2 - 1)).Multiply(randomScaling(rng)).Multiply(randomOffset(rng))
		}
	}

	overlaps := 0
	for i := 0; i < 500; i++ {
		wa, wb := randomWorld(), randomWorld()
		a := NewOrientedBox(min, max)
		b := NewOrientedBox(unitExtent())
		a.Update(wa)
		b.Update(wb)

		if solidsOverlap(newSolid(t, min, max, wa), unitSolid(t, wb)) {
			overlaps++
			require.True(t, SeparatingAxisTest(a, b), "case %d", i)
			require.True(t, SeparatingAxisTest(b, a), "case %d", i)
		}
	}
	assert.Positive(t, overlaps)
}

func TestIntersectsShearedCube(t *testing.T) {
	// the shear stretches the cube diagonally; scale 2 keeps the sphere around it
	a := NewBoundingInfo(unitExtent())
	a.Update(shearXY(1), 2)
	b := unitCubeAt(at(1.3, 0.4, 0))

	shared := geometry.NewVector3(0.85, 0.4, 0)
	require.True(t, solidsOverlap(unitSolid(t, shearXY(1)), unitSolid(t, at(1.3, 0.4, 0))))
	assert.True(t, a.IntersectsPoint(shared))
	assert.True(t, b.IntersectsPoint(shared))

	assert.True(t, SeparatingAxisTest(a.Box, b.Box))
	assert.True(t, SeparatingAxisTest(b.Box, a.Box))
	assert.True(t, a.Intersects(b, true))
	assert.Equal(t, TierOverlap, a.Classify(b, true))
}

func TestIntersectsUnpositioned(t *testing.T) {
	a := NewBoundingInfo(unitExtent())
	b := unitCubeAt(geometry.Identity())

	assert.False(t, a.Intersects(b, false))
	assert.False(t, b.Intersects(a, true))
	assert.Equal(t, TierUnpositioned, a.Classify(b, true))
	assert.False(t, a.IntersectsPoint(geometry.Zero()))
	assert.False(t, a.IsInFrustum(boxFrustum(10)))
}

func TestBoundingInfoIsInFrustum(t *testing.T) {
	planes := boxFrustum(10)

	assert.True(t, unitCubeAt(geometry.Identity()).IsInFrustum(planes))
	assert.True(t, unitCubeAt(geometry.Identity()).IsCompletelyInFrustum(planes))
	assert.False(t, unitCubeAt(at(0, 0, 20)).IsInFrustum(planes))
	assert.False(t, unitCubeAt(at(10.7, 0, 0)).IsInFrustum(planes), "sphere reaches in, box does not")
}

func TestBoundingInfoIntersectsPoint(t *testing.T) {
	bi := unitCubeAt(geometry.RotationZ(math.Pi / 4).Multiply(at(2, 2, 2)))

	assert.True(t, bi.IntersectsPoint(bi.Sphere.CenterWorld))
	assert.True(t, bi.IntersectsPoint(bi.Box.CenterWorld))
	// inside the sphere, outside the rotated box
	assert.False(t, bi.IntersectsPoint(geometry.NewVector3(2.4, 2.4, 2)))
}

func TestBoundingInfoUpdateIsIdempotent(t *testing.T) {
	world := geometry.RotationY(1).Multiply(at(4, 0, -2))
	bi := NewBoundingInfo(unitExtent())

	bi.Update(world, 2)
	sphere := *bi.Sphere
	box := *bi.Box
	bi.Update(world, 2)

	assert.Equal(t, sphere, *bi.Sphere)
	assert.Equal(t, box, *bi.Box)
}

func TestCheckCollision(t *testing.T) {
	bi := unitCubeAt(at(5, 0, 0))

	moving := SweptSphere{Position: geometry.NewVector3(3, 0, 0), Velocity: geometry.NewVector3(1, 0, 0), Radius: 0.6}
	assert.True(t, bi.CheckCollision(moving))

	still := SweptSphere{Position: geometry.NewVector3(3, 0, 0), Radius: 0.6}
	assert.False(t, bi.CheckCollision(still))

	assert.False(t, NewBoundingInfo(unitExtent()).CheckCollision(moving), "unpositioned")
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "sat", TierSAT.String())
	assert.Equal(t, "unknown", Tier(42).String())
	assert.True(t, TierOverlap.Overlaps())
	assert.False(t, TierAABB.Overlaps())
}
