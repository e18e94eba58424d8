package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testFrustum() Frustum {
	view := LookAtLH(NewVector3(0, 0, -10), Zero(), NewVector3(0, 1, 0))
	proj := PerspectiveFovLH(math.Pi/2, 1, 0.1, 100)
	return NewFrustum(view.Multiply(proj))
}

func TestFrustumContainsPoint(t *testing.T) {
	f := testFrustum()

	assert.True(t, f.ContainsPoint(Zero()), "target")
	assert.True(t, f.ContainsPoint(NewVector3(5, 0, 0)), "inside the 90 degree cone")
	assert.False(t, f.ContainsPoint(NewVector3(0, 0, -20)), "behind the camera")
	assert.False(t, f.ContainsPoint(NewVector3(0, 0, 200)), "beyond the far plane")
	assert.False(t, f.ContainsPoint(NewVector3(50, 0, 0)), "right of the cone")
	assert.False(t, f.ContainsPoint(NewVector3(0, -50, 0)), "below the cone")
}

func TestFrustumPlanesAreNormalized(t *testing.T) {
	f := testFrustum()
	for i, p := range f.Planes() {
		assert.InDelta(t, 1.0, p.Normal.Length(), 1e-9, "plane %d", i)
	}
}

func TestFrustumNearPlaneDistance(t *testing.T) {
	f := testFrustum()
	// the near plane sits 0.1 in front of the eye at z = -10
	assert.InDelta(t, 0.0, f[FrustumNear].DotCoordinate(NewVector3(0, 0, -9.9)), 1e-9)
	assert.InDelta(t, 9.9, f[FrustumNear].DotCoordinate(Zero()), 1e-9)
}

func TestPlaneFromPoints(t *testing.T) {
	p := NewPlaneFromPoints(Zero(), NewVector3(1, 0, 0), NewVector3(0, 1, 0))
	assert.Equal(t, NewVector3(0, 0, 1), p.Normal)
	assert.InDelta(t, 3.0, p.DotCoordinate(NewVector3(4, 4, 3)), 1e-12)
}

func TestPlaneNormalize(t *testing.T) {
	p := NewPlane(0, 2, 0, 4).Normalize()
	assert.Equal(t, NewVector3(0, 1, 0), p.Normal)
	assert.Equal(t, 2.0, p.D)
}
