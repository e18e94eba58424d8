package geometry

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestRotationZQuarterTurn(t *testing.T) {
	got := RotationZ(math.Pi / 2).TransformCoordinates(NewVector3(1, 0, 0))
	assert.True(t, got.Equals(NewVector3(0, 1, 0), tolerance), "got %v", got)
}

func TestRotationXQuarterTurn(t *testing.T) {
	got := RotationX(math.Pi / 2).TransformCoordinates(NewVector3(0, 1, 0))
	assert.True(t, got.Equals(NewVector3(0, 0, 1), tolerance), "got %v", got)
}

func TestRotationYQuarterTurn(t *testing.T) {
	got := RotationY(math.Pi / 2).TransformCoordinates(NewVector3(0, 0, 1))
	assert.True(t, got.Equals(NewVector3(1, 0, 0), tolerance), "got %v", got)
}

func TestMultiplyAppliesLeftFirst(t *testing.T) {
	m := Translation(NewVector3(1, 0, 0)).Multiply(RotationZ(math.Pi / 2))
	got := m.TransformCoordinates(Zero())
	assert.True(t, got.Equals(NewVector3(0, 1, 0), tolerance), "got %v", got)
}

func TestTransformNormalIgnoresTranslation(t *testing.T) {
	m := Translation(NewVector3(5, 6, 7)).Multiply(UniformScaling(2))
	got := m.TransformNormal(NewVector3(0, 0, 1))
	assert.Equal(t, NewVector3(0, 0, 2), got)
}

func TestInvert(t *testing.T) {
	m := RotationY(0.3).
		Multiply(Scaling(NewVector3(2, 3, 4))).
		Multiply(Translation(NewVector3(-1, 8, 2)))

	inv, ok := m.Invert()
	require.True(t, ok)
	assert.True(t, m.Multiply(inv).Equals(Identity(), 1e-9))
	assert.InDelta(t, 24.0, m.Determinant(), 1e-9)
}

func TestInvertSingular(t *testing.T) {
	_, ok := Scaling(NewVector3(1, 0, 1)).Invert()
	assert.False(t, ok)
}

func TestMatrixFromSDF(t *testing.T) {
	m := sdf.Translate3d(v3.Vec{X: 1, Y: 2, Z: 3}).Mul(sdf.RotateZ(math.Pi / 2))
	got := MatrixFromSDF(m)

	want := RotationZ(math.Pi / 2).Multiply(Translation(NewVector3(1, 2, 3)))
	assert.True(t, got.Equals(want, tolerance), "got %v want %v", got, want)

	p := NewVector3(1, 0, 0)
	assert.True(t, got.TransformCoordinates(p).Equals(FromSDF(m.MulPosition(p.SDF())), tolerance))
}
