package geometry

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// FromSDF converts an sdfx vector
func FromSDF(v v3.Vec) Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// SDF converts the vector to its sdfx form
func (v Vector3) SDF() v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// MatrixFromSDF converts an affine sdfx transform. sdfx multiplies column
// vectors on the right, so the images of the basis vectors become the rows
// of the returned matrix.
func MatrixFromSDF(m sdf.M44) Matrix {
	origin := FromSDF(m.MulPosition(v3.Vec{}))
	ex := FromSDF(m.MulPosition(v3.Vec{X: 1})).Sub(origin)
	ey := FromSDF(m.MulPosition(v3.Vec{Y: 1})).Sub(origin)
	ez := FromSDF(m.MulPosition(v3.Vec{Z: 1})).Sub(origin)

	return Matrix{
		ex.X, ex.Y, ex.Z, 0,
		ey.X, ey.Y, ey.Z, 0,
		ez.X, ez.Y, ez.Z, 0,
		origin.X, origin.Y, origin.Z, 1,
	}
}
