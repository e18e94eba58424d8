package geometry

import "math"

// Matrix is a 4x4 affine or projective transform.
//
// Points are treated as row vectors multiplied on the left (p' = p*M), so
// elements 12, 13 and 14 hold the translation and a.Multiply(b) applies a
// first and b second.
type Matrix [16]float64

// Identity returns the identity matrix
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a matrix that moves points by offset
func Translation(offset Vector3) Matrix {
	m := Identity()
	m[12] = offset.X
	m[13] = offset.Y
	m[14] = offset.Z
	return m
}

// Scaling returns a matrix that scales each axis independently
func Scaling(s Vector3) Matrix {
	m := Identity()
	m[0] = s.X
	m[5] = s.Y
	m[10] = s.Z
	return m
}

// UniformScaling returns a matrix that scales all axes by s
func UniformScaling(s float64) Matrix {
	return Scaling(NewVector3(s, s, s))
}

// RotationX returns a rotation of angle radians about the X axis
func RotationX(angle float64) Matrix {
	s, c := math.Sincos(angle)
	m := Identity()
	m[5] = c
	m[6] = s
	m[9] = -s
	m[10] = c
	return m
}

// RotationY returns a rotation of angle radians about the Y axis
func RotationY(angle float64) Matrix {
	s, c := math.Sincos(angle)
	m := Identity()
	m[0] = c
	m[2] = -s
	m[8] = s
	m[10] = c
	return m
}

// RotationZ returns a rotation of angle radians about the Z axis
func RotationZ(angle float64) Matrix {
	s, c := math.Sincos(angle)
	m := Identity()
	m[0] = c
	m[1] = s
	m[4] = -s
	m[5] = c
	return m
}

// LookAtLH returns a left-handed view matrix for a camera at eye looking at target.
// The camera looks down its local +Z.
func LookAtLH(eye, target, up Vector3) Matrix {
	zAxis := target.Sub(eye).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis).Normalize()

	return Matrix{
		xAxis.X, yAxis.X, zAxis.X, 0,
		xAxis.Y, yAxis.Y, zAxis.Y, 0,
		xAxis.Z, yAxis.Z, zAxis.Z, 0,
		-xAxis.Dot(eye), -yAxis.Dot(eye), -zAxis.Dot(eye), 1,
	}
}

// PerspectiveFovLH returns a left-handed perspective projection with depth
// mapped to [0, w]. fov is the vertical field of view in radians.
func PerspectiveFovLH(fov, aspect, near, far float64) Matrix {
	t := 1.0 / math.Tan(fov*0.5)
	var m Matrix
	m[0] = t / aspect
	m[5] = t
	m[10] = far / (far - near)
	m[11] = 1
	m[14] = -(near * far) / (far - near)
	return m
}

// Multiply returns the transform that applies m first and other second
func (m Matrix) Multiply(other Matrix) Matrix {
	var r Matrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r[row*4+col] = m[row*4]*other[col] +
				m[row*4+1]*other[4+col] +
				m[row*4+2]*other[8+col] +
				m[row*4+3]*other[12+col]
		}
	}
	return r
}

// TransformCoordinates applies the full transform to a point, including the
// perspective divide
func (m Matrix) TransformCoordinates(v Vector3) Vector3 {
	x := v.X*m[0] + v.Y*m[4] + v.Z*m[8] + m[12]
	y := v.X*m[1] + v.Y*m[5] + v.Z*m[9] + m[13]
	z := v.X*m[2] + v.Y*m[6] + v.Z*m[10] + m[14]
	w := v.X*m[3] + v.Y*m[7] + v.Z*m[11] + m[15]
	if w == 0 || w == 1 {
		return Vector3{X: x, Y: y, Z: z}
	}
	return Vector3{X: x / w, Y: y / w, Z: z / w}
}

// TransformNormal applies the rotation and scale part of the transform to a
// direction; translation is ignored
func (m Matrix) TransformNormal(v Vector3) Vector3 {
	return Vector3{
		X: v.X*m[0] + v.Y*m[4] + v.Z*m[8],
		Y: v.X*m[1] + v.Y*m[5] + v.Z*m[9],
		Z: v.X*m[2] + v.Y*m[6] + v.Z*m[10],
	}
}

// Determinant returns the determinant of the full 4x4 matrix
func (m Matrix) Determinant() float64 {
	inv := m.cofactors()
	return m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
}

// Invert returns the inverse; ok is false when the matrix is singular
func (m Matrix) Invert() (inv Matrix, ok bool) {
	inv = m.cofactors()
	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if math.Abs(det) < 1e-12 {
		return Matrix{}, false
	}
	det = 1.0 / det
	for i := range inv {
		inv[i] *= det
	}
	return inv, true
}

// Equals reports whether every element is within eps of other
func (m Matrix) Equals(other Matrix, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > eps {
			return false
		}
	}
	return true
}

// cofactors returns the transposed cofactor matrix (adjugate)
func (m Matrix) cofactors() Matrix {
	var inv Matrix

	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] +
		m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] -
		m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] +
		m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] -
		m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]

	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] -
		m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] +
		m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] -
		m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] +
		m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]

	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] +
		m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] -
		m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] +
		m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] -
		m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]

	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] -
		m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] +
		m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] -
		m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] +
		m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	return inv
}
