package scene

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/philipparndt/gocull/pkg/culling"
	"github.com/philipparndt/gocull/pkg/geometry"
	"github.com/philipparndt/gocull/pkg/stl"
)

// Transform places an object. Rotation holds Euler angles in degrees,
// applied about X, then Y, then Z.
type Transform struct {
	Position geometry.Vector3
	Rotation geometry.Vector3
	Scale    float64
}

// World composes scale, rotation and translation into a world matrix
func (t Transform) World() geometry.Matrix {
	rad := t.Rotation.Mul(math.Pi / 180)
	m := sdf.Translate3d(t.Position.SDF()).
		Mul(sdf.RotateZ(rad.Z)).
		Mul(sdf.RotateY(rad.Y)).
		Mul(sdf.RotateX(rad.X)).
		Mul(sdf.Scale3d(v3.Vec{X: t.Scale, Y: t.Scale, Z: t.Scale}))
	return geometry.MatrixFromSDF(m)
}

// Object is a placed model with its culling volumes
type Object struct {
	Name      string
	Source    string
	Transform Transform
	Model     *stl.Model
	Bounds    geometry.BoundingBox
	Info      *culling.BoundingInfo
}

// Update recomputes the culling volumes from the current transform
func (o *Object) Update() {
	o.Info.Update(o.Transform.World(), o.Transform.Scale)
}

// Position returns the world center of the object, or its translation
// before the first update
func (o *Object) Position() geometry.Vector3 {
	if o.Info.IsPositioned() {
		return o.Info.Box.CenterWorld
	}
	return o.Transform.Position
}

// WorldModel returns the mesh moved into world space
func (o *Object) WorldModel() *stl.Model {
	return o.Model.Transform(o.Transform.World())
}
