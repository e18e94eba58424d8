// Package primitive builds analytic solids with sdfx and reports their local
// extent, so scenes can place boxes, spheres and cylinders without a mesh file.
package primitive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/philipparndt/gocull/pkg/geometry"
	"github.com/philipparndt/gocull/pkg/stl"
)

// DefaultMeshCells is the marching cubes resolution used for previews
const DefaultMeshCells = 40

var (
	// ErrUnknownKind is returned for a primitive kind that is not supported
	ErrUnknownKind = errors.New("unknown primitive kind")
	// ErrInvalidDimension is returned for a non-positive size, radius or height
	ErrInvalidDimension = errors.New("primitive dimensions must be positive")
)

// Kind names a primitive solid
type Kind string

// Supported kinds
const (
	Box      Kind = "box"
	Sphere   Kind = "sphere"
	Cylinder Kind = "cylinder"
)

// Spec describes a primitive centered on the origin. Size is used by boxes,
// Radius by spheres and cylinders, Height by cylinders.
type Spec struct {
	Kind   Kind       `yaml:"kind"`
	Size   [3]float64 `yaml:"size"`
	Radius float64    `yaml:"radius"`
	Height float64    `yaml:"height"`
	Round  float64    `yaml:"round"`
}

// Solid builds the sdfx solid for the spec
func (s Spec) Solid() (sdf.SDF3, error) {
	switch Kind(strings.ToLower(string(s.Kind))) {
	case Box:
		if s.Size[0] <= 0 || s.Size[1] <= 0 || s.Size[2] <= 0 {
			return nil, fmt.Errorf("%w: size %v", ErrInvalidDimension, s.Size)
		}
		return sdf.Box3D(v3.Vec{X: s.Size[0], Y: s.Size[1], Z: s.Size[2]}, s.Round)
	case Sphere:
		if s.Radius <= 0 {
			return nil, fmt.Errorf("%w: radius %v", ErrInvalidDimension, s.Radius)
		}
		return sdf.Sphere3D(s.Radius)
	case Cylinder:
		if s.Radius <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("%w: radius %v, height %v", ErrInvalidDimension, s.Radius, s.Height)
		}
		return sdf.Cylinder3D(s.Height, s.Radius, s.Round)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
}

// Bounds returns the local extent of the primitive
func (s Spec) Bounds() (geometry.BoundingBox, error) {
	solid, err := s.Solid()
	if err != nil {
		return geometry.BoundingBox{}, fmt.Errorf("primitive %s: %w", s.Kind, err)
	}
	bb := solid.BoundingBox()
	return geometry.BoundingBox{Min: geometry.FromSDF(bb.Min), Max: geometry.FromSDF(bb.Max)}, nil
}

// Mesh tessellates the primitive with marching cubes over cells steps
// along its longest side
func (s Spec) Mesh(cells int) (*stl.Model, error) {
	solid, err := s.Solid()
	if err != nil {
		return nil, fmt.Errorf("primitive %s: %w", s.Kind, err)
	}

	model := stl.NewModel(string(s.Kind))
	for _, tri := range render.ToTriangles(solid, render.NewMarchingCubesUniform(cells)) {
		model.AddTriangle(geometry.NewTriangle(
			geometry.FromSDF(tri.Normal()),
			geometry.FromSDF(tri[0]),
			geometry.FromSDF(tri[1]),
			geometry.FromSDF(tri[2]),
		))
	}
	return model, nil
}
