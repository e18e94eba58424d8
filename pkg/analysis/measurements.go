// Package analysis summarizes a model and the culling volumes built from it
package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/gocull/pkg/culling"
	"github.com/philipparndt/gocull/pkg/geometry"
	"github.com/philipparndt/gocull/pkg/stl"
)

// Report describes a model in local space
type Report struct {
	Name          string
	TriangleCount int
	SurfaceArea   float64
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64

	Bounds       geometry.BoundingBox
	SphereCenter geometry.Vector3
	SphereRadius float64
	BoxCenter    geometry.Vector3
	BoxExtends   geometry.Vector3

	BoxVolume    float64
	SphereVolume float64
}

// SphereOverhead is how much larger the bounding sphere is than the box.
// Elongated models score high, which means the sphere test rejects less.
func (r *Report) SphereOverhead() float64 {
	if r.BoxVolume == 0 {
		return math.Inf(1)
	}
	return r.SphereVolume / r.BoxVolume
}

// AnalyzeModel measures the model and builds its culling volumes
func AnalyzeModel(model *stl.Model) *Report {
	bounds := model.BoundingBox()
	info := culling.NewBoundingInfoFromBox(bounds)

	r := &Report{
		Name:          model.Name,
		TriangleCount: model.TriangleCount(),
		SurfaceArea:   model.SurfaceArea(),
		Bounds:        bounds,
		SphereCenter:  info.Sphere.Center,
		SphereRadius:  info.Sphere.Radius,
		BoxCenter:     info.Box.Center,
		BoxExtends:    info.Box.Extends,
		BoxVolume:     bounds.Volume(),
		SphereVolume:  4.0 / 3.0 * math.Pi * math.Pow(info.Sphere.Radius, 3),
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, triangle := range model.Triangles {
		for _, length := range triangle.EdgeLengths() {
			r.EdgeCount++
			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
		}
	}

	if r.EdgeCount > 0 {
		r.MinEdgeLength = minLength
		r.MaxEdgeLength = maxLength
		r.AvgEdgeLength = totalLength / float64(r.EdgeCount)
	}

	return r
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
